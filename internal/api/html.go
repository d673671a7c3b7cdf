package api

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/tarmason/fleetgate/internal/hypermedia"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates holds the parsed bootstrap, login and error pages.
// Parsing happens once at init; a broken template is a build error.
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// installHTML points the text/html slot of this response's registry at
// the named page template, rendered with the envelope. The override
// lives on the request-scoped registry clone, so it affects exactly one
// response.
func (s *Server) installHTML(ctx context.Context, page string) {
	s.responseRegistry(ctx).Set(hypermedia.MediaHTML, hypermedia.Emitter{
		Render: func(v any) ([]byte, error) {
			var buf bytes.Buffer
			if err := pageTemplates.ExecuteTemplate(&buf, page, v); err != nil {
				return nil, fmt.Errorf("rendering %s: %w", page, err)
			}
			return buf.Bytes(), nil
		},
	})
}
