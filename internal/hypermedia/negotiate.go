package hypermedia

import (
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// acceptRange is one parsed media range from an Accept header.
type acceptRange struct {
	typ string
	sub string
	q   float64
}

// parseAccept parses an Accept header into media ranges. A missing or empty
// header accepts anything. Malformed ranges are skipped rather than failing
// the whole header; a header with nothing parseable matches no type.
func parseAccept(header string) []acceptRange {
	if strings.TrimSpace(header) == "" {
		return []acceptRange{{typ: "*", sub: "*", q: 1}}
	}

	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		typ, sub, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}

		q := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}
		if q < 0 {
			q = 0
		}
		if q > 1 {
			q = 1
		}

		ranges = append(ranges, acceptRange{typ: typ, sub: sub, q: q})
	}
	return ranges
}

// matchQuality returns the q-value of the most specific range matching the
// offered type, and whether any range matched. Specificity: exact match
// beats type wildcard beats full wildcard, regardless of q.
func matchQuality(typ, sub string, ranges []acceptRange) (float64, bool) {
	best := -1
	q := 0.0
	for _, r := range ranges {
		var specificity int
		switch {
		case r.typ == typ && r.sub == sub:
			specificity = 3
		case r.typ == typ && r.sub == "*":
			specificity = 2
		case r.typ == "*" && r.sub == "*":
			specificity = 1
		default:
			continue
		}
		if specificity > best {
			best = specificity
			q = r.q
		}
	}
	return q, best >= 0
}

// SelectOutput picks the emitter for a response from the request's Accept
// header and the response's registry.
//
// Each registered type is scored by the most specific matching range's
// q-value; the highest q wins and ties go to the earlier registration. No
// match, or only q=0 matches, returns ErrNotAcceptable - including on the
// error path, since error envelopes honour Accept the same way success
// envelopes do.
func SelectOutput(accept string, reg *Registry) (string, Emitter, error) {
	ranges := parseAccept(accept)

	bestIdx := -1
	bestQ := 0.0
	for i, ent := range reg.entries {
		typ, sub, ok := strings.Cut(ent.mediaType, "/")
		if !ok {
			continue
		}
		q, matched := matchQuality(typ, sub, ranges)
		if !matched || q <= 0 {
			continue
		}
		if q > bestQ {
			bestQ = q
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return "", Emitter{}, fmt.Errorf("%w: %q", ErrNotAcceptable, accept)
	}
	ent := reg.entries[bestIdx]
	return ent.mediaType, ent.emitter, nil
}

// SelectInput picks the body decoder for a request from its Content-Type
// header. Media type parameters (charset and friends) are stripped before
// matching. An absent Content-Type falls back to form encoding, the
// historical default for HTML form submissions; an unregistered one returns
// ErrUnsupportedMedia.
func SelectInput(contentType string, reg *InputRegistry) (DecoderFunc, error) {
	if strings.TrimSpace(contentType) == "" {
		contentType = MediaForm
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
	}

	d, ok := reg.decoders[strings.ToLower(mediaType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
	}
	return d, nil
}
