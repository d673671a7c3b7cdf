// Package hypermedia implements bidirectional content negotiation for the
// gateway: choosing how a response envelope is serialized from the request's
// Accept header, and choosing how a request body is decoded from its
// Content-Type header.
//
// # Output Negotiation
//
// Output representations live in a Registry mapping media types to emitters.
// An Emitter is a tagged variant: it either names a built-in wire codec
// ("json", "yaml") or carries an inline render function. The gateway builds
// one registry at startup and clones it per response, so a handler can
// install a request-scoped override (typically a text/html template
// renderer) without touching shared state:
//
//	reg := base.Clone()
//	reg.Set(hypermedia.MediaHTML, hypermedia.Emitter{Render: renderPage})
//	mediaType, emitter, err := hypermedia.SelectOutput(r.Header.Get("Accept"), reg)
//
// Selection honours q-values and wildcard ranges; ties between equally
// preferred types are broken by registration order. No satisfiable type
// yields ErrNotAcceptable (HTTP 406), on error responses as much as on
// success.
//
// # Input Negotiation
//
// Request decoders live in an InputRegistry keyed by media type. SelectInput
// strips media type parameters before matching, so "application/json;
// charset=utf-8" finds the JSON decoder. An unregistered content type yields
// ErrUnsupportedMedia, which the gateway reports as HTTP 406 with the body
// "Content type not supported" - 406 rather than 415 is a compatibility
// contract with existing clients.
//
// Decoders produce a flat map[string]any regardless of wire format; form
// bodies decode repeated keys into lists so they batch the same way JSON
// and YAML lists do.
package hypermedia
