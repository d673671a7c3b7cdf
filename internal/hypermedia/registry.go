package hypermedia

import "strings"

// Registry maps media types to output emitters.
//
// Entries keep registration order, which breaks ties between equally
// preferred Accept alternatives. The registry built at startup is shared
// and must not be mutated once requests are being served; handlers that
// need a per-response override work on a Clone.
type Registry struct {
	entries []registryEntry
}

type registryEntry struct {
	mediaType string
	emitter   Emitter
}

// DefaultOutput returns the output registry the gateway registers at
// startup: JSON first (the preferred default), then YAML.
func DefaultOutput() *Registry {
	r := &Registry{}
	r.Set(MediaJSON, Emitter{Format: FormatJSON})
	r.Set(MediaYAML, Emitter{Format: FormatYAML})
	return r
}

// Set registers an emitter for a media type. An existing entry is replaced
// in place, keeping its negotiation rank; a new media type appends.
func (r *Registry) Set(mediaType string, e Emitter) {
	mediaType = strings.ToLower(mediaType)
	for i, ent := range r.entries {
		if ent.mediaType == mediaType {
			r.entries[i].emitter = e
			return
		}
	}
	r.entries = append(r.entries, registryEntry{mediaType: mediaType, emitter: e})
}

// Get returns the emitter registered for a media type.
func (r *Registry) Get(mediaType string) (Emitter, bool) {
	mediaType = strings.ToLower(mediaType)
	for _, ent := range r.entries {
		if ent.mediaType == mediaType {
			return ent.emitter, true
		}
	}
	return Emitter{}, false
}

// Clone returns an independent copy for per-response overrides.
func (r *Registry) Clone() *Registry {
	cp := &Registry{entries: make([]registryEntry, len(r.entries))}
	copy(cp.entries, r.entries)
	return cp
}

// Types returns the registered media types in registration order.
func (r *Registry) Types() []string {
	types := make([]string, len(r.entries))
	for i, ent := range r.entries {
		types[i] = ent.mediaType
	}
	return types
}

// InputRegistry maps media types to request body decoders.
//
// Unlike the output side it is never mutated per request; lookup order is
// irrelevant because Content-Type matching is exact.
type InputRegistry struct {
	decoders map[string]DecoderFunc
}

// DefaultInput returns the decoder set the gateway registers at startup:
// HTML forms, JSON, and both YAML media types.
func DefaultInput() *InputRegistry {
	r := &InputRegistry{decoders: make(map[string]DecoderFunc)}
	r.Set(MediaForm, DecodeForm)
	r.Set(MediaJSON, DecodeJSON)
	r.Set(MediaYAML, DecodeYAML)
	r.Set(MediaTextYAML, DecodeYAML)
	return r
}

// Set registers a decoder for a media type.
func (r *InputRegistry) Set(mediaType string, d DecoderFunc) {
	if r.decoders == nil {
		r.decoders = make(map[string]DecoderFunc)
	}
	r.decoders[strings.ToLower(mediaType)] = d
}
