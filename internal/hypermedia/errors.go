package hypermedia

import "errors"

// Sentinel errors for negotiation failures.
//
// These can be checked with errors.Is() for specific handling:
//
//	if errors.Is(err, hypermedia.ErrNotAcceptable) {
//	    // respond 406
//	}
var (
	// ErrNotAcceptable indicates no registered output representation
	// satisfies the request's Accept header.
	ErrNotAcceptable = errors.New("hypermedia: no acceptable representation")

	// ErrUnsupportedMedia indicates no registered decoder matches the
	// request's Content-Type header. Reported to clients as HTTP 406.
	ErrUnsupportedMedia = errors.New("hypermedia: content type not supported")

	// ErrUnknownFormat indicates an emitter names a wire format that has
	// no registered codec.
	ErrUnknownFormat = errors.New("hypermedia: unknown wire format")
)
