package lowdata

import (
	"fmt"
	"strings"
)

// PairingError reports the position at which parallel list fields could
// not be paired into a complete chunk.
type PairingError struct {
	// Position is the zero-based chunk index that could not be completed.
	Position int

	// Missing lists the fields with no usable value at that position,
	// in sorted order.
	Missing []string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("error pairing parameters at position %d: no value for %s",
		e.Position, strings.Join(e.Missing, ", "))
}
