package runner

import (
	"context"
	"errors"

	"github.com/tarmason/fleetgate/internal/lowdata"
)

// Runner executes one command chunk against the fleet and returns its
// result.
type Runner interface {
	// Execute submits a chunk and blocks until the agent replies, the
	// reply window lapses, or ctx is cancelled.
	Execute(ctx context.Context, chunk lowdata.Chunk) (any, error)
}

// Sentinel errors for command execution.
var (
	ErrReplyTimeout  = errors.New("runner: no reply within the reply window")
	ErrCommandFailed = errors.New("runner: command failed")
)
