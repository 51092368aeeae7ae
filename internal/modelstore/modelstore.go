// Package modelstore fetches serialized model artifacts from remote storage.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for artifact fetch failures.
var (
	ErrFetchUnreachable = errors.New("model store unreachable")
	ErrFetchTimeout     = errors.New("model fetch timeout")
	ErrFetchStatus      = errors.New("model store returned unexpected status")
	ErrArtifactEmpty    = errors.New("model artifact is empty")
)

// Fetcher retrieves a model artifact.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Location describes where the artifact comes from, for logging.
	Location() string
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrFetchTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrFetchTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrFetchUnreachable, err)
}
