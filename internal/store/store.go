package store

import (
	"context"
	"errors"

	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All persistence goes through here.
// Implementations must be safe for concurrent use.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// CreatePrediction persists p keyed by p.ID.
	CreatePrediction(ctx context.Context, p *models.Prediction) error
	// ListPredictions returns every persisted prediction. The result is never nil.
	ListPredictions(ctx context.Context) ([]*models.Prediction, error)
}
