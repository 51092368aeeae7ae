// Package recorder turns a classification decision into a persisted Prediction.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/cancerscan/internal/events"
	"github.com/kiranshivaraju/cancerscan/internal/metrics"
	"github.com/kiranshivaraju/cancerscan/internal/store"
	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

var ErrPersist = errors.New("persist prediction")

// Recorder assigns identity to a verdict and writes it through the Store.
type Recorder struct {
	store     store.Store
	publisher events.Publisher
	timeout   time.Duration
	newID     func() string
	now       func() time.Time
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) { r.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(r *Recorder) { r.now = fn }
}

// WithTimeout bounds each store write. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) { r.timeout = d }
}

// New creates a Recorder. A nil publisher disables event publishing.
func New(s store.Store, p events.Publisher, opts ...Option) *Recorder {
	if p == nil {
		p = events.NopPublisher{}
	}
	r := &Recorder{
		store:     s,
		publisher: p,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record builds the Prediction for positive, persists it and returns it.
// The record is only returned once the store has accepted it. Publishing is
// best effort and never fails the call.
func (r *Recorder) Record(ctx context.Context, positive bool) (*models.Prediction, error) {
	verdict := models.VerdictFor(positive)
	p := &models.Prediction{
		ID:         r.newID(),
		Result:     verdict.Result,
		Suggestion: verdict.Suggestion,
		CreatedAt:  models.FormatCreatedAt(r.now()),
	}

	storeCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.store.CreatePrediction(storeCtx, p); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrPersist, p.ID, err)
	}
	metrics.RecordPrediction(p.Result)

	if err := r.publisher.PublishPrediction(ctx, p); err != nil {
		metrics.RecordPublishFailure()
		slog.Warn("publish prediction failed", "id", p.ID, "error", err)
	}

	return p, nil
}
