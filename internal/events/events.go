// Package events announces recorded predictions to downstream consumers.
package events

import (
	"context"

	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

// DefaultChannel is the pub/sub channel predictions are published on.
const DefaultChannel = "predictions.created"

// Publisher is the event interface. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishPrediction(ctx context.Context, p *models.Prediction) error
	Ping(ctx context.Context) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPrediction(context.Context, *models.Prediction) error { return nil }
func (NopPublisher) Ping(context.Context) error                                  { return nil }
func (NopPublisher) Close() error                                                { return nil }

var _ Publisher = NopPublisher{}
