// Package inference holds the loaded classifier and its decision rule.
package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kiranshivaraju/cancerscan/internal/preprocess"
)

// Threshold separates positive from negative scores. The comparison is
// strict: a score equal to Threshold is negative.
const Threshold float32 = 0.5

var (
	ErrModelNotReady  = errors.New("model not ready")
	ErrAlreadyLoaded  = errors.New("model already loaded")
	ErrEmptyOutput    = errors.New("model returned empty output")
	ErrInferenceFault = errors.New("inference failed")
)

// Model is a loaded classifier. Implementations must be safe for concurrent use.
type Model interface {
	Predict(ctx context.Context, input *preprocess.Tensor) ([]float32, error)
	Close() error
}

// ModelLoader produces a Model, typically by fetching and parsing an artifact.
type ModelLoader func(ctx context.Context) (Model, error)

// Decision is the outcome of classifying one input.
type Decision struct {
	Score    float32
	Positive bool
}

// IsPositive applies the decision rule to a score.
func IsPositive(score float32) bool {
	return score > Threshold
}

// Predictor owns the process-wide model. The model is assigned once by Load
// and only read afterwards; the ready channel publishes it to readers.
type Predictor struct {
	once  sync.Once
	ready chan struct{}
	model Model
}

// NewPredictor returns a Predictor with no model loaded.
func NewPredictor() *Predictor {
	return &Predictor{ready: make(chan struct{})}
}

// Load runs loader exactly once. A failed load is not retried; callers are
// expected to abort startup.
func (p *Predictor) Load(ctx context.Context, loader ModelLoader) error {
	err := ErrAlreadyLoaded
	p.once.Do(func() {
		m, loadErr := loader(ctx)
		if loadErr != nil {
			err = fmt.Errorf("load model: %w", loadErr)
			return
		}
		p.model = m
		close(p.ready)
		err = nil
	})
	return err
}

// IsReady reports whether the model is loaded.
func (p *Predictor) IsReady() bool {
	select {
	case <-p.ready:
		return true
	default:
		return false
	}
}

// Score runs a forward pass and returns the first output value.
// It fails fast with ErrModelNotReady if no model is loaded.
func (p *Predictor) Score(ctx context.Context, input *preprocess.Tensor) (float32, error) {
	if !p.IsReady() {
		return 0, ErrModelNotReady
	}

	out, err := p.model.Predict(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInferenceFault, err)
	}
	if len(out) == 0 {
		return 0, ErrEmptyOutput
	}
	return out[0], nil
}

// Classify scores input and applies the decision rule.
func (p *Predictor) Classify(ctx context.Context, input *preprocess.Tensor) (Decision, error) {
	score, err := p.Score(ctx, input)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Score: score, Positive: IsPositive(score)}, nil
}

// Close releases the model if one was loaded.
func (p *Predictor) Close() error {
	if !p.IsReady() {
		return nil
	}
	return p.model.Close()
}
