package mock

import (
	"context"
	"sync/atomic"

	"github.com/kiranshivaraju/cancerscan/internal/inference"
	"github.com/kiranshivaraju/cancerscan/internal/preprocess"
)

// MockModel satisfies inference.Model for testing.
type MockModel struct {
	PredictFunc func(ctx context.Context, input *preprocess.Tensor) ([]float32, error)
	Calls       atomic.Int64
	Closed      atomic.Bool
}

func (m *MockModel) Predict(ctx context.Context, input *preprocess.Tensor) ([]float32, error) {
	m.Calls.Add(1)
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, input)
	}
	return []float32{0}, nil
}

func (m *MockModel) Close() error {
	m.Closed.Store(true)
	return nil
}

// NewScoreModel returns a MockModel that always outputs score.
func NewScoreModel(score float32) *MockModel {
	return &MockModel{
		PredictFunc: func(_ context.Context, _ *preprocess.Tensor) ([]float32, error) {
			return []float32{score}, nil
		},
	}
}

// NewMeanModel returns a MockModel whose score is the mean of its input,
// which makes it deterministic in the image content.
func NewMeanModel() *MockModel {
	return &MockModel{
		PredictFunc: func(_ context.Context, input *preprocess.Tensor) ([]float32, error) {
			var sum float64
			for _, v := range input.Data {
				sum += float64(v)
			}
			if len(input.Data) == 0 {
				return []float32{0}, nil
			}
			return []float32{float32(sum / float64(len(input.Data)))}, nil
		},
	}
}

// NewFailingModel returns a MockModel that always returns the given error.
func NewFailingModel(err error) *MockModel {
	return &MockModel{
		PredictFunc: func(_ context.Context, _ *preprocess.Tensor) ([]float32, error) {
			return nil, err
		},
	}
}

// Loader wraps m in an inference.ModelLoader.
func Loader(m inference.Model) inference.ModelLoader {
	return func(_ context.Context) (inference.Model, error) {
		return m, nil
	}
}

// Compile-time check that MockModel implements Model.
var _ inference.Model = (*MockModel)(nil)
