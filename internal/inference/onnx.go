package inference

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/cancerscan/internal/preprocess"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig describes how to bind the classifier graph.
type ONNXConfig struct {
	InputName  string
	OutputName string
	OutputSize int
}

// ArtifactSource fetches serialized model bytes.
type ArtifactSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// InitRuntime loads the onnxruntime shared library and initializes the
// environment. It must be called before any ONNXModel is created.
func InitRuntime(libraryPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	return nil
}

// DestroyRuntime tears down the onnxruntime environment.
func DestroyRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// ONNXModel runs a binary classifier through onnxruntime. Tensors are
// allocated per call, so one session serves concurrent requests.
type ONNXModel struct {
	session     *ort.DynamicAdvancedSession
	outputShape ort.Shape
}

// NewONNXModel parses model bytes into a session.
func NewONNXModel(data []byte, cfg ONNXConfig) (*ONNXModel, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty model artifact")
	}
	if cfg.OutputSize <= 0 {
		cfg.OutputSize = 1
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(data,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXModel{
		session:     session,
		outputShape: ort.NewShape(1, int64(cfg.OutputSize)),
	}, nil
}

func (m *ONNXModel) Predict(ctx context.Context, input *preprocess.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](m.outputShape)
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.ArbitraryTensor{in}, []ort.ArbitraryTensor{out}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	data := out.GetData()
	scores := make([]float32, len(data))
	copy(scores, data)
	return scores, nil
}

func (m *ONNXModel) Close() error {
	if m.session == nil {
		return nil
	}
	return m.session.Destroy()
}

// ONNXLoader returns a ModelLoader that fetches the artifact from src and
// builds an ONNXModel from it.
func ONNXLoader(src ArtifactSource, cfg ONNXConfig) ModelLoader {
	return func(ctx context.Context) (Model, error) {
		data, err := src.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch model artifact: %w", err)
		}
		m, err := NewONNXModel(data, cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

var _ Model = (*ONNXModel)(nil)
