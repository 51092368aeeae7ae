package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kiranshivaraju/cancerscan/internal/api/response"
	"github.com/kiranshivaraju/cancerscan/internal/inference"
	"github.com/kiranshivaraju/cancerscan/internal/metrics"
	"github.com/kiranshivaraju/cancerscan/internal/preprocess"
	"github.com/kiranshivaraju/cancerscan/internal/recorder"
	"github.com/kiranshivaraju/cancerscan/internal/upload"
	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

// Client-facing messages. Clients match on these strings.
const (
	MsgPredictSuccess = "Model is predicted successfully"
	MsgNoFile         = "No file uploaded"
	MsgPredictFailed  = "Terjadi kesalahan dalam melakukan prediksi"
)

// Preprocessor converts image bytes into model input.
type Preprocessor interface {
	Process(data []byte) (*preprocess.Tensor, error)
}

// Classifier scores model input.
type Classifier interface {
	Classify(ctx context.Context, input *preprocess.Tensor) (inference.Decision, error)
}

// Recorder persists a decision.
type Recorder interface {
	Record(ctx context.Context, positive bool) (*models.Prediction, error)
}

// NewPredictHandler returns an http.HandlerFunc for POST /predict.
func NewPredictHandler(gate *upload.Gate, pre Preprocessor, cls Classifier, rec Recorder) http.HandlerFunc {
	tooLarge := fmt.Sprintf("Payload content length greater than maximum allowed: %d", gate.MaxBytes())

	return func(w http.ResponseWriter, r *http.Request) {
		file, err := gate.Read(w, r)
		if err != nil {
			metrics.RecordFailure(metrics.StageUpload)
			switch {
			case errors.Is(err, upload.ErrTooLarge):
				response.Fail(w, http.StatusRequestEntityTooLarge, tooLarge)
			case errors.Is(err, upload.ErrNoFile):
				response.Fail(w, http.StatusBadRequest, MsgNoFile)
			default:
				slog.Debug("upload rejected", "error", err)
				response.Fail(w, http.StatusBadRequest, MsgPredictFailed)
			}
			return
		}

		input, err := pre.Process(file.Data)
		if err != nil {
			metrics.RecordFailure(metrics.StagePreprocess)
			slog.Info("image decode failed", "file", file.Name, "content_type", file.ContentType, "error", err)
			response.Fail(w, http.StatusBadRequest, MsgPredictFailed)
			return
		}

		start := time.Now()
		decision, err := cls.Classify(r.Context(), input)
		metrics.ObserveInference(time.Since(start))
		if err != nil {
			metrics.RecordFailure(metrics.StageInference)
			if errors.Is(err, inference.ErrModelNotReady) {
				response.Fail(w, http.StatusServiceUnavailable, MsgPredictFailed)
				return
			}
			slog.Error("inference failed", "error", err)
			response.Fail(w, http.StatusInternalServerError, MsgPredictFailed)
			return
		}

		prediction, err := rec.Record(r.Context(), decision.Positive)
		if err != nil {
			metrics.RecordFailure(metrics.StagePersist)
			slog.Error("record prediction failed", "error", err)
			response.Fail(w, http.StatusInternalServerError, MsgPredictFailed)
			return
		}

		slog.Info("prediction recorded",
			"id", prediction.ID,
			"result", prediction.Result,
			"score", decision.Score,
		)
		response.Created(w, MsgPredictSuccess, prediction)
	}
}

var _ Recorder = (*recorder.Recorder)(nil)
var _ Classifier = (*inference.Predictor)(nil)
var _ Preprocessor = (*preprocess.Preprocessor)(nil)
