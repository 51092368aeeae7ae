package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kiranshivaraju/cancerscan/internal/api/response"
	"github.com/kiranshivaraju/cancerscan/internal/metrics"
	"github.com/kiranshivaraju/cancerscan/pkg/models"
)

// HistoryReader lists persisted predictions.
type HistoryReader interface {
	ListPredictions(ctx context.Context) ([]*models.Prediction, error)
}

// NewHistoriesHandler returns an http.HandlerFunc for GET /predict/histories.
// A zero timeout leaves the request context unbounded.
func NewHistoriesHandler(reader HistoryReader, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		predictions, err := reader.ListPredictions(ctx)
		if err != nil {
			metrics.RecordFailure(metrics.StageHistory)
			slog.Error("list predictions failed", "error", err)
			response.Fail(w, http.StatusInternalServerError, MsgPredictFailed)
			return
		}
		if predictions == nil {
			predictions = []*models.Prediction{}
		}

		response.JSON(w, predictions)
	}
}
