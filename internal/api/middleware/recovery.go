package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/cancerscan/internal/api/response"
)

// PanicMessage is the client-facing message for recovered panics.
const PanicMessage = "Terjadi kesalahan dalam melakukan prediksi"

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := GetRequestID(r)
				slog.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID,
				)
				response.Fail(w, http.StatusInternalServerError, PanicMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
