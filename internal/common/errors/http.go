// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPWriter normalizes errors and writes JSON error responses. Internal
// detail is logged, never returned to the client.
type HTTPWriter struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewHTTPWriter(logger Logger) *HTTPWriter {
	return &HTTPWriter{logger: logger}
}

// Write logs err with full detail and responds with the mapped status and a
// short user-facing message.
func (h *HTTPWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("request failed", map[string]interface{}{
		"method":    r.Method,
		"path":      r.URL.Path,
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
		"status":    status,
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": userMessage(stdErr),
	})
}

// userMessage picks the client-visible message. Validation messages are
// specific; everything else collapses to a generic localized message so no
// upstream detail leaks.
func userMessage(stdErr *StandardError) string {
	switch stdErr.Code {
	case ErrCodeValidationFailed:
		return stdErr.Message
	case ErrCodeUpstreamTimeout:
		return "API 요청 시간이 초과되었습니다."
	default:
		return "서버 오류가 발생했습니다."
	}
}
