// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler turns step errors into JSON responses with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Response is the error envelope returned to the wizard client.
type Response struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
}

// HandleRequestError normalizes err, logs it and writes the error envelope.
func (h *ErrorHandler) HandleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ToResponse(stdErr))
}

// ToResponse builds the client-facing envelope. Transport details stay in the logs.
func ToResponse(stdErr *StandardError) Response {
	resp := Response{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
	}
	if GetErrorCategory(stdErr.Code) == CategoryTransport || stdErr.Code == ErrCodeInternal {
		resp.Details = ""
	}
	return resp
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	// Remote outages log at warn.
	if status >= http.StatusInternalServerError && GetErrorCategory(stdErr.Code) != CategoryTransport {
		h.logger.Error("Request failed", fields)
		return
	}
	h.logger.Warn("Request rejected", fields)
}
