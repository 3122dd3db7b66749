package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"restaurant-dashboard/internal/services"
)

type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeInvalidQuery   ErrorCode = "INVALID_QUERY"
	CodeInvalidSignals ErrorCode = "INVALID_SIGNALS"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeRateLimit      ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeNoSource       ErrorCode = "SOURCE_NOT_LOADED"
	CodeSourceInvalid  ErrorCode = "SOURCE_INVALID"
)

var statusByCode = map[ErrorCode]int{
	CodeInvalidQuery:   http.StatusBadRequest,
	CodeInvalidSignals: http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeRateLimit:      http.StatusTooManyRequests,
	CodeNoSource:       http.StatusServiceUnavailable,
	CodeSourceInvalid:  http.StatusServiceUnavailable,
}

func statusOf(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code       ErrorCode     `json:"code"`
	Message    string        `json:"message"`
	Param      string        `json:"param,omitempty"`
	Details    string        `json:"details,omitempty"`
	StatusCode int           `json:"-"`
	RetryAfter time.Duration `json:"-"`
	Cause      error         `json:"-"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusOf(code),
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

// InvalidParam reports a bad dashboard query parameter.
func InvalidParam(param string, err error) *AppError {
	appErr := Wrap(err, CodeInvalidQuery, fmt.Sprintf("invalid parameter %q", param))
	appErr.Param = param
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// InvalidSignals reports datastar signals that could not be decoded.
func InvalidSignals(err error) *AppError {
	appErr := Wrap(err, CodeInvalidSignals, "invalid dashboard signals")
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// RateLimit tells the client to retry after wait. A zero wait leaves out
// the Retry-After header.
func RateLimit(wait time.Duration) *AppError {
	appErr := New(CodeRateLimit, "too many requests")
	appErr.RetryAfter = wait
	return appErr
}

func NoSource() *AppError {
	return New(CodeNoSource, "no transaction source loaded")
}

// Source classifies a failure to load the transaction source. The loader's
// message goes to Details so operators can find the offending row or column.
func Source(err error) *AppError {
	var appErr *AppError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		appErr = Wrap(err, CodeNoSource, "transaction source not found")
	case stderrors.Is(err, context.DeadlineExceeded):
		appErr = Wrap(err, CodeNoSource, "loading the transaction source timed out")
	case stderrors.Is(err, services.ErrUnsupportedSource):
		appErr = Wrap(err, CodeSourceInvalid, "transaction source format is not supported")
	case stderrors.Is(err, services.ErrEmptySource):
		appErr = Wrap(err, CodeSourceInvalid, "transaction source has no rows")
	case stderrors.Is(err, services.ErrMissingColumn):
		appErr = Wrap(err, CodeSourceInvalid, "transaction source is missing required columns")
	case stderrors.Is(err, services.ErrMalformedDate), stderrors.Is(err, services.ErrMalformedNumber):
		appErr = Wrap(err, CodeSourceInvalid, "transaction source has malformed rows")
	default:
		appErr = Wrap(err, CodeNoSource, "transaction source could not be loaded")
	}
	appErr.Details = err.Error()
	return appErr
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, requestID string) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = Wrap(err, CodeInternal, "an unexpected error occurred")
	}

	appErr.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	if appErr.RetryAfter > 0 {
		secs := int((appErr.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	w.WriteHeader(appErr.StatusCode)

	response := ErrorResponse{
		Error:   appErr,
		Success: false,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logger.Error("failed to encode error response",
			"encode_error", encodeErr,
			"original_error", err,
			"request_id", requestID,
		)
		return
	}

	logLevel := slog.LevelError
	if appErr.StatusCode < 500 {
		logLevel = slog.LevelWarn
	}

	attrs := []any{
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"status_code", appErr.StatusCode,
		"request_id", requestID,
	}
	if appErr.Param != "" {
		attrs = append(attrs, "param", appErr.Param)
	}
	if appErr.Cause != nil {
		attrs = append(attrs, "cause", appErr.Cause)
	}
	logger.Log(context.Background(), logLevel, "request failed", attrs...)
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessWithHeaders(w, data, nil)
}

func WriteSuccessWithHeaders(w http.ResponseWriter, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(SuccessResponse{Data: data, Success: true})
}
