package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation             = NewError("VALIDATION_ERROR", "validation failed", http.StatusUnprocessableEntity)
	ErrInvalidUUID            = NewError("INVALID_UUID", "Invalid uuid", http.StatusUnprocessableEntity)
	ErrNotEligible            = NewError("NOT_ELIGIBLE", "Content cannot be mapped.", http.StatusUnprocessableEntity)
	ErrUnsupportedContentType = NewError("UNSUPPORTED_CONTENT_TYPE", "Unsupported type - not an image.", http.StatusUnprocessableEntity)
	ErrTransformation         = NewError("TRANSFORMATION_FAILED", "Unable to write JSON for message", http.StatusInternalServerError)
	ErrIngestion              = NewError("INGESTION_FAILED", "Unable to parse CMS content message", http.StatusBadRequest)
	ErrPublish                = NewError("PUBLISH_FAILED", "Unable to send message", http.StatusInternalServerError)
	ErrInternal               = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	ErrServiceUnavailable     = NewError("SERVICE_UNAVAILABLE", "service unavailable", http.StatusServiceUnavailable)
)

type RetryableError interface {
	error
	IsRetryable() bool
}

type FatalError interface {
	error
	IsFatal() bool
}

type Error struct {
	Code      string
	Message   string
	Status    int
	Details   map[string]interface{}
	Cause     error
	retryable *bool
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		if detailMsg, ok := e.Details["message"].(string); ok && detailMsg != "" {
			msg = detailMsg
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that errors.Is(err, ErrInvalidUUID) works for copies
// produced by WithCause/WithDetail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) IsRetryable() bool {
	if e.retryable != nil {
		return *e.retryable
	}
	if e.Cause != nil {
		var retryableErr RetryableError
		if errors.As(e.Cause, &retryableErr) {
			return retryableErr.IsRetryable()
		}
		var fatalErr FatalError
		if errors.As(e.Cause, &fatalErr) {
			return !fatalErr.IsFatal()
		}
	}
	return !e.isClientError()
}

func (e *Error) IsFatal() bool {
	if e.retryable != nil {
		return !*e.retryable
	}

	if e.Cause != nil {
		var fatalErr FatalError
		if errors.As(e.Cause, &fatalErr) {
			return fatalErr.IsFatal()
		}
	}

	return e.isClientError()
}

func (e *Error) isClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	err.Details = details
	return &err
}

func (e *Error) WithMessage(message string) *Error {
	return e.WithDetail("message", message)
}

func (e *Error) AsRetryable() *Error {
	err := *e
	retryable := true
	err.retryable = &retryable
	return &err
}

func (e *Error) AsFatal() *Error {
	err := *e
	retryable := false
	err.retryable = &retryable
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsAppError reports whether err carries one of this package's error kinds.
func IsAppError(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}

func IsInvalidUUID(err error) bool {
	return hasCode(err, ErrInvalidUUID.Code)
}

func IsUnsupportedContentType(err error) bool {
	return hasCode(err, ErrUnsupportedContentType.Code)
}

func IsNotEligible(err error) bool {
	return hasCode(err, ErrNotEligible.Code)
}

func IsTransformation(err error) bool {
	return hasCode(err, ErrTransformation.Code)
}

// IsRetryable reports whether err may succeed on redelivery. Errors that do not
// classify themselves are treated as retryable.
func IsRetryable(err error) bool {
	var fatalErr FatalError
	if errors.As(err, &fatalErr) && fatalErr.IsFatal() {
		return false
	}
	var retryableErr RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.IsRetryable()
	}
	return true
}

// IsClientError reports whether err is one of the 4xx conditions that the event
// path treats as a silent skip.
func IsClientError(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.isClientError()
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = ErrInternal.WithCause(err)
	}

	response := map[string]interface{}{
		"message":    appErr.Message,
		"error_code": appErr.Code,
	}

	if detail, ok := appErr.Details["message"].(string); ok && detail != "" {
		response["detail"] = detail
	}

	return response
}
