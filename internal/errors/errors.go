package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// UserMessage returns the message of the innermost AppError, which is the one
// written for people rather than for logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var msg string
	for cur := err; cur != nil; cur = stderrors.Unwrap(cur) {
		if appErr, ok := cur.(*AppError); ok {
			msg = appErr.Message
		}
	}
	if msg == "" {
		return err.Error()
	}
	return msg
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeMissingUpload     = "MISSING_UPLOAD"
	CodeHeaderNotDetected = "HEADER_NOT_DETECTED"
	CodeParseFailed       = "PARSE_FAILED"
	CodeArtifactWrite     = "ARTIFACT_WRITE_FAILED"
)

// HTTPStatus maps an error code onto a response status
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeMissingUpload, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeHeaderNotDetected:
		return http.StatusConflict
	case CodeParseFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// MissingUpload reports an empty or absent file field
func MissingUpload(cause error) *AppError {
	return &AppError{Code: CodeMissingUpload, Message: "Please upload a file.", Cause: cause}
}

// HeaderNotDetected asks the user to confirm the first row as header
func HeaderNotDetected(message string, cause error) *AppError {
	return &AppError{Code: CodeHeaderNotDetected, Message: message, Cause: cause}
}

// ParseFailed reports a corrupt or unsupported input file
func ParseFailed(message string, cause error) *AppError {
	return &AppError{Code: CodeParseFailed, Message: message, Cause: cause}
}

// ArtifactWriteFailed reports an I/O failure while persisting derived files
func ArtifactWriteFailed(message string, cause error) *AppError {
	return &AppError{Code: CodeArtifactWrite, Message: message, Cause: cause}
}

// NotFoundWithCause reports a missing resource, keeping the domain sentinel in the chain
func NotFoundWithCause(resource string, cause error) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Cause: cause}
}
