// Package errors provides standardized error handling for the document
// generation service.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrCodeTemplateNotFound    ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeDocumentNotFound    ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeRendererUnavailable ErrorCode = "RENDERER_UNAVAILABLE"
	ErrCodeRenderFailed        ErrorCode = "RENDER_ERROR"

	ErrCodePayloadValidationFailed ErrorCode = "PAYLOAD_VALIDATION_FAILED"
	ErrCodeSampleInvalid           ErrorCode = "SAMPLE_INVALID"

	ErrCodeAuthNotConfigured ErrorCode = "AUTH_NOT_CONFIGURED"
	ErrCodeTokenMissing      ErrorCode = "TOKEN_MISSING"
	ErrCodeTokenInvalid      ErrorCode = "TOKEN_INVALID"

	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"

	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a client-fixable bad request error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates an error for an unknown template name.
func NewTemplateNotFoundError(templateName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   fmt.Sprintf("Template %q not found", templateName),
		Details:   fmt.Sprintf("templateName: %s", templateName),
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates an error for an unknown document id.
func NewDocumentNotFoundError(documentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found",
		Details:   fmt.Sprintf("documentId: %s", documentID),
		Timestamp: time.Now().UTC(),
	}
}

// NewRendererUnavailableError marks an environment or configuration problem
// in the headless renderer. Operator-fixable, not a client error.
func NewRendererUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRendererUnavailable,
		Message:   "Headless renderer unavailable",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderError wraps a template merge or PDF conversion failure for
// otherwise well-formed input, carrying the original cause.
func NewRenderError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Document rendering failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadValidationFailedError creates an error for a payload that does
// not match the template's declared schema.
func NewPayloadValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadValidationFailed,
		Message:   "Payload does not match template schema",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthNotConfiguredError signals a missing server-side API token.
func NewAuthNotConfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthNotConfigured,
		Message:   "Server configuration error",
		Details:   "auth.token is not configured",
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenMissingError signals a request without an authentication token.
func NewTokenMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeTokenMissing,
		Message:   "Authentication token required in config.token",
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenInvalidError signals a request with a wrong token.
func NewTokenInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeTokenInvalid,
		Message:   "Invalid authentication token",
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates an error for an unknown session id.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Template session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionSaveFailedError wraps a database error during session persistence.
func NewSessionSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionSaveFailed,
		Message:   "Failed to save template session",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError wraps a document store write error.
func NewStoreWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Failed to persist document",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping & Helpers
// ==========================

// HTTPStatus maps an error code to the status the transport layer reports.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeTokenMissing:
		return http.StatusUnauthorized
	case ErrCodeTokenInvalid:
		return http.StatusForbidden
	case ErrCodeTemplateNotFound, ErrCodeDocumentNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodePayloadValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AsStandard normalizes any error to a StandardError. Unknown errors become
// INTERNAL_ERROR so that callers always see a stable {code, message} pair.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}
