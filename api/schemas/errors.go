// File: api/schemas/errors.go
package schemas

import "errors"

// ErrorCode is a stable, client-visible error classification. Every tool
// failure is mapped to exactly one code before it crosses the execution
// service boundary.
type ErrorCode string

const (
	CodeInvalidURL          ErrorCode = "INVALID_URL"
	CodeNavigationTimeout   ErrorCode = "NAVIGATION_TIMEOUT"
	CodeNetworkError        ErrorCode = "NETWORK_ERROR"
	CodeElementNotFound     ErrorCode = "ELEMENT_NOT_FOUND"
	CodeElementNotVisible   ErrorCode = "ELEMENT_NOT_VISIBLE"
	CodeElementNotEditable  ErrorCode = "ELEMENT_NOT_EDITABLE"
	CodeElementNotClickable ErrorCode = "ELEMENT_NOT_CLICKABLE"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// ToolError is the domain failure returned by tool implementations. It
// travels as a value, never as a panic; the execution service turns it into
// the uniform error payload of the result envelope.
type ToolError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
}

func (e *ToolError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewToolError constructs a ToolError without details.
func NewToolError(code ErrorCode, message string) *ToolError {
	return &ToolError{Code: code, Message: message}
}

// ErrorPayload is the serializable form of a failure carried by result
// envelopes and dispatcher error responses.
type ErrorPayload struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Payload converts the error into its wire representation.
func (e *ToolError) Payload() *ErrorPayload {
	return &ErrorPayload{Code: e.Code, Message: e.Message, Details: e.Details}
}

// ToErrorPayload converts any error into a uniform payload. Recognized
// domain errors keep their code; everything else collapses to
// INTERNAL_ERROR with the original message preserved for diagnostics.
func ToErrorPayload(err error) *ErrorPayload {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Payload()
	}
	message := "Internal error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &ErrorPayload{Code: CodeInternalError, Message: message}
}
