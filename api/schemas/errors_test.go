package schemas

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolError_Error(t *testing.T) {
	err := NewToolError(CodeElementNotFound, "No element matches selector '#x'")
	assert.Equal(t, "ELEMENT_NOT_FOUND: No element matches selector '#x'", err.Error())
}

func TestToErrorPayload_KeepsToolErrorCode(t *testing.T) {
	toolErr := &ToolError{
		Code:    CodeNavigationTimeout,
		Message: "Navigation timed out",
		Details: map[string]interface{}{"url": "https://example.com"},
	}

	payload := ToErrorPayload(toolErr)

	assert.Equal(t, CodeNavigationTimeout, payload.Code)
	assert.Equal(t, "Navigation timed out", payload.Message)
	assert.Equal(t, toolErr.Details, payload.Details)
}

func TestToErrorPayload_UnwrapsWrappedToolError(t *testing.T) {
	wrapped := fmt.Errorf("during pagination: %w",
		NewToolError(CodeElementNotClickable, "Element is not clickable"))

	payload := ToErrorPayload(wrapped)

	assert.Equal(t, CodeElementNotClickable, payload.Code)
	assert.Equal(t, "Element is not clickable", payload.Message)
}

func TestToErrorPayload_GenericErrorBecomesInternal(t *testing.T) {
	payload := ToErrorPayload(errors.New("something odd happened"))

	require.NotNil(t, payload)
	assert.Equal(t, CodeInternalError, payload.Code)
	assert.NotEmpty(t, payload.Message)
}
