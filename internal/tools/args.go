// File: internal/tools/args.go
package tools

import (
	"fmt"

	"github.com/sgrimault/webharvest/api/schemas"
)

// Argument decoding helpers shared by the capability runners. Validation
// failures surface as INTERNAL_ERROR with the offending field named, so the
// caller sees a clean uniform error rather than a type assertion panic.

func invalidArgs(detail string) *schemas.ToolError {
	return &schemas.ToolError{
		Code:    schemas.CodeInternalError,
		Message: "Invalid arguments supplied to tool.",
		Details: map[string]interface{}{"validation_error": detail},
	}
}

// sessionIDArg extracts the optional session identifier.
func sessionIDArg(args map[string]interface{}) (string, error) {
	raw, ok := args["session_id"]
	if !ok || raw == nil {
		return "", nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", invalidArgs("session_id must be a string")
	}
	return id, nil
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", invalidArgs(fmt.Sprintf("missing required field %q", key))
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", invalidArgs(fmt.Sprintf("field %q must be a non-empty string", key))
	}
	return value, nil
}

func optionalString(args map[string]interface{}, key, fallback string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", invalidArgs(fmt.Sprintf("field %q must be a string", key))
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// Minimal JSON-schema shaped declarations for the tool catalogue.

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	props := map[string]interface{}{
		"session_id": stringProperty("Existing session identifier. Leave empty to start a new session."),
	}
	for name, prop := range properties {
		props[name] = prop
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}
