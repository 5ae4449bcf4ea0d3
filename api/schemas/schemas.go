// File: api/schemas/schemas.go
// Shared wire types for the stdio tool protocol. One JSON object per line in
// both directions; a request always produces exactly one response.
package schemas

import "encoding/json"

// Request is one incoming protocol message decoded from a single line.
// ID may be a string, a number, or null and is echoed back verbatim.
type Request struct {
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the outgoing message. Exactly one of Result / Error is set.
type Response struct {
	ID     interface{}   `json:"id"`
	Result interface{}   `json:"result,omitempty"`
	Error  *ErrorPayload `json:"error,omitempty"`
}

// ToolCallParams is the payload carried by a tools/call request.
type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ServerInfo is the static identity returned by initialize.
type ServerInfo struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Protocol string   `json:"protocol"`
	Tools    []string `json:"tools"`
}

// ToolDescriptor is the metadata surfaced via tools/list, in registration
// order so callers observe a stable catalogue across runs.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ResultMeta carries per-call timing information.
type ResultMeta struct {
	Timestamp  string `json:"ts"`
	DurationMS int64  `json:"duration_ms"`
}

// ToolResult is the uniform envelope wrapping every tool invocation.
// Exactly one of Data / Error is present, selected by OK.
type ToolResult struct {
	OK        bool                   `json:"ok"`
	Tool      string                 `json:"tool"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *ErrorPayload          `json:"error,omitempty"`
	Meta      ResultMeta             `json:"meta"`
}
