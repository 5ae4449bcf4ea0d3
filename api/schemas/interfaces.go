// File: api/schemas/interfaces.go
// Boundary contracts consumed by the core. Implementations live in
// internal/browser (rendering engine) and internal/llmclient (completion
// service); the interfaces are defined here so components depend on the
// contract, not on each other.
package schemas

import "context"

// NavigationInfo summarizes a completed navigation.
type NavigationInfo struct {
	CurrentURL string
	// Status is the HTTP status of the main document, or 0 when the
	// rendering engine did not surface a network response.
	Status int
	Title  string
}

// ScreenshotMode selects how much of the page a screenshot captures.
const (
	ScreenshotViewport = "viewport"
	ScreenshotFullpage = "fullpage"
)

// PageSession is a live page handle bound to one session identifier.
// Failures are reported as *ToolError values carrying a taxonomy code.
type PageSession interface {
	ID() string
	Navigate(ctx context.Context, url string) (*NavigationInfo, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, mode string) ([]byte, error)
	CurrentURL(ctx context.Context) (string, error)
}

// SessionResolver owns the session-to-page mapping. Resolve returns the page
// previously bound to sessionID, or mints a fresh isolated page when the
// identifier is empty or unknown. A session identifier, once minted, maps to
// the same page handle for the process lifetime.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (string, PageSession, error)
	// Shutdown releases every page. It is idempotent and tolerates partial
	// prior releases.
	Shutdown(ctx context.Context) error
}

// GenerationOptions tunes a single completion call.
type GenerationOptions struct {
	Temperature     float64 `json:"temperature"`
	ForceJSONFormat bool    `json:"force_json_format"`
	MaxTokens       int     `json:"max_tokens"`
}

// GenerationRequest encapsulates one request to the completion service.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      GenerationOptions `json:"options"`
}

// LLMClient abstracts the natural-language completion service used for
// schema-guided extraction and pagination-selector inference.
type LLMClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Close() error
}
