// File: internal/llmclient/factory.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/config"
)

// ProviderGemini is currently the only supported completion provider.
const ProviderGemini = "gemini"

// NewClient is a factory function that creates an LLMClient based on the
// configured provider.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s]", cfg.Provider, ProviderGemini)
	}
}
