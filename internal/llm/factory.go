package llm

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// NewProvider creates the configured provider; it returns nil, nil when
// no provider is configured
func NewProvider(config Config, log logr.Logger) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, log)
	case "ollama":
		return NewOllamaProvider(config, log)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
