package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/chronicle/internal/model"
)

// Provider generates a short narrative about dataset statistics
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate describes the report in prose using only its numbers
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for narrative generation
type NarrateRequest struct {
	Report model.Report

	// Prompt overrides the default prompt built from Report
	Prompt string

	Model     string
	MaxTokens int
}

// NarrateResponse contains the provider output
type NarrateResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", or "" for disabled
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 500,
	}
}

const systemPrompt = "You describe statistics about a dataset of historical figures. You never add facts or numbers that are not given to you."

// BuildPrompt constructs the default prompt. Every number the model may
// quote appears in it; Narrator rejects narratives citing any other number.
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Write a 3-4 sentence overview of the dataset below.

RULES:
1. Use ONLY the numbers listed here. Do not compute new ones.
2. Do not mention people, events or dates that are not listed.
3. Write out no years.

Dataset: %s
- Records: %d
- Violent deaths: %d%%
- Distinct dynasties: %d

Largest dynasties:
`, report.Source, report.Summary.Total, report.Summary.ViolentPercent, len(report.Summary.Dynasties))

	for i, d := range report.Summary.DynastyStats {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s: %d\n", d.Name, d.Count)
	}

	b.WriteString("\nCauses of death:\n")
	for _, c := range report.Causes {
		if c.Count > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", c.Cause, c.Count)
		}
	}

	return b.String()
}

// ConfigFromModel builds the provider config from the llm and source sections
func ConfigFromModel(cfg model.LLMConfig, src model.SourceConfig) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxTokens:  cfg.MaxTokens,
		HTTPProxy:  src.HTTPProxy,
		HTTPSProxy: src.HTTPSProxy,
		NoProxy:    src.NoProxy,
	}
}

func resolveModel(reqModel, cfgModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	if cfgModel != "" {
		return cfgModel
	}
	return fallback
}

func resolveMaxTokens(reqTokens, cfgTokens int) int {
	if reqTokens > 0 {
		return reqTokens
	}
	if cfgTokens > 0 {
		return cfgTokens
	}
	return 500
}
