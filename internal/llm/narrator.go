// Package llm produces an optional prose narrative of dataset statistics.
// The narrative never changes the computed numbers; a narrative that quotes
// a number absent from the report is discarded.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/ppiankov/chronicle/internal/model"
)

// Narrator wraps a Provider with graceful degradation
type Narrator struct {
	provider Provider
	config   Config
	log      logr.Logger
}

// NewNarrator creates a narrator for config; a disabled config yields a
// narrator whose Generate returns nil
func NewNarrator(config Config, log logr.Logger) (*Narrator, error) {
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	provider, err := NewProvider(config, log)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return &Narrator{provider: provider, config: config, log: log}, nil
}

// IsEnabled reports whether a provider is configured
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// ProviderName returns the configured provider's name, or ""
func (n *Narrator) ProviderName() string {
	if !n.IsEnabled() {
		return ""
	}
	return n.provider.Name()
}

// Generate returns a narrative for report. Provider failures are reported as
// warnings on the narrative rather than as errors.
func (n *Narrator) Generate(ctx context.Context, report model.Report) (*model.Narrative, error) {
	if !n.IsEnabled() {
		return nil, nil
	}

	narrative := &model.Narrative{
		Enabled:  true,
		Provider: n.provider.Name(),
		Model:    n.config.Model,
	}

	if !n.provider.IsAvailable(ctx) {
		narrative.Enabled = false
		narrative.Warnings = append(narrative.Warnings,
			fmt.Sprintf("LLM provider %s is not available", n.provider.Name()))
		return narrative, nil
	}

	prompt := BuildPrompt(report)
	resp, err := n.provider.Narrate(ctx, NarrateRequest{
		Report:    report,
		Prompt:    prompt,
		Model:     n.config.Model,
		MaxTokens: n.config.MaxTokens,
	})
	if err != nil {
		n.log.Error(err, "narrative generation failed", "provider", n.provider.Name())
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Narrative generation failed: %v", err))
		return narrative, nil
	}

	if resp.Model != "" {
		narrative.Model = resp.Model
	}

	if unknown := UnsupportedNumbers(resp.Text, prompt); len(unknown) > 0 {
		narrative.Warnings = append(narrative.Warnings,
			fmt.Sprintf("Narrative rejected: it quotes numbers not in the report: %s", strings.Join(unknown, ", ")))
		return narrative, nil
	}

	narrative.Text = resp.Text
	if resp.TokensUsed > 0 {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}
	return narrative, nil
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// UnsupportedNumbers returns the numbers in text that never occur in source,
// sorted and deduplicated
func UnsupportedNumbers(text, source string) []string {
	allowed := make(map[string]bool)
	for _, num := range numberPattern.FindAllString(source, -1) {
		allowed[normalizeNumber(num)] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, num := range numberPattern.FindAllString(text, -1) {
		norm := normalizeNumber(num)
		if !allowed[norm] && !seen[norm] {
			seen[norm] = true
			out = append(out, norm)
		}
	}

	sort.Strings(out)
	return out
}

// normalizeNumber drops thousands separators and trailing sentence punctuation
func normalizeNumber(num string) string {
	num = strings.TrimRight(num, ".,")
	if strings.Count(num, ",") > 0 && !strings.Contains(num, ".") {
		num = strings.ReplaceAll(num, ",", "")
	}
	return num
}

// RenderMarkdown renders a narrative as a standalone Markdown document
func RenderMarkdown(n *model.Narrative) string {
	if n == nil || !n.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Dataset Narrative\n\n")
	b.WriteString("> **GENERATED CONTENT**: written by a language model from the statistics below.\n")
	b.WriteString("> All numbers in the report are computed independently of this text.\n\n")

	fmt.Fprintf(&b, "- **Provider**: %s\n", n.Provider)
	if n.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", n.Model)
	}
	b.WriteString("\n")

	if n.Text == "" {
		b.WriteString("_No narrative generated._\n")
	} else {
		b.WriteString(n.Text)
		b.WriteString("\n")
	}

	if len(n.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range n.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
