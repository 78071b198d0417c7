package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ppiankov/chronicle/internal/cache"
	"github.com/ppiankov/chronicle/internal/explorer"
	"github.com/ppiankov/chronicle/internal/llm"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/report"
	"github.com/ppiankov/chronicle/internal/worker"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	htmlTable   bool
	insecureTLS bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [source]",
	Short: "Summarise a dataset",
	Long: `Stats loads a dataset and prints:
- Total number of records
- Percentage of violent deaths (assassination, execution, battle)
- Records per dynasty, largest first
- Records per cause of death

The source is a URL or file path; it defaults to source.location from
the configuration.

Example:
  chronicle stats ./emperors.csv
  chronicle stats https://example.com/emperors.csv --json report.json --md report.md
  chronicle stats ./emperors.csv --llm --llm-provider ollama --llm-model llama3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (- for stdout)")
	statsCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (- for stdout)")
	addSourceFlags(statsCmd)

	statsCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	statsCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	statsCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

// addSourceFlags registers the dataset loading flags shared by commands
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&htmlTable, "html", false, "treat the source as an HTML page containing a table")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySourceFlags(cfg)

	if llmEnabled {
		if err := applyLLMFlags(cfg); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log := newLogger()
	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}

	location := locationArg(args)
	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading: %s\n", displayLocation(location, cfg))
	}

	rep, err := loader.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d records\n", rep.Summary.Total)
	}

	renderer := report.NewRenderer(cmd.OutOrStdout())
	renderer.RenderSummary(rep)

	if rep.Narrative != nil {
		for _, w := range rep.Narrative.Warnings {
			fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
		}
	}

	if outJSON != "" {
		if err := renderer.RenderJSON(rep, outJSON); err != nil {
			return fmt.Errorf("render JSON failed: %w", err)
		}
		if outJSON != "-" {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(rep, outMD); err != nil {
			return fmt.Errorf("render Markdown failed: %w", err)
		}
		if outMD != "-" {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	return nil
}

// applySourceFlags copies explicitly set flags over the loaded config
func applySourceFlags(cfg *model.Config) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if htmlTable {
		cfg.Source.HTMLTable = true
	}
	if insecureTLS {
		cfg.Source.InsecureTLS = true
	}
}

// applyLLMFlags enables the narrative with credentials from the environment
func applyLLMFlags(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch llmProvider {
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", llmProvider)
	}

	return cfg.Validate()
}

// newLoader wires cache, rate limiter and narrator from cfg
func newLoader(cfg *model.Config, log logr.Logger) (*explorer.Loader, error) {
	narrator, err := llm.NewNarrator(llm.ConfigFromModel(cfg.LLM, cfg.Source), log.WithName("llm"))
	if err != nil {
		return nil, err
	}

	return &explorer.Loader{
		Config:   cfg.Source,
		Cache:    cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.MemoryTTL, cfg.Cache.DiskTTL),
		Limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Narrator: narrator,
		Logger:   log,
	}, nil
}

func locationArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func displayLocation(location string, cfg *model.Config) string {
	if location != "" {
		return location
	}
	return cfg.Source.Location
}
