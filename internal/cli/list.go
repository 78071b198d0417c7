package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/chronicle/internal/era"
	"github.com/ppiankov/chronicle/internal/explorer"
	"github.com/ppiankov/chronicle/internal/filter"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/quiz"
)

var (
	listSearch   string
	listDynasty  string
	listCause    string
	listFrom     int
	listTo       int
	listPage     int
	listPageSize int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [source]",
	Short: "List records with filters and pagination",
	Long: `List prints one page of the records that pass every given filter.

Filters combine with AND:
- --search matches name or dynasty (case-insensitive substring)
- --dynasty and --cause accept an exact value, a unique prefix or a close spelling
- --from and --to bound the birth year; negative years are BCE

Example:
  chronicle list ./emperors.csv --dynasty flavian
  chronicle list ./emperors.csv --cause assassination --page 2 --page-size 5
  chronicle list ./emperors.csv --from -50 --to 100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive substring over name and dynasty")
	listCmd.Flags().StringVar(&listDynasty, "dynasty", "", "only records of this dynasty")
	listCmd.Flags().StringVar(&listCause, "cause", "", "only records with this cause of death")
	listCmd.Flags().IntVar(&listFrom, "from", 0, "earliest birth year (negative for BCE)")
	listCmd.Flags().IntVar(&listTo, "to", 0, "latest birth year (negative for BCE)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number, starting at 1")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "records per page (default from display.page_size)")
	addSourceFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySourceFlags(cfg)

	size, err := resolvePageSize(listPageSize, cfg.Display)
	if err != nil {
		return err
	}
	if listPage < 1 {
		return fmt.Errorf("page must be 1 or greater, got %d", listPage)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	loader, err := newLoader(cfg, newLogger())
	if err != nil {
		return err
	}

	sess, err := loader.Session(ctx, locationArg(args), explorer.WithPageSize(size))
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	criteria := buildCriteria(cmd.Flags(), sess.Summary().Dynasties)
	sess.SetCriteria(criteria)

	page := sess.Page(listPage-1, size)
	writePage(cmd.OutOrStdout(), page)

	if verbose && !criteria.IsEmpty() {
		fmt.Fprintf(os.Stderr, "⚙️  %d of %d records match\n", page.Total, len(sess.Records()))
	}
	return nil
}

// buildCriteria turns the filter flags into criteria. Dynasty and cause
// values are resolved against the known values when they match one.
func buildCriteria(flags *pflag.FlagSet, dynasties []string) model.FilterCriteria {
	var c model.FilterCriteria

	if listSearch != "" {
		c = c.WithSearch(listSearch)
	}
	if flags.Changed("dynasty") {
		c = c.WithDynasty(resolveValue(listDynasty, dynasties))
	}
	if flags.Changed("cause") {
		c = c.WithCause(resolveValue(listCause, model.Causes))
	}
	if flags.Changed("from") {
		c = c.WithYearStart(listFrom)
	}
	if flags.Changed("to") {
		c = c.WithYearEnd(listTo)
	}

	return c
}

func resolveValue(input string, known []string) string {
	if v, ok := quiz.MatchText(input, known); ok {
		return v
	}
	return input
}

// resolvePageSize applies the configured default and allowed sizes
func resolvePageSize(requested int, display model.DisplayConfig) (int, error) {
	if requested <= 0 {
		return display.PageSize, nil
	}
	if len(display.PageSizes) > 0 && !slices.Contains(display.PageSizes, requested) {
		return 0, fmt.Errorf("page size %d not allowed (choose from %v)", requested, display.PageSizes)
	}
	return requested, nil
}

func writePage(out io.Writer, page filter.Page) {
	if page.Total == 0 {
		fmt.Fprintln(out, "No records match.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBIRTH\tDEATH\tCAUSE\tDYNASTY")
	for _, r := range page.Items {
		cause := r.Cause
		if cause == "" {
			cause = model.CauseUnknown
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, era.Format(r.Birth), era.Format(r.Death), cause, r.Dynasty)
	}
	_ = tw.Flush()

	if len(page.Items) == 0 {
		fmt.Fprintf(out, "\nPage %d is past the end (%d pages).\n", page.Page+1, page.Pages)
		return
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d records)\n", page.Page+1, page.Pages, page.Total)
}
