// Package report turns a loaded record set into a rendered summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/stats"
)

// Build aggregates records into a report for the named source
func Build(name string, records []model.Record, now time.Time) *model.Report {
	return &model.Report{
		Source:      name,
		GeneratedAt: now.UTC(),
		Summary:     stats.Aggregate(records),
		Causes:      stats.CauseCounts(records),
	}
}

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing terminal output to out
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the report as indented JSON to path, or to the
// renderer's output when path is "-"
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return r.write(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown to path, or to the
// renderer's output when path is "-"
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return r.write(path, []byte(Markdown(report)))
}

// RenderSummary prints a compact table of the statistics
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Summary

	fmt.Fprintf(r.out, "\n%s\n", report.Source)
	fmt.Fprintf(r.out, "  Records:        %d\n", s.Total)
	fmt.Fprintf(r.out, "  Violent deaths: %d%%\n", s.ViolentPercent)
	fmt.Fprintf(r.out, "  Dynasties:      %d\n\n", len(s.Dynasties))

	if len(s.DynastyStats) > 0 {
		tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  DYNASTY\tCOUNT")
		for _, d := range s.DynastyStats {
			fmt.Fprintf(tw, "  %s\t%d\n", d.Name, d.Count)
		}
		_ = tw.Flush()
		fmt.Fprintln(r.out)
	}

	if report.Narrative != nil && report.Narrative.Text != "" {
		fmt.Fprintf(r.out, "%s\n\n", report.Narrative.Text)
	}
}

func (r *Renderer) write(path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := r.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the report as a Markdown document
func Markdown(report *model.Report) string {
	var b strings.Builder
	s := report.Summary

	fmt.Fprintf(&b, "# Dataset Report: %s\n\n", report.Source)
	fmt.Fprintf(&b, "_Generated %s_\n\n", report.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Records | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Violent deaths | %d%% |\n", s.ViolentPercent)
	fmt.Fprintf(&b, "| Dynasties | %d |\n\n", len(s.Dynasties))

	if len(s.DynastyStats) > 0 {
		b.WriteString("## Records per Dynasty\n\n| Dynasty | Count |\n|---|---|\n")
		for _, d := range s.DynastyStats {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(d.Name), d.Count)
		}
		b.WriteString("\n")
	}

	if len(report.Causes) > 0 {
		b.WriteString("## Causes of Death\n\n| Cause | Count |\n|---|---|\n")
		for _, c := range report.Causes {
			fmt.Fprintf(&b, "| %s | %d |\n", c.Cause, c.Count)
		}
		b.WriteString("\n")
	}

	if n := report.Narrative; n != nil && n.Text != "" {
		b.WriteString("## Narrative\n\n")
		fmt.Fprintf(&b, "> Generated by %s. Numbers above are computed independently.\n\n", n.Provider)
		b.WriteString(n.Text)
		b.WriteString("\n")
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
