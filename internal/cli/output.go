package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agbru/chebgo/internal/ui"
	"github.com/agbru/chebgo/pkg/models"
)

// OutputConfig selects how a report is printed.
type OutputConfig struct {
	// OutputFile, when set, also receives the report.
	OutputFile string
	// Quiet prints a single line.
	Quiet bool
	// JSON prints the report as indented JSON.
	JSON bool
	// Coefficients prints the leading coefficients of every piece.
	Coefficients bool
}

// DisplayReport prints a human readable summary of r.
func DisplayReport(r models.Report, duration time.Duration, coefficients bool, out io.Writer) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s--- %s ---%s\n", t.Bold, r.Function, t.Reset)
	if r.Description != "" {
		fmt.Fprintf(out, "Function        : %s\n", r.Description)
	}
	fmt.Fprintf(out, "Status          : %s (%s, %s check)\n", verdictLabel(r.Resolved), r.Tech, r.Strategy)
	fmt.Fprintf(out, "Domain          : %s\n", formatFloats(r.Domain))
	fmt.Fprintf(out, "Length          : %s%d%s in %d piece(s), %d samples\n", t.Secondary, r.Length, t.Reset, len(r.Pieces), r.Samples)
	fmt.Fprintf(out, "Epslevel        : %.3e\n", r.Epslevel)
	fmt.Fprintf(out, "Vscale / Hscale : %.6g / %.6g\n", r.Vscale, r.Hscale)
	if duration > 0 {
		fmt.Fprintf(out, "Time            : %s%s%s\n", t.Success, FormatExecutionDuration(duration), t.Reset)
	}

	for c := range r.Columns {
		prefix := ""
		if r.Columns > 1 {
			prefix = fmt.Sprintf("[%d] ", c)
			fmt.Fprintf(out, "\n%sColumn %d%s\n", t.Bold, c, t.Reset)
		}
		fmt.Fprintf(out, "%sIntegral      : %.15g\n", prefix, r.Integral[c])
		fmt.Fprintf(out, "%sMaximum       : %.15g at x = %.15g\n", prefix, r.Max[c].Value, r.Max[c].X)
		fmt.Fprintf(out, "%sMinimum       : %.15g at x = %.15g\n", prefix, r.Min[c].Value, r.Min[c].X)
		fmt.Fprintf(out, "%sRoots (%d)     : %s\n", prefix, len(r.Roots[c]), truncateFloats(r.Roots[c], 8))
	}

	if len(r.Evaluations) > 0 {
		fmt.Fprintf(out, "\n%sEvaluations%s\n", t.Bold, t.Reset)
		for _, e := range r.Evaluations {
			fmt.Fprintf(out, "  f(%s%g%s) = %s\n", t.Info, e.X, t.Reset, formatFloats(e.Values))
		}
	}

	if coefficients {
		fmt.Fprintf(out, "\n%sLeading coefficients%s\n", t.Bold, t.Reset)
		for i, p := range r.Pieces {
			fmt.Fprintf(out, "  piece %d [%g, %g], length %d, epslevel %.2e\n", i, p.Lo, p.Hi, p.Length, p.Epslevel)
			for c, col := range p.Coefficients {
				fmt.Fprintf(out, "    col %d: %s\n", c, formatFloats(col))
				if p.Imag != nil {
					fmt.Fprintf(out, "    imag : %s\n", formatFloats(p.Imag[c]))
				}
			}
		}
	}
}

// FormatQuietResult returns the one-line summary printed in quiet mode.
func FormatQuietResult(r models.Report) string {
	status := "resolved"
	if !r.Resolved {
		status = "unresolved"
	}
	return fmt.Sprintf("%s %s length=%d pieces=%d epslevel=%.3e", r.Function, status, r.Length, len(r.Pieces), r.Epslevel)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(out io.Writer, r any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteReportToFile writes r as JSON to path, creating parent directories.
func WriteReportToFile(r models.Report, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// DisplayReportWithConfig prints r in the selected mode and saves it when
// an output file is configured.
func DisplayReportWithConfig(out io.Writer, r models.Report, duration time.Duration, config OutputConfig) error {
	switch {
	case config.JSON:
		if err := WriteJSON(out, r); err != nil {
			return err
		}
	case config.Quiet:
		fmt.Fprintln(out, FormatQuietResult(r))
	default:
		DisplayReport(r, duration, config.Coefficients, out)
	}

	if config.OutputFile != "" {
		if err := WriteReportToFile(r, config.OutputFile); err != nil {
			return err
		}
		if !config.Quiet && !config.JSON {
			t := ui.GetCurrentTheme()
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n", t.Success, t.Secondary, config.OutputFile, t.Reset)
		}
	}
	return nil
}

// DisplayFunctions prints the catalog as a table.
func DisplayFunctions(fns []models.FunctionInfo, out io.Writer) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s%-10s %-10s %-12s %s%s\n", t.Bold, "NAME", "TECH", "DOMAIN", "DESCRIPTION", t.Reset)
	for _, f := range fns {
		desc := f.Description
		if f.Splitting {
			desc += " (splitting)"
		}
		fmt.Fprintf(out, "%s%-10s%s %-10s %-12s %s\n", t.Primary, f.Name, t.Reset, f.Tech, formatFloats(f.Domain), desc)
	}
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.10g", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// truncateFloats formats at most n values followed by an ellipsis.
func truncateFloats(v []float64, n int) string {
	if len(v) <= n {
		return formatFloats(v)
	}
	s := formatFloats(v[:n])
	return s[:len(s)-1] + ", ...]"
}
