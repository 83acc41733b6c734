// Package orchestration runs one construction per happiness strategy
// concurrently and compares the outcomes.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/chebgo/internal/cli"
	"github.com/agbru/chebgo/internal/construct"
	apperrors "github.com/agbru/chebgo/internal/errors"
	"github.com/agbru/chebgo/internal/service"
	"github.com/agbru/chebgo/internal/ui"
	"github.com/agbru/chebgo/pkg/models"
)

// ComparisonResult is the outcome of one strategy.
type ComparisonResult struct {
	Strategy string
	Report   models.Report
	Duration time.Duration
	Err      error
}

// ProgressBufferSize is the capacity of the event channel feeding the
// progress display.
const ProgressBufferSize = 64

// pieceStride separates the piece indices of different strategies in the
// shared progress display.
const pieceStride = 1 << 16

// offsetObserver forwards events with the piece index shifted by base.
type offsetObserver struct {
	base int
	next construct.Observer
}

func (o offsetObserver) Update(e construct.Event) {
	e.Piece += o.base
	o.next.Update(e)
}

// ExecuteComparisons constructs req once per strategy, concurrently. When
// progress is non-nil a spinner on it reports the combined progress. A
// failing strategy does not stop the others; its error is kept in the
// result.
func ExecuteComparisons(ctx context.Context, svc service.Service, req service.Request, strategies []string, progress io.Writer) []ComparisonResult {
	results := make([]ComparisonResult, len(strategies))

	var events chan construct.Event
	var displayWg sync.WaitGroup
	var sink *construct.ChannelObserver
	if progress != nil {
		events = make(chan construct.Event, ProgressBufferSize)
		sink = construct.NewChannelObserver(events)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, events, req.Preferences.MaxLength, progress)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range strategies {
		g.Go(func() error {
			r := req
			r.Preferences.HappinessCheck = name
			r.Preferences.Checker = nil
			if sink != nil {
				r.Subject = construct.NewSubject(offsetObserver{base: i * pieceStride, next: sink})
			}
			start := time.Now()
			report, err := svc.Construct(gctx, r)
			results[i] = ComparisonResult{Strategy: name, Report: report, Duration: time.Since(start), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if sink != nil {
		sink.Close()
		displayWg.Wait()
	}
	return results
}

// integralTolerance is the relative disagreement between the integrals of
// resolved results that counts as a mismatch.
const integralTolerance = 1e-8

// AnalyzeComparisonResults prints a table of the results, sorted with
// successes first and then by duration, followed by the report of the
// shortest resolved representation. It returns the exit code: the error
// code of the first failure when nothing succeeded, ExitErrorMismatch when
// resolved results disagree, ExitErrorUnresolved when failUnresolved is set
// and no strategy resolved, and ExitSuccess otherwise.
func AnalyzeComparisonResults(results []ComparisonResult, failUnresolved bool, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Strategy\tDuration\tLength\tEpslevel\tStatus\n")

	var firstErr error
	var best *models.Report
	var bestDuration time.Duration
	successes := 0
	for i, res := range results {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
			}
			fmt.Fprintf(tw, "%s%s%s\t-\t-\t-\t%s❌ Failure (%v)%s\n", t.Primary, res.Strategy, t.Reset, t.Error, res.Err, t.Reset)
			continue
		}
		successes++
		label, color := t.Verdict(res.Report.Resolved)
		fmt.Fprintf(tw, "%s%s%s\t%s\t%d\t%.2e\t%s%s%s\n",
			t.Primary, res.Strategy, t.Reset,
			cli.FormatExecutionDuration(res.Duration),
			res.Report.Length, res.Report.Epslevel,
			color, label, t.Reset)
		if res.Report.Resolved && (best == nil || res.Report.Length < best.Length) {
			best = &results[i].Report
			bestDuration = res.Duration
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successes == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed the construction.\n")
		return apperrors.HandleConstructionError(firstErr, 0, out, ui.Colors{})
	}
	if best == nil {
		fmt.Fprintf(out, "\nGlobal Status: No strategy resolved the function.\n")
		if failUnresolved {
			return apperrors.ExitErrorUnresolved
		}
		return apperrors.ExitSuccess
	}
	if !consistent(results) {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Resolved representations disagree on the integral.\n")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All resolved representations agree. Shortest: %s.\n\n", best.Strategy)
	cli.DisplayReport(*best, bestDuration, false, out)
	return apperrors.ExitSuccess
}

// consistent reports whether the integrals of the resolved results agree
// to integralTolerance relative to the vertical and horizontal scales.
func consistent(results []ComparisonResult) bool {
	var ref []float64
	for _, res := range results {
		if res.Err != nil || !res.Report.Resolved {
			continue
		}
		if ref == nil {
			ref = res.Report.Integral
			continue
		}
		scale := math.Max(1, res.Report.Vscale*res.Report.Hscale)
		for c, v := range res.Report.Integral {
			if math.Abs(v-ref[c]) > integralTolerance*scale {
				return false
			}
		}
	}
	return true
}
