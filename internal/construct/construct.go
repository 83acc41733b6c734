// Package construct implements the adaptive construction loop: it samples
// an operator on canonical grids of increasing size, transforms the samples
// to coefficients and asks the happiness orchestrator whether the result is
// resolved.
package construct

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/chebgo/internal/core"
	"github.com/agbru/chebgo/internal/happiness"
	"github.com/agbru/chebgo/internal/tech"
	"github.com/agbru/chebgo/internal/transform"
)

var (
	constructionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chebgo_constructions_total",
			Help: "The total number of adaptive constructions, by basis and outcome",
		},
		[]string{"tech", "status"},
	)
	constructionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chebgo_construction_duration_seconds",
			Help: "The duration of adaptive constructions in seconds",
		},
		[]string{"tech"},
	)
	constructionLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chebgo_construction_length",
			Help:    "The number of coefficients of constructed representations",
			Buckets: prometheus.ExponentialBuckets(1, 2, 17),
		},
		[]string{"tech"},
	)
)

// State is a state of the adaptive loop.
type State int

const (
	Sampling State = iota
	Transforming
	CheckingHappiness
	Refining
	Resolved
	Exhausted
)

func (s State) String() string {
	switch s {
	case Sampling:
		return "sampling"
	case Transforming:
		return "transforming"
	case CheckingHappiness:
		return "checking"
	case Refining:
		return "refining"
	case Resolved:
		return "resolved"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of a construction. Tech is never nil when the
// error is nil.
type Result struct {
	// Tech is the resolved representation, or the best one found when the
	// loop exhausted its sizes.
	Tech tech.Tech
	// Verdict is the verdict of the last attempt.
	Verdict core.Verdict
	// Sizes lists the grid sizes tried, strictly increasing.
	Sizes []int
	// State is Resolved or Exhausted.
	State State
	// Resolved reports whether the last verdict was happy.
	Resolved bool
}

// Attempts returns the number of grid sizes tried.
func (r Result) Attempts() int { return len(r.Sizes) }

// Build constructs a representation of op on [-1, 1] in the basis p.Tech.
// See BuildWithObservers.
func Build(ctx context.Context, op core.Op, data core.Data, p core.Preferences) (Result, error) {
	return BuildWithObservers(ctx, nil, 0, op, data, p)
}

// BuildWithObservers runs the adaptive loop and reports every attempt to
// subject, tagged with piece.
//
// The loop starts at p.MinSamples (or p.FixedLength, which disables
// refinement) and grows Chebyshev grids n -> 2n-1 and Fourier grids
// n -> 2n, with the last step clamped to p.MaxLength. When the sizes run
// out the best representation so far is returned unresolved with a nil
// error. Errors are reserved for invalid input: bad preferences, an
// unknown strategy, or an operator whose output width changes.
//
// Non-finite samples at the Chebyshev endpoints are replaced by
// extrapolation from the interior; non-finite interior samples make the
// attempt unresolved.
//
// ctx is checked before every attempt; a done context ends the loop with
// ctx.Err(). Diagnostics go to the logger attached to ctx.
func BuildWithObservers(ctx context.Context, subject *Subject, piece int, op core.Op, data core.Data, p core.Preferences) (res Result, err error) {
	p = p.Normalize()
	tracer := otel.Tracer("construct")
	_, span := tracer.Start(ctx, "Build")
	defer span.End()
	logger := zerolog.Ctx(ctx)

	start := time.Now()
	defer func() {
		status := "error"
		switch {
		case err != nil:
		case res.Resolved:
			status = "resolved"
		default:
			status = "unresolved"
		}
		constructionsTotal.WithLabelValues(p.Tech.String(), status).Inc()
		constructionDuration.WithLabelValues(p.Tech.String()).Observe(time.Since(start).Seconds())
		if err == nil && res.Tech != nil {
			constructionLength.WithLabelValues(p.Tech.String()).Observe(float64(res.Tech.Len()))
		}
		logger.Debug().
			Str("tech", p.Tech.String()).
			Ints("sizes", res.Sizes).
			Float64("duration", time.Since(start).Seconds()).
			Str("status", status).
			Msg("construction completed")
		span.SetAttributes(
			attribute.String("tech", p.Tech.String()),
			attribute.String("status", status),
			attribute.IntSlice("sizes", res.Sizes),
		)
	}()

	if op == nil {
		return Result{}, fmt.Errorf("%w: nil operator", core.ErrEmpty)
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	s := &sampler{op: op, kind: p.Tech, width: -1, extrapolate: p.ExtrapolateEndpoints}
	n := p.MinSamples
	if p.FixedLength > 0 {
		n = p.FixedLength
	}

	var (
		best     tech.Tech
		lastCols [][]float64
		prevRows [][]float64
		prevN    int
	)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Sizes: res.Sizes}, err
		}
		res.Sizes = append(res.Sizes, n)

		// Sampling
		nested := p.Refinement == core.RefinementNested && nests(p.Tech, prevN, n)
		rows, err := s.sample(tech.Points(p.Tech, n), prevRows, nested)
		if err != nil {
			return Result{}, err
		}
		prevRows, prevN = rows, n

		// Transforming
		cols, allFinite := s.columns(rows)
		lastCols = cols

		// CheckingHappiness
		var v core.Verdict
		var t tech.Tech
		if allFinite {
			t, err = tech.FromValues(p.Tech, cols)
			if err != nil {
				return Result{}, err
			}
			v, err = happiness.Check(t, op, cols, data, p)
			if err != nil {
				return Result{}, err
			}
			best = t
		} else {
			v = core.Verdict{Happy: false, Epslevel: 1, Cutoff: n}
		}

		next := grow(p.Tech, n)
		fixed := p.FixedLength > 0
		switch {
		case v.Happy:
			res.State = Resolved
		case fixed || n >= p.MaxLength:
			res.State = Exhausted
		default:
			res.State = Refining
		}
		subject.Notify(Event{
			Piece:     piece,
			Attempt:   attempt,
			Kind:      p.Tech,
			Size:      n,
			State:     res.State,
			Verdict:   v,
			NonFinite: !allFinite,
		})
		res.Verdict = v
		switch res.State {
		case Resolved:
			if fixed {
				v.Cutoff = n
			}
			res.Tech = t.WithVerdict(v)
			res.Resolved = true
			return res, nil
		case Exhausted:
			if best == nil {
				best, err = tech.FromValues(p.Tech, sanitize(lastCols))
				if err != nil {
					return Result{}, err
				}
			}
			res.Tech = best.WithVerdict(core.Verdict{Happy: false, Epslevel: v.Epslevel, Cutoff: best.Len()})
			if !fixed {
				logger.Warn().
					Str("tech", p.Tech.String()).
					Int("max_length", p.MaxLength).
					Float64("epslevel", res.Tech.Epslevel()).
					Msg("construction did not resolve within the maximum length")
			}
			return res, nil
		}
		n = min(next, p.MaxLength)
	}
}

// grow returns the grid size following n. Chebyshev sizes keep the old
// points as every other point of the new grid.
func grow(kind core.Kind, n int) int {
	if kind == core.Fourier {
		return 2 * n
	}
	return max(2*n-1, n+1)
}

// nests reports whether every point of the grid of size old is a point of
// the grid of size n, at index 2j.
func nests(kind core.Kind, old, n int) bool {
	if kind == core.Fourier {
		return old > 0 && n == 2*old
	}
	return old >= 2 && n == 2*old-1
}

// sampler evaluates an operator on grids and enforces a constant output
// width.
type sampler struct {
	op          core.Op
	kind        core.Kind
	width       int
	extrapolate bool
}

// sample evaluates the operator at x, one row per point. With nested set,
// even-indexed rows are taken from prev. Endpoint rows are left nil when
// endpoints are extrapolated.
func (s *sampler) sample(x []float64, prev [][]float64, nested bool) ([][]float64, error) {
	rows := make([][]float64, len(x))
	skipEnds := s.extrapolate && s.kind == core.Chebyshev && len(x) >= 3
	for j, xj := range x {
		switch {
		case skipEnds && (j == 0 || j == len(x)-1):
			continue
		case nested && j%2 == 0 && prev[j/2] != nil:
			rows[j] = prev[j/2]
			continue
		}
		y := s.op(xj)
		if err := s.checkWidth(len(y), xj); err != nil {
			return nil, err
		}
		rows[j] = append([]float64(nil), y...)
	}
	return rows, nil
}

func (s *sampler) checkWidth(w int, x float64) error {
	if w == 0 {
		return fmt.Errorf("%w: operator returned no values at %g", core.ErrEmpty, x)
	}
	if s.width < 0 {
		s.width = w
		return nil
	}
	if w != s.width {
		return fmt.Errorf("%w: operator returned %d values at %g, want %d", core.ErrDimension, w, x, s.width)
	}
	return nil
}

// columns transposes rows into columns and fills the Chebyshev endpoints
// by extrapolation when they were skipped or are not finite. It reports
// whether every resulting value is finite.
func (s *sampler) columns(rows [][]float64) ([][]float64, bool) {
	n := len(rows)
	cols := make([][]float64, s.width)
	for i := range cols {
		cols[i] = make([]float64, n)
		for j, r := range rows {
			if r != nil {
				cols[i][j] = r[i]
			}
		}
	}

	if s.kind == core.Chebyshev && n >= 3 {
		x := transform.ChebPoints(n)
		w := transform.InteriorBaryWeights(n)
		for _, col := range cols {
			if !s.extrapolate && finite(col[0]) && finite(col[n-1]) {
				continue
			}
			ends := transform.BaryInterp(x[1:n-1], col[1:n-1], w, []float64{-1, 1})
			col[0], col[n-1] = ends[0], ends[1]
		}
	}

	for _, col := range cols {
		for _, v := range col {
			if !finite(v) {
				return cols, false
			}
		}
	}
	return cols, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// sanitize replaces non-finite samples by zero.
func sanitize(cols [][]float64) [][]float64 {
	out := make([][]float64, len(cols))
	for i, col := range cols {
		out[i] = make([]float64, len(col))
		for j, v := range col {
			if finite(v) {
				out[i][j] = v
			}
		}
	}
	return out
}
