// Package cli renders construction progress and reports on a terminal.
package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/chebgo/internal/construct"
	"github.com/agbru/chebgo/internal/ui"
)

const (
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 40
)

// FormatExecutionDuration prints microseconds below a millisecond,
// milliseconds below a second and the default format otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner is the terminal animation used while constructions run.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// ProgressState tracks the latest event of every piece of one or more
// concurrent constructions. It is not safe for concurrent use.
type ProgressState struct {
	maxLength int
	latest    map[int]construct.Event
}

// NewProgressState creates a tracker for constructions bounded by
// maxLength points per piece.
func NewProgressState(maxLength int) *ProgressState {
	return &ProgressState{maxLength: max(maxLength, 2), latest: make(map[int]construct.Event)}
}

// Update records e as the latest event of its piece.
func (ps *ProgressState) Update(e construct.Event) { ps.latest[e.Piece] = e }

// Progress estimates the completed fraction: a finished piece counts as
// one, a refining piece as log(size)/log(maxLength) since grids grow
// geometrically.
func (ps *ProgressState) Progress() float64 {
	if len(ps.latest) == 0 {
		return 0
	}
	var total float64
	for _, e := range ps.latest {
		if e.State == construct.Resolved || e.State == construct.Exhausted {
			total++
			continue
		}
		total += math.Min(1, math.Log(float64(max(e.Size, 1)))/math.Log(float64(ps.maxLength)))
	}
	return total / float64(len(ps.latest))
}

// Summary describes the pieces seen so far, e.g. "3 pieces, 2 done,
// largest grid 129".
func (ps *ProgressState) Summary() string {
	done, largest := 0, 0
	for _, e := range ps.latest {
		if e.State == construct.Resolved || e.State == construct.Exhausted {
			done++
		}
		largest = max(largest, e.Size)
	}
	noun := "pieces"
	if len(ps.latest) == 1 {
		noun = "piece"
	}
	return fmt.Sprintf("%d %s, %d done, largest grid %d", len(ps.latest), noun, done, largest)
}

// Pieces returns the indices seen so far in ascending order.
func (ps *ProgressState) Pieces() []int {
	out := make([]int, 0, len(ps.latest))
	for k := range ps.latest {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func progressBar(progress float64, length int) string {
	progress = math.Max(0, math.Min(1, progress))
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(3 * length)
	for i := range length {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// DisplayProgress renders a spinner and a progress bar from construction
// events until events is closed. It runs in its own goroutine and calls
// wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, events <-chan construct.Event, maxLength int, out io.Writer) {
	defer wg.Done()

	state := NewProgressState(maxLength)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "Progress: %6.2f%% [%s] %s\n", 100.0, progressBar(1, ProgressBarWidth), state.Summary())
				return
			}
			state.Update(e)
		case <-ticker.C:
			p := state.Progress()
			s.UpdateSuffix(fmt.Sprintf(" Progress: %6.2f%% [%s] %s", p*100, progressBar(p, ProgressBarWidth), state.Summary()))
		}
	}
}

// verdictLabel formats the resolution outcome in the theme colors.
func verdictLabel(resolved bool) string {
	t := ui.GetCurrentTheme()
	label, color := t.Verdict(resolved)
	return color + label + t.Reset
}
