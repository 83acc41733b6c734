package construct

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards events to a channel without blocking. Events are
// dropped when the channel is full or the observer is closed.
type ChannelObserver struct {
	mu      sync.Mutex
	channel chan<- Event
	closed  bool
}

// NewChannelObserver creates an observer sending to ch. A nil channel
// discards events.
func NewChannelObserver(ch chan<- Event) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update sends e if the channel has room.
func (o *ChannelObserver) Update(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.channel == nil {
		return
	}
	select {
	case o.channel <- e:
	default:
	}
}

// Close closes the channel. Constructions still running after a timeout
// may keep calling Update; those events are dropped. Close is idempotent.
func (o *ChannelObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.channel != nil {
		close(o.channel)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs attempts at debug level. Terminal attempts are always
// logged; refinements only every `every` attempts per piece.
type LoggingObserver struct {
	logger zerolog.Logger
	every  int
	seen   map[int]int
	mu     sync.Mutex
}

// NewLoggingObserver creates a logging observer. every <= 0 logs every
// attempt.
func NewLoggingObserver(logger zerolog.Logger, every int) *LoggingObserver {
	if every <= 0 {
		every = 1
	}
	return &LoggingObserver{logger: logger, every: every, seen: make(map[int]int)}
}

// Update logs e when it is due.
func (o *LoggingObserver) Update(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.seen[e.Piece]++
	if e.State == Refining && o.seen[e.Piece]%o.every != 0 {
		return
	}
	o.logger.Debug().
		Int("piece", e.Piece).
		Int("attempt", e.Attempt).
		Str("tech", e.Kind.String()).
		Int("size", e.Size).
		Str("state", e.State.String()).
		Bool("happy", e.Verdict.Happy).
		Float64("epslevel", e.Verdict.Epslevel).
		Int("cutoff", e.Verdict.Cutoff).
		Bool("non_finite", e.NonFinite).
		Msg("construction attempt")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

var sizeGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "chebgo_construction_grid_size",
		Help: "Grid size of the latest attempt of each running construction",
	},
	[]string{"piece"},
)

// MetricsObserver exports the current grid size per piece to Prometheus.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

// NewMetricsObserver creates an observer backed by the package gauge.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{gauge: sizeGauge}
}

// Update records the size of e.
func (o *MetricsObserver) Update(e Event) {
	o.gauge.WithLabelValues(strconv.Itoa(e.Piece)).Set(float64(e.Size))
}

// ResetMetrics clears the gauge for a new batch of constructions.
func (o *MetricsObserver) ResetMetrics() {
	o.gauge.Reset()
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording Observer
// ─────────────────────────────────────────────────────────────────────────────

// RecordingObserver keeps every event it receives, in order.
type RecordingObserver struct {
	mu     sync.Mutex
	events []Event
}

// Update appends e.
func (o *RecordingObserver) Update(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Event(nil), o.events...)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards every event.
type NoOpObserver struct{}

// Update does nothing.
func (NoOpObserver) Update(Event) {}
