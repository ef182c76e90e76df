// Package perf provides operation timing and counting for the order
// book engine. The tracker observes operations after the fact and
// never influences results. Counters are per-operation atomics, so
// recording shares no lock with the book itself; the latency
// histogram sits behind a per-operation mutex that book code never
// takes, so recording is safe whether or not the book lock is held.
package perf

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// histogram range: 1ns up to one minute, three significant figures.
const (
	histogramMin     = 1
	histogramMax     = int64(time.Minute)
	histogramSigFigs = 3
)

// Metrics is a point-in-time copy of one operation's statistics.
type Metrics struct {
	Operation string
	Calls     int64
	Processed int64
	Total     time.Duration
	Min       time.Duration
	Max       time.Duration
	Mean      time.Duration
	P50       time.Duration
	P99       time.Duration
}

// metric accumulates statistics for a single operation name.
type metric struct {
	calls     atomic.Int64
	processed atomic.Int64
	totalNs   atomic.Int64
	minNs     atomic.Int64
	maxNs     atomic.Int64

	histMu sync.Mutex
	hist   *hdrhistogram.Histogram
}

func newMetric() *metric {
	m := &metric{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
	m.minNs.Store(math.MaxInt64)
	return m
}

func (m *metric) record(d time.Duration, processed int) {
	ns := d.Nanoseconds()
	if ns < histogramMin {
		ns = histogramMin
	}
	if ns > histogramMax {
		ns = histogramMax
	}

	m.calls.Add(1)
	m.processed.Add(int64(processed))
	m.totalNs.Add(ns)

	for {
		cur := m.minNs.Load()
		if ns >= cur || m.minNs.CompareAndSwap(cur, ns) {
			break
		}
	}
	for {
		cur := m.maxNs.Load()
		if ns <= cur || m.maxNs.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.histMu.Lock()
	_ = m.hist.RecordValue(ns)
	m.histMu.Unlock()
}

func (m *metric) snapshot(op string) Metrics {
	calls := m.calls.Load()

	out := Metrics{
		Operation: op,
		Calls:     calls,
		Processed: m.processed.Load(),
		Total:     time.Duration(m.totalNs.Load()),
		Max:       time.Duration(m.maxNs.Load()),
	}
	if minNs := m.minNs.Load(); minNs != math.MaxInt64 {
		out.Min = time.Duration(minNs)
	}
	if calls > 0 {
		out.Mean = out.Total / time.Duration(calls)
	}

	m.histMu.Lock()
	out.P50 = time.Duration(m.hist.ValueAtQuantile(50))
	out.P99 = time.Duration(m.hist.ValueAtQuantile(99))
	m.histMu.Unlock()

	return out
}

// Tracker collects per-operation timing metrics. A disabled tracker
// turns Start and Record into cheap no-ops.
type Tracker struct {
	enabled atomic.Bool
	metrics sync.Map // operation name -> *metric
}

// New returns an enabled tracker.
func New() *Tracker {
	t := &Tracker{}
	t.enabled.Store(true)
	return t
}

// Disabled returns a tracker that records nothing.
func Disabled() *Tracker {
	return &Tracker{}
}

// SetEnabled turns recording on or off.
func (t *Tracker) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// Enabled reports whether the tracker records operations.
func (t *Tracker) Enabled() bool {
	return t.enabled.Load()
}

// Start returns the timestamp to pass to Record. A disabled tracker
// returns the zero time, which Record ignores.
func (t *Tracker) Start() time.Time {
	if !t.enabled.Load() {
		return time.Time{}
	}
	return time.Now()
}

// Record registers one completed operation: its name, the duration
// since start, and how many items it processed.
func (t *Tracker) Record(op string, start time.Time, processed int) {
	if !t.enabled.Load() || start.IsZero() {
		return
	}
	t.metric(op).record(time.Since(start), processed)
}

func (t *Tracker) metric(op string) *metric {
	if v, ok := t.metrics.Load(op); ok {
		return v.(*metric)
	}
	v, _ := t.metrics.LoadOrStore(op, newMetric())
	return v.(*metric)
}

// Metrics returns a copy of the statistics recorded for one
// operation, or a zero Metrics if the operation was never recorded.
func (t *Tracker) Metrics(op string) Metrics {
	if v, ok := t.metrics.Load(op); ok {
		return v.(*metric).snapshot(op)
	}
	return Metrics{Operation: op}
}

// Snapshot returns statistics for every recorded operation, sorted by
// operation name.
func (t *Tracker) Snapshot() []Metrics {
	var out []Metrics
	t.metrics.Range(func(k, v any) bool {
		out = append(out, v.(*metric).snapshot(k.(string)))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Reset clears all recorded metrics.
func (t *Tracker) Reset() {
	t.metrics.Range(func(k, _ any) bool {
		t.metrics.Delete(k)
		return true
	})
}

// WriteReport writes a per-operation table of timing statistics.
func (t *Tracker) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%-24s %10s %10s %12s %12s %12s %12s %12s\n",
		"operation", "calls", "processed", "min", "mean", "p50", "p99", "max"); err != nil {
		return err
	}

	for _, m := range t.Snapshot() {
		if _, err := fmt.Fprintf(w, "%-24s %10d %10d %12s %12s %12s %12s %12s\n",
			m.Operation, m.Calls, m.Processed, m.Min, m.Mean, m.P50, m.P99, m.Max); err != nil {
			return err
		}
	}

	return nil
}
