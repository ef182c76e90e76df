package perf

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOperation(t *testing.T) {
	tracker := New()

	start := tracker.Start()
	require.False(t, start.IsZero())
	time.Sleep(time.Millisecond)
	tracker.Record("AddOrder_Success", start, 3)

	m := tracker.Metrics("AddOrder_Success")
	assert.Equal(t, "AddOrder_Success", m.Operation)
	assert.Equal(t, int64(1), m.Calls)
	assert.Equal(t, int64(3), m.Processed)
	assert.Greater(t, m.Total, time.Duration(0))
	assert.Greater(t, m.Min, time.Duration(0))
	assert.GreaterOrEqual(t, m.Max, m.Min)
	assert.Greater(t, m.P99, time.Duration(0))
}

func TestTrackerAccumulatesAcrossCalls(t *testing.T) {
	tracker := New()

	for i := 0; i < 5; i++ {
		tracker.Record("CancelOrder_Success", tracker.Start(), 1)
	}

	m := tracker.Metrics("CancelOrder_Success")
	assert.Equal(t, int64(5), m.Calls)
	assert.Equal(t, int64(5), m.Processed)
	assert.GreaterOrEqual(t, m.Mean, time.Duration(0))
}

func TestDisabledTrackerRecordsNothing(t *testing.T) {
	tracker := Disabled()

	start := tracker.Start()
	assert.True(t, start.IsZero())

	tracker.Record("AddOrder_Success", start, 1)

	assert.Equal(t, int64(0), tracker.Metrics("AddOrder_Success").Calls)
	assert.Empty(t, tracker.Snapshot())
}

func TestSetEnabledTogglesRecording(t *testing.T) {
	tracker := New()

	tracker.SetEnabled(false)
	assert.False(t, tracker.Enabled())
	tracker.Record("Size", tracker.Start(), 0)
	assert.Equal(t, int64(0), tracker.Metrics("Size").Calls)

	tracker.SetEnabled(true)
	tracker.Record("Size", tracker.Start(), 0)
	assert.Equal(t, int64(1), tracker.Metrics("Size").Calls)
}

func TestUnknownOperationReturnsZeroMetrics(t *testing.T) {
	tracker := New()

	m := tracker.Metrics("never_recorded")
	assert.Equal(t, "never_recorded", m.Operation)
	assert.Equal(t, int64(0), m.Calls)
	assert.Equal(t, time.Duration(0), m.Min)
}

func TestSnapshotSortedByOperation(t *testing.T) {
	tracker := New()

	tracker.Record("b_op", tracker.Start(), 0)
	tracker.Record("a_op", tracker.Start(), 0)
	tracker.Record("c_op", tracker.Start(), 0)

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "a_op", snapshot[0].Operation)
	assert.Equal(t, "b_op", snapshot[1].Operation)
	assert.Equal(t, "c_op", snapshot[2].Operation)
}

func TestReset(t *testing.T) {
	tracker := New()

	tracker.Record("AddOrder_Success", tracker.Start(), 1)
	tracker.Reset()

	assert.Empty(t, tracker.Snapshot())
	assert.Equal(t, int64(0), tracker.Metrics("AddOrder_Success").Calls)
}

func TestConcurrentRecording(t *testing.T) {
	tracker := New()

	const (
		goroutines = 8
		perG       = 500
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				tracker.Record("AddOrder_Success", tracker.Start(), 1)
			}
		}()
	}
	wg.Wait()

	m := tracker.Metrics("AddOrder_Success")
	assert.Equal(t, int64(goroutines*perG), m.Calls)
	assert.Equal(t, int64(goroutines*perG), m.Processed)
}

func TestWriteReport(t *testing.T) {
	tracker := New()

	tracker.Record("AddOrder_Success", tracker.Start(), 1)
	tracker.Record("CancelOrder_NotFound", tracker.Start(), 0)

	var buf bytes.Buffer
	require.NoError(t, tracker.WriteReport(&buf))

	report := buf.String()
	assert.True(t, strings.Contains(report, "operation"))
	assert.True(t, strings.Contains(report, "AddOrder_Success"))
	assert.True(t, strings.Contains(report, "CancelOrder_NotFound"))
}
