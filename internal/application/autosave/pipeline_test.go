package autosave

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/application"
	"laserlab/internal/ports"
)

// manualScheduler fires timers only when the test advances its clock
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in order. The clock
// reads each timer's deadline while its callback runs, so timers armed from a
// callback count from when their parent fired.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		due[0].fired = true
		s.now = max(s.now, due[0].at)
		f := due[0].f
		s.mu.Unlock()
		f()
	}
}

func TestManualScheduler_NestedTimersCountFromParent(t *testing.T) {
	s := &manualScheduler{}
	var fired []time.Duration
	s.AfterFunc(time.Second, func() {
		fired = append(fired, s.now)
		s.AfterFunc(3*time.Second, func() { fired = append(fired, s.now) })
	})

	s.Advance(10 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 4 * time.Second}, fired)
	assert.Equal(t, 10*time.Second, s.now)
}

type fakeRows struct {
	text string
	err  error
}

func (r *fakeRows) Export() (string, error) {
	return r.text, r.err
}

type fakeSink struct {
	calls  []string
	err    error
	during func()
}

func (s *fakeSink) SaveRows(ctx context.Context, csv string) error {
	s.calls = append(s.calls, csv)
	if s.during != nil {
		hook := s.during
		s.during = nil
		hook()
	}
	return s.err
}

type memStore struct {
	values map[string]string
	err    error
}

func (m *memStore) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}

type harness struct {
	p        *Pipeline
	sched    *manualScheduler
	rows     *fakeRows
	sink     *fakeSink
	fallback *memStore
	statuses []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sched:    &manualScheduler{},
		rows:     &fakeRows{text: "position,Element\n1,Lens\n"},
		sink:     &fakeSink{},
		fallback: &memStore{},
	}
	h.p = NewPipeline(h.rows, h.sink, h.fallback,
		WithScheduler(h.sched),
		WithDebounce(time.Second),
		WithStatusWindow(3*time.Second),
		WithStatusFunc(func(s string) { h.statuses = append(h.statuses, s) }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	h.p.spawn = func(f func()) { f() }
	return h
}

func (h *harness) lastStatus() string {
	if len(h.statuses) == 0 {
		return ""
	}
	return h.statuses[len(h.statuses)-1]
}

func TestPipeline_DebounceCoalescesEdits(t *testing.T) {
	h := newHarness(t)

	for i, text := range []string{"a", "b", "c", "d", "e"} {
		h.rows.text = text
		h.p.RowsEdited()
		assert.Equal(t, StatePending, h.p.State(), "edit %d", i)
		h.sched.Advance(900 * time.Millisecond)
	}
	assert.Empty(t, h.sink.calls)
	assert.Equal(t, application.StatusEditing, h.lastStatus())

	h.sched.Advance(100 * time.Millisecond)
	require.Len(t, h.sink.calls, 1)
	assert.Equal(t, "e", h.sink.calls[0])
	assert.Equal(t, StateIdle, h.p.State())
	assert.Equal(t, application.StatusSaved, h.lastStatus())
}

func TestPipeline_SavedStatusClearsAfterWindow(t *testing.T) {
	h := newHarness(t)
	h.p.RowsEdited()
	h.sched.Advance(time.Second)
	assert.Equal(t, application.StatusSaved, h.lastStatus())

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, application.StatusSaved, h.lastStatus())

	h.sched.Advance(time.Second)
	assert.Equal(t, "", h.lastStatus())
	assert.Equal(t, []string{
		application.StatusEditing,
		application.StatusSaving,
		application.StatusSaved,
		"",
	}, h.statuses)
}

func TestPipeline_NewEditKeepsSavedStatusFromClearing(t *testing.T) {
	h := newHarness(t)
	h.p.RowsEdited()
	h.sched.Advance(time.Second)

	h.p.RowsEdited()
	h.sched.Advance(500 * time.Millisecond)
	assert.Equal(t, application.StatusEditing, h.lastStatus())

	h.sched.Advance(5 * time.Second)
	assert.Len(t, h.sink.calls, 2)
	assert.Equal(t, "", h.lastStatus())
}

func TestPipeline_ReorderSavesImmediately(t *testing.T) {
	h := newHarness(t)

	h.p.RowsReordered()
	require.Len(t, h.sink.calls, 1)
	assert.Equal(t, StateIdle, h.p.State())
	assert.Equal(t, []string{application.StatusSaving, application.StatusSaved}, h.statuses)
}

func TestPipeline_ReorderSupersedesPendingEdit(t *testing.T) {
	h := newHarness(t)
	h.p.RowsEdited()
	h.p.RowsReordered()
	require.Len(t, h.sink.calls, 1)

	h.sched.Advance(10 * time.Second)
	assert.Len(t, h.sink.calls, 1)
}

func TestPipeline_FailureWritesFallback(t *testing.T) {
	h := newHarness(t)
	h.sink.err = errors.New("503 service unavailable")
	h.rows.text = "position,Element\n1,Mirror\n"

	h.p.RowsEdited()
	h.sched.Advance(time.Second)

	assert.Equal(t, "position,Element\n1,Mirror\n", h.fallback.values[FallbackKey])
	assert.Equal(t, application.StatusSaveError, h.lastStatus())
	assert.Equal(t, StateIdle, h.p.State())

	h.sched.Advance(10 * time.Second)
	assert.Equal(t, application.StatusSaveError, h.lastStatus())
}

func TestPipeline_FallbackFailureIsSwallowed(t *testing.T) {
	h := newHarness(t)
	h.sink.err = errors.New("offline")
	h.fallback.err = errors.New("disk full")

	assert.NotPanics(t, func() {
		h.p.RowsReordered()
	})
	assert.Equal(t, application.StatusSaveError, h.lastStatus())
	assert.Equal(t, StateIdle, h.p.State())
}

func TestPipeline_ExportFailureReportsError(t *testing.T) {
	h := newHarness(t)
	h.rows.err = errors.New("encode failed")

	h.p.RowsReordered()
	assert.Empty(t, h.sink.calls)
	assert.Empty(t, h.fallback.values)
	assert.Equal(t, application.StatusSaveError, h.lastStatus())
}

func TestPipeline_OneSaveInFlight(t *testing.T) {
	h := newHarness(t)
	h.rows.text = "first"
	h.sink.during = func() {
		assert.Equal(t, StateSaving, h.p.State())
		h.rows.text = "second"
		h.p.RowsEdited()
		h.sched.Advance(time.Second)
		assert.Len(t, h.sink.calls, 1, "second save must wait for the first")
	}

	h.p.RowsReordered()

	assert.Equal(t, []string{"first", "second"}, h.sink.calls)
	assert.Equal(t, StateIdle, h.p.State())
}

func TestPipeline_EditDuringSaveLeavesPending(t *testing.T) {
	h := newHarness(t)
	h.sink.during = func() {
		h.p.RowsEdited()
	}

	h.p.RowsReordered()
	assert.Len(t, h.sink.calls, 1)
	assert.Equal(t, StatePending, h.p.State())

	h.sched.Advance(time.Second)
	assert.Len(t, h.sink.calls, 2)
	assert.Equal(t, StateIdle, h.p.State())
}

func TestPipeline_Flush(t *testing.T) {
	h := newHarness(t)
	h.p.Flush()
	assert.Empty(t, h.sink.calls)

	h.p.RowsEdited()
	h.p.Flush()
	assert.Len(t, h.sink.calls, 1)

	h.sched.Advance(time.Second)
	assert.Len(t, h.sink.calls, 1)
}

func TestPipeline_WallClock(t *testing.T) {
	rows := &fakeRows{text: "x"}
	done := make(chan string, 1)
	sink := sinkFunc(func(ctx context.Context, csv string) error {
		done <- csv
		return nil
	})

	p := NewPipeline(rows, sink, &memStore{}, WithDebounce(10*time.Millisecond))
	p.RowsEdited()

	select {
	case got := <-done:
		assert.Equal(t, "x", got)
	case <-time.After(2 * time.Second):
		t.Fatal("save never ran")
	}
	p.Wait()
	p.Close()
}

type sinkFunc func(ctx context.Context, csv string) error

func (f sinkFunc) SaveRows(ctx context.Context, csv string) error {
	return f(ctx, csv)
}
