package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"laserlab/internal/application"
	"laserlab/internal/ports"
)

// FallbackKey is the local store key receiving the row text when a save fails
const FallbackKey = "laser-components-data"

// Defaults for the debounce and "saved" status windows
const (
	DefaultDebounce     = time.Second
	DefaultStatusWindow = 3 * time.Second
)

// State is the pipeline's position in the save cycle
type State int

const (
	StateIdle State = iota
	StatePending
	StateSaving
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	default:
		return "idle"
	}
}

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Exporter produces the full serialized row set
type Exporter interface {
	Export() (string, error)
}

// Pipeline debounces row edits into saves of the full row set. At most one
// save is in flight; a save requested meanwhile runs once the current one
// completes. Failures go to the local fallback store and are never returned.
type Pipeline struct {
	mu       sync.Mutex
	state    State
	timer    Timer
	inFlight bool
	queued   bool

	statusGen  uint64
	clearTimer Timer

	rows     Exporter
	sink     ports.RowSink
	fallback ports.LocalStore

	ctx          context.Context
	sched        Scheduler
	debounce     time.Duration
	statusWindow time.Duration
	onStatus     func(string)
	logger       *slog.Logger

	spawn func(func())
	wg    sync.WaitGroup
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithScheduler replaces the wall-clock scheduler
func WithScheduler(s Scheduler) Option {
	return func(p *Pipeline) { p.sched = s }
}

// WithDebounce sets the debounce window
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithStatusWindow sets how long "Changes saved" stays visible
func WithStatusWindow(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.statusWindow = d
		}
	}
}

// WithStatusFunc registers the status text callback. The empty string clears the status.
func WithStatusFunc(f func(string)) Option {
	return func(p *Pipeline) { p.onStatus = f }
}

// WithLogger sets the logger for save diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithContext sets the context passed to save calls
func WithContext(ctx context.Context) Option {
	return func(p *Pipeline) { p.ctx = ctx }
}

// NewPipeline creates an idle pipeline saving rows to sink
func NewPipeline(rows Exporter, sink ports.RowSink, fallback ports.LocalStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		rows:         rows,
		sink:         sink,
		fallback:     fallback,
		ctx:          context.Background(),
		sched:        clockScheduler{},
		debounce:     DefaultDebounce,
		statusWindow: DefaultStatusWindow,
		onStatus:     func(string) {},
		logger:       slog.Default(),
	}
	p.spawn = func(f func()) { go f() }
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// RowsEdited restarts the debounce window
func (p *Pipeline) RowsEdited() {
	p.mu.Lock()
	p.stopTimer()
	p.timer = p.sched.AfterFunc(p.debounce, p.fire)
	if p.state == StateIdle {
		p.state = StatePending
	}
	gen := p.nextStatus()
	p.mu.Unlock()

	p.emit(gen, application.StatusEditing)
}

// RowsReordered saves immediately. A pending edit save is superseded since
// the reorder save carries the same full snapshot.
func (p *Pipeline) RowsReordered() {
	p.mu.Lock()
	p.stopTimer()
	p.mu.Unlock()

	p.begin()
}

// Flush starts a pending save now instead of waiting for the window
func (p *Pipeline) Flush() {
	p.mu.Lock()
	pending := p.timer != nil
	p.stopTimer()
	p.mu.Unlock()

	if pending {
		p.begin()
	}
}

// Wait blocks until no save is running
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Close stops the timers. A save already started still completes.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimer()
	if p.clearTimer != nil {
		p.clearTimer.Stop()
		p.clearTimer = nil
	}
	if !p.inFlight {
		p.state = StateIdle
	}
}

func (p *Pipeline) fire() {
	p.mu.Lock()
	p.timer = nil
	p.mu.Unlock()

	p.begin()
}

// stopTimer cancels the debounce timer. Callers hold p.mu.
func (p *Pipeline) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// nextStatus claims a status generation. Callers hold p.mu.
func (p *Pipeline) nextStatus() uint64 {
	p.statusGen++
	if p.clearTimer != nil {
		p.clearTimer.Stop()
		p.clearTimer = nil
	}
	return p.statusGen
}

func (p *Pipeline) emit(gen uint64, status string) {
	p.mu.Lock()
	current := gen == p.statusGen
	p.mu.Unlock()

	if current {
		p.onStatus(status)
	}
}

// begin starts a save unless one is in flight, in which case it is queued
func (p *Pipeline) begin() {
	p.mu.Lock()
	if p.inFlight {
		p.queued = true
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.state = StateSaving
	gen := p.nextStatus()
	p.wg.Add(1)
	p.mu.Unlock()

	p.emit(gen, application.StatusSaving)
	p.spawn(func() {
		defer p.wg.Done()
		p.save()
	})
}

func (p *Pipeline) save() {
	text, err := p.rows.Export()
	if err != nil {
		p.logger.Error("failed to serialize rows", "error", err)
	} else if err = p.sink.SaveRows(p.ctx, text); err != nil {
		p.logger.Error("failed to save rows, writing local fallback", "error", err, "key", FallbackKey)
		if ferr := p.fallback.Set(FallbackKey, text); ferr != nil {
			p.logger.Error("failed to write local fallback", "error", ferr, "key", FallbackKey)
		}
	}

	p.mu.Lock()
	p.inFlight = false
	gen := p.nextStatus()
	if err == nil {
		p.clearTimer = p.sched.AfterFunc(p.statusWindow, func() { p.emit(gen, "") })
	}
	again := p.queued
	p.queued = false
	switch {
	case again:
		p.state = StateSaving
	case p.timer != nil:
		p.state = StatePending
	default:
		p.state = StateIdle
	}
	p.mu.Unlock()

	if err != nil {
		p.emit(gen, application.StatusSaveError)
	} else {
		p.emit(gen, application.StatusSaved)
	}
	if again {
		p.begin()
	}
}
