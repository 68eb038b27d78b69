// Package anim runs cancellable, per-target animation tasks that report their
// progress as ticks.
package anim

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Tick reports the progress of one target's animation, from 0 to 1.
type Tick struct {
	Target   string  `json:"target"`
	Progress float64 `json:"progress"`
	Done     bool    `json:"done,omitempty"`
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Runner owns at most one animation per target. Starting a target cancels
// the animation already running on it and waits for it to exit, so ticks for
// one target never interleave.
type Runner struct {
	duration time.Duration
	interval time.Duration
	emit     func(Tick)

	mu    sync.Mutex
	tasks map[string]*task
}

// NewRunner creates a runner. A zero duration disables animations.
func NewRunner(duration, interval time.Duration, emit func(Tick)) *Runner {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	if emit == nil {
		emit = func(Tick) {}
	}
	return &Runner{
		duration: duration,
		interval: interval,
		emit:     emit,
		tasks:    make(map[string]*task),
	}
}

// Enabled reports whether Start does anything.
func (r *Runner) Enabled() bool { return r.duration > 0 }

// Start begins animating target, replacing any animation already in flight
// for it. The animation stops early when ctx is cancelled.
func (r *Runner) Start(ctx context.Context, target string) {
	if !r.Enabled() {
		return
	}
	r.Cancel(target)

	tctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	r.tasks[target] = t
	r.mu.Unlock()

	go r.run(tctx, target, t)
}

// Cancel stops target's animation, if any, and waits for it to exit.
func (r *Runner) Cancel(target string) {
	r.mu.Lock()
	t := r.tasks[target]
	r.mu.Unlock()
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

// Running returns the targets with an animation in flight, sorted.
func (r *Runner) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tasks))
	for target := range r.tasks {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Stop cancels every animation and waits for them to exit.
func (r *Runner) Stop() {
	for _, target := range r.Running() {
		r.Cancel(target)
	}
}

func (r *Runner) run(ctx context.Context, target string, t *task) {
	defer func() {
		r.mu.Lock()
		if r.tasks[target] == t {
			delete(r.tasks, target)
		}
		r.mu.Unlock()
		t.cancel()
		close(t.done)
	}()

	start := time.Now()
	r.emit(Tick{Target: target, Progress: 0})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("animation cancelled", "target", target)
			return
		case <-ticker.C:
			p := float64(time.Since(start)) / float64(r.duration)
			if p >= 1 {
				r.emit(Tick{Target: target, Progress: 1, Done: true})
				return
			}
			r.emit(Tick{Target: target, Progress: p})
		}
	}
}
