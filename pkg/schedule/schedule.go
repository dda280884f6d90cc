// Package schedule runs recurring background tasks on fixed intervals.
//
//	schedule.EveryMinute().Run(func() { ... })
//	schedule.Daily().Name("points:reconcile-sweep").WithoutOverlapping().Run(sweep)
//	schedule.Start(ctx) // once, at boot
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rewearhq/rewear/pkg/logger"
)

// Task is a scheduled unit of work. Tasks run on their own goroutine; a
// panicking task is logged and does not take the scheduler down.
type Task func()

type job struct {
	name     string
	every    time.Duration
	task     Task
	skipWhen bool // skip a tick while the previous run is still going

	mu      sync.Mutex
	lastRun time.Time
	active  bool
}

var (
	mu   sync.Mutex
	jobs []*job
)

// Builder configures a job before Run registers it.
type Builder struct{ j *job }

func every(d time.Duration) *Builder { return &Builder{j: &job{every: d}} }

func EveryMinute() *Builder          { return every(time.Minute) }
func Every(d time.Duration) *Builder { return every(d) }
func Hourly() *Builder               { return every(time.Hour) }
func Daily() *Builder                { return every(24 * time.Hour) }

// Name sets the identifier used in log lines.
func (b *Builder) Name(name string) *Builder {
	b.j.name = name
	return b
}

// WithoutOverlapping drops a due tick while the previous run is still active.
func (b *Builder) WithoutOverlapping() *Builder {
	b.j.skipWhen = true
	return b
}

// Run registers the task. The first run happens on the first tick after
// Start, subsequent runs after each full interval.
func (b *Builder) Run(fn Task) {
	b.j.task = fn
	mu.Lock()
	if b.j.name == "" {
		b.j.name = fmt.Sprintf("job-%d", len(jobs)+1)
	}
	jobs = append(jobs, b.j)
	mu.Unlock()
}

// Start launches the scheduler loop. It returns immediately and stops when
// ctx is cancelled. Register jobs before calling Start.
func Start(ctx context.Context) {
	go loop(ctx)
	logger.Info("schedule: started", "jobs", count())
}

func count() int {
	mu.Lock()
	defer mu.Unlock()
	return len(jobs)
}

func loop(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-tick.C:
			mu.Lock()
			due := make([]*job, 0, len(jobs))
			for _, j := range jobs {
				if j.due(now) {
					due = append(due, j)
				}
			}
			mu.Unlock()

			for _, j := range due {
				j.fire()
			}
		}
	}
}

func (j *job) due(now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastRun.IsZero() || now.Sub(j.lastRun) >= j.every
}

func (j *job) fire() {
	j.mu.Lock()
	if j.skipWhen && j.active {
		j.mu.Unlock()
		logger.Warn("schedule: run still in progress, skipping", "job", j.name)
		return
	}
	j.active = true
	j.lastRun = time.Now()
	j.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", j.name, "panic", r)
			}
			j.mu.Lock()
			j.active = false
			j.mu.Unlock()
		}()
		logger.Info("schedule: running", "job", j.name)
		j.task()
	}()
}
