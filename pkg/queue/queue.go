// Package queue runs background jobs. A job is any type with a Handle method;
// it is serialized to JSON on dispatch and rebuilt by name on the worker side,
// so every job type must be registered at boot:
//
//	queue.Register("jobs.ReconcileBalanceJob", func() queue.Job { return &jobs.ReconcileBalanceJob{} })
//	queue.Dispatch(jobs.ReconcileBalanceJob{UserID: 7})
//
// Jobs that still fail after all retries are recorded (see failed_jobs.go).
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
)

// Job is a unit of background work. Exported fields survive the round trip
// through the queue; everything else is rebuilt by the registered factory.
type Job interface {
	Handle() error
}

// Driver stores and hands out serialized jobs.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is available or ctx is cancelled. A nil
	// payload with nil error means "nothing yet, ask again".
	Pop(ctx context.Context) ([]byte, error)
}

type manager struct {
	mu        sync.RWMutex
	driver    Driver
	factories map[string]func() Job
	failed    []FailedJob
	retries   int
}

var q = &manager{
	driver:    NewMemoryDriver(),
	factories: map[string]func() Job{},
	retries:   3,
}

// SetDriver swaps the backend. Call before StartWorkers.
func SetDriver(d Driver) {
	q.mu.Lock()
	q.driver = d
	q.mu.Unlock()
}

// SetMaxRetry changes how many attempts a job gets before it is recorded as
// failed.
func SetMaxRetry(n int) {
	q.mu.Lock()
	q.retries = n
	q.mu.Unlock()
}

// Register maps a wire name to a factory producing an empty job of that type.
// The name must equal fmt.Sprintf("%T", job) of the dispatched value.
func Register(name string, factory func() Job) {
	q.mu.Lock()
	q.factories[name] = factory
	q.mu.Unlock()
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch serializes the job and pushes it onto the queue.
func Dispatch(job Job) error {
	name := fmt.Sprintf("%T", job)

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	wire, err := json.Marshal(envelope{Type: name, Payload: body})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	q.mu.RLock()
	d := q.driver
	q.mu.RUnlock()
	return d.Push(wire)
}

// StartWorkers launches n workers that consume jobs until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go worker(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func worker(ctx context.Context) {
	for ctx.Err() == nil {
		q.mu.RLock()
		d := q.driver
		q.mu.RUnlock()

		wire, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if wire == nil {
			continue
		}
		handle(wire)
	}
}

func handle(wire []byte) {
	var env envelope
	if err := json.Unmarshal(wire, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	q.mu.RLock()
	factory, ok := q.factories[env.Type]
	retries := q.retries
	q.mu.RUnlock()
	if !ok {
		logger.Warn("queue: no factory for job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: bad payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if lastErr = job.Handle(); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			return
		}
		logger.Warn("queue: attempt failed",
			"type", env.Type, "attempt", attempt, "error", lastErr)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	recordFailure(job, env.Type, lastErr, retries)
	metrics.RecordQueueJob(env.Type, "failed", start)
	logger.Error("queue: job gave up", "type", env.Type, "error", lastErr)
}
