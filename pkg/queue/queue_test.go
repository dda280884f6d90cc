package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/pkg/queue"
)

var handled atomic.Int32

type countJob struct {
	Tag string `json:"tag"`
}

func (countJob) Handle() error {
	handled.Add(1)
	return nil
}

type brokenJob struct{}

func (brokenJob) Handle() error { return errors.New("always broken") }

func init() {
	queue.Register("queue_test.countJob", func() queue.Job { return &countJob{} })
	queue.Register("queue_test.brokenJob", func() queue.Job { return &brokenJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatchRunsRegisteredJob(t *testing.T) {
	before := handled.Load()
	require.NoError(t, queue.Dispatch(countJob{Tag: "a"}))
	waitFor(t, func() bool { return handled.Load() > before })
}

func TestJobExhaustingRetriesIsRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(brokenJob{}))
	waitFor(t, func() bool { return len(queue.FailedJobs()) > 0 })

	failed := queue.FailedJobs()
	assert.Equal(t, 1, failed[len(failed)-1].Attempts)
}

func TestConcurrentDispatchIsSafe(t *testing.T) {
	before := handled.Load()
	for i := 0; i < 20; i++ {
		go func() { _ = queue.Dispatch(countJob{Tag: "c"}) }()
	}
	waitFor(t, func() bool { return handled.Load() >= before+20 })
}
