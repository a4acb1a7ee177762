package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docJob stands in for formatting one document.
type docJob struct {
	path  string
	delay time.Duration
	fail  bool
	calls *int32
}

func (j *docJob) Name() string { return j.path }

func (j *docJob) Execute(ctx context.Context) error {
	if j.calls != nil {
		atomic.AddInt32(j.calls, 1)
	}
	select {
	case <-time.After(j.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	if j.fail {
		return fmt.Errorf("%s: invalid document", j.path)
	}
	return nil
}

func TestNewPool(t *testing.T) {
	for _, tc := range []struct{ size, want int }{{5, 5}, {0, 1}, {-1, 1}} {
		assert.Equal(t, tc.want, NewPool(context.Background(), tc.size).size)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var calls int32
	const count = 25
	for i := range count {
		pool.Submit(&docJob{path: fmt.Sprintf("doc%02d.docx", i), calls: &calls})
	}

	results := pool.Wait()
	require.Len(t, results, count)
	assert.Equal(t, int32(count), atomic.LoadInt32(&calls))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("doc%02d.docx", i), r.Name)
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 4
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current, maxSeen int32
	var mu sync.Mutex
	for i := 0; i < 20; i++ {
		pool.Submit(Func{ID: "job", Fn: func(context.Context) error {
			n := atomic.AddInt32(&current, 1)
			mu.Lock()
			if n > maxSeen {
				maxSeen = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		}})
	}

	require.Len(t, pool.Wait(), 20)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxSeen, int32(workers))
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&docJob{path: "bad.docx", delay: time.Millisecond, fail: true})
	pool.Submit(&docJob{path: "good.docx"})

	results := pool.Wait()
	require.Len(t, results, 2)
	assert.EqualError(t, results[0].Err, "bad.docx: invalid document")
	assert.NoError(t, results[1].Err)
	assert.Len(t, Failed(results), 1)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&docJob{path: "late.docx"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ShutdownCancelsRunningJob(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	started := make(chan struct{})
	var err atomic.Value
	pool.Submit(Func{ID: "slow", Fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		err.Store(ctx.Err())
		return ctx.Err()
	}})
	<-started

	finished := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Shutdown timed out")
	}
	assert.ErrorIs(t, err.Load().(error), context.Canceled)
}

func TestResultCollector_Empty(t *testing.T) {
	assert.Equal(t, []Result{}, NewResultCollector().Results())
}

func TestResultCollector_Ordered(t *testing.T) {
	c := NewResultCollector()
	c.Add(Result{Index: 2})
	c.Add(Result{Index: 0})
	c.Add(Result{Index: 1, Err: errors.New("err")})

	res := c.Results()
	require.Len(t, res, 3)
	for i, r := range res {
		assert.Equal(t, i, r.Index)
	}
}
