package queue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DMarby/photo-strip/internal/queue"
)

type handlerFunc func(ctx context.Context, data interface{}) (interface{}, error)

func setupQueue(t *testing.T, workers int, f handlerFunc) (*queue.Queue, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	q := queue.New(ctx, workers, f)
	go q.Run()
	t.Cleanup(cancel)
	return q, cancel
}

func TestProcess(t *testing.T) {
	q, _ := setupQueue(t, 2, func(ctx context.Context, data interface{}) (interface{}, error) {
		n, _ := data.(int)
		if n < 0 {
			return nil, fmt.Errorf("negative photo count %d", n)
		}
		return n * 2, nil
	})

	tests := []struct {
		Name          string
		Data          int
		Expected      interface{}
		ExpectedError string
	}{
		{"result", 3, 6, ""},
		{"error", -1, nil, "negative photo count -1"},
	}

	for _, test := range tests {
		result, err := q.Process(context.Background(), test.Data)
		if test.ExpectedError != "" {
			if err == nil || err.Error() != test.ExpectedError {
				t.Errorf("%s: wrong error %v", test.Name, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if result != test.Expected {
			t.Errorf("%s: wrong result %#v", test.Name, result)
		}
	}
}

func TestShutdown(t *testing.T) {
	q, cancel := setupQueue(t, 1, func(ctx context.Context, data interface{}) (interface{}, error) {
		return nil, nil
	})

	cancel()

	_, err := q.Process(context.Background(), "strip")
	if err == nil || err.Error() != "queue has been shutdown" {
		t.Errorf("wrong error %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	q, _ := setupQueue(t, 1, func(ctx context.Context, data interface{}) (interface{}, error) {
		return nil, fmt.Errorf("handler should not run")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Process(ctx, "strip"); !errors.Is(err, context.Canceled) {
		t.Errorf("wrong error %v", err)
	}
}

func TestWorkerLimit(t *testing.T) {
	const workers = 2

	var running, peak int32
	release := make(chan struct{})

	q, _ := setupQueue(t, workers, func(ctx context.Context, data interface{}) (interface{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}

		<-release
		atomic.AddInt32(&running, -1)
		return data, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := q.Process(context.Background(), i); err != nil {
				t.Error(err)
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if peak > workers {
		t.Errorf("%d jobs ran at once with %d workers", peak, workers)
	}
}

func TestAbandonedJob(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	q, _ := setupQueue(t, 1, func(ctx context.Context, data interface{}) (interface{}, error) {
		if data == "slow" {
			close(started)
			<-release
		}
		return data, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := q.Process(ctx, "slow")
		done <- err
	}()

	<-started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("wrong error %v", err)
	}

	// The worker finishes the abandoned job and keeps serving
	close(release)

	result, err := q.Process(context.Background(), "next")
	if err != nil {
		t.Fatal(err)
	}

	if result != "next" {
		t.Errorf("wrong result %#v", result)
	}
}
