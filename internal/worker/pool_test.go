package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testPool(workers int) *Pool {
	return NewPool(workers, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPool_EmptyBatch(t *testing.T) {
	results := testPool(4).Run(context.Background(), nil, func(ctx context.Context, id string) (string, error) {
		t.Fatal("op should not run")
		return "", nil
	})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestPool_ResultsInInputOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	delays := map[string]time.Duration{"a": 30 * time.Millisecond, "c": 10 * time.Millisecond}

	results := testPool(3).Run(context.Background(), ids, func(ctx context.Context, id string) (string, error) {
		time.Sleep(delays[id])
		return "ok " + id, nil
	})

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	for i, r := range results {
		if r.ID != ids[i] || r.Status != StatusDone || r.Detail != "ok "+ids[i] {
			t.Errorf("result %d: unexpected %+v", i, r)
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8"}

	testPool(2).Run(context.Background(), ids, func(ctx context.Context, id string) (string, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return "", nil
	})

	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 in flight, saw %d", peak.Load())
	}
}

func TestPool_FailuresAreIndependent(t *testing.T) {
	boom := errors.New("boom")
	results := testPool(4).Run(context.Background(), []string{"ok1", "bad", "ok2"}, func(ctx context.Context, id string) (string, error) {
		if id == "bad" {
			return "", boom
		}
		return "", nil
	})

	if results[0].Status != StatusDone || results[2].Status != StatusDone {
		t.Errorf("good items should succeed: %+v", results)
	}
	if results[1].Status != StatusFailed || !errors.Is(results[1].Err, boom) {
		t.Errorf("expected bad item failed with boom, got %+v", results[1])
	}
	if Failed(results) != 1 {
		t.Errorf("expected 1 failure, got %d", Failed(results))
	}
}

func TestPool_SkipsBlankAndDuplicates(t *testing.T) {
	var calls atomic.Int32
	results := testPool(1).Run(context.Background(), []string{"a", "", "a"}, func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return "", nil
	})

	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
	if results[1].Status != StatusSkipped || results[2].Status != StatusSkipped {
		t.Errorf("expected blank and duplicate skipped, got %+v", results)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := testPool(2).Run(ctx, []string{"a", "b"}, func(ctx context.Context, id string) (string, error) {
		t.Fatal("op should not run after cancellation")
		return "", nil
	})
	for _, r := range results {
		if r.Status != StatusFailed || !errors.Is(r.Err, context.Canceled) {
			t.Errorf("expected cancelled failure, got %+v", r)
		}
	}
}
