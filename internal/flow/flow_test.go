package flow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSelectionToggle(t *testing.T) {
	s := None()
	if s.IsActive() {
		t.Fatal("None() should not be active")
	}

	s = s.Toggle(3)
	if !s.Is(3) {
		t.Fatalf("after Toggle(3) got %s, want active(3)", s)
	}

	s = s.Toggle(5)
	if !s.Is(5) {
		t.Fatalf("after Toggle(5) got %s, want active(5)", s)
	}

	s = s.Toggle(5)
	if s.IsActive() {
		t.Fatalf("after second Toggle(5) got %s, want none", s)
	}
}

func TestSelectionGenerationDetectsReactivation(t *testing.T) {
	first := None().Activate(7)
	again := first.Clear().Activate(7)

	if first == again {
		t.Error("reactivating the same id should produce a distinct selection")
	}
	if !again.Is(7) {
		t.Errorf("again = %s, want active(7)", again)
	}
}

func TestSelectionClearNoneUnchanged(t *testing.T) {
	s := None()
	if s.Clear() != s {
		t.Error("clearing an empty selection should be a no-op")
	}
}

func TestRunAppliesCommitsInOrder(t *testing.T) {
	var order []int
	slow := func(ctx context.Context) Commit {
		time.Sleep(20 * time.Millisecond)
		return func() { order = append(order, 1) }
	}
	fast := func(ctx context.Context) Commit {
		return func() { order = append(order, 2) }
	}

	Run(context.Background(), slow, fast)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestRunTasksOverlap(t *testing.T) {
	var inFlight, peak atomic.Int32
	task := func(ctx context.Context) Commit {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	Run(context.Background(), task, task, task)

	if peak.Load() < 2 {
		t.Errorf("peak concurrency = %d, want >= 2", peak.Load())
	}
}

func TestRunSkipsNil(t *testing.T) {
	called := false
	Run(context.Background(), nil, func(ctx context.Context) Commit {
		return func() { called = true }
	})
	if !called {
		t.Error("expected non-nil task to commit")
	}
}
