// Package flow splits engine operations into a synchronous state
// transition and an asynchronous I/O half.
//
// An operation mutates engine state immediately and returns zero or more
// Tasks. A Task performs the network calls and returns a Commit, which
// must be applied on the same goroutine that owns the engine. The terminal
// UI runs Tasks as Bubble Tea commands and applies Commits in Update;
// headless callers use Run.
package flow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Commit applies a Task's result to engine state.
type Commit func()

// Task performs the I/O half of an operation. It must not touch engine
// state directly; everything it needs is captured at dispatch.
type Task func(ctx context.Context) Commit

// Run executes tasks concurrently, waits for all of them and applies
// their commits in order on the calling goroutine.
func Run(ctx context.Context, tasks ...Task) {
	commits := make([]Commit, len(tasks))

	var g errgroup.Group
	for i, t := range tasks {
		if t == nil {
			continue
		}
		g.Go(func() error {
			commits[i] = t(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range commits {
		if c != nil {
			c()
		}
	}
}

// Noop is a Commit that does nothing.
func Noop() {}
