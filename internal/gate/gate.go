// Package gate decides whether an identity may start a ranked run.
package gate

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Gate admits or rejects a run before it starts. A false result or an error
// means the run never starts.
type Gate interface {
	RequestEntry(ctx context.Context, identity string) (bool, error)
}

// Func adapts a function to Gate.
type Func func(ctx context.Context, identity string) (bool, error)

// RequestEntry implements Gate.
func (f Func) RequestEntry(ctx context.Context, identity string) (bool, error) {
	return f(ctx, identity)
}

// Free admits every request.
type Free struct{}

// RequestEntry implements Gate.
func (Free) RequestEntry(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Confirm admits a request once the user answers the entry prompt. An answer
// only reaches a request that is already waiting; answers given with no
// pending request are dropped.
type Confirm struct {
	Prompt string

	mu      sync.Mutex
	waiting chan bool
}

// NewConfirm returns a Confirm gate with the given prompt.
func NewConfirm(prompt string) *Confirm {
	return &Confirm{Prompt: prompt}
}

// Waiting reports whether a RequestEntry call is waiting for an answer.
func (c *Confirm) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting != nil
}

// Answer delivers the user's decision to the pending RequestEntry. It reports
// whether a request took the answer. Each request takes at most one answer.
func (c *Confirm) Answer(ok bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiting == nil {
		return false
	}
	c.waiting <- ok
	c.waiting = nil
	return true
}

// RequestEntry implements Gate. It blocks until Answer is called or ctx ends.
func (c *Confirm) RequestEntry(ctx context.Context, identity string) (bool, error) {
	if strings.TrimSpace(identity) == "" {
		return false, fmt.Errorf("no identity to charge the entry to")
	}
	ch := make(chan bool, 1)
	c.mu.Lock()
	c.waiting = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.waiting == ch {
			c.waiting = nil
		}
		c.mu.Unlock()
	}()

	select {
	case ok := <-ch:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Parse builds a gate from its config name.
func Parse(name, prompt string) (Gate, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "free":
		return Free{}, nil
	case "confirm":
		return NewConfirm(prompt), nil
	default:
		return nil, fmt.Errorf("unknown gate %q (expected free or confirm)", name)
	}
}
