// refreshgroup/group.go

/* Package refreshgroup coordinates credential refreshes so that at most one is in flight.

The first caller to Join while no refresh is running becomes the leader of a new cycle
and must call Settle exactly once. Every caller that joins before Settle becomes a waiter
of that cycle. Settle resumes all participants of the cycle, leader included, in the
order they joined, and each participant receives the outcome exactly once. A caller
joining after Settle starts a new, independent cycle. */
package refreshgroup

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotRefreshing is returned by Settle when no cycle is open.
var ErrNotRefreshing = errors.New("refreshgroup: settle called with no refresh in flight")

// Result is the outcome of one refresh cycle.
type Result struct {
	Credential string
	Err        error
}

// Group holds the refreshing flag and the ordered waiters of the open cycle.
// The zero value is ready to use. A Group must not be copied after first use.
type Group struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan Result
	cycles     uint64
}

// Join registers the caller with the current cycle, opening one if none is in flight.
// leader is true for the caller that opened the cycle; that caller is responsible for
// performing the refresh and calling Settle. The returned channel delivers the cycle's
// Result exactly once, and never blocks the settling goroutine.
func (g *Group) Join() (wait <-chan Result, leader bool) {
	ch := make(chan Result, 1)

	g.mu.Lock()
	defer g.mu.Unlock()

	leader = !g.refreshing
	g.refreshing = true
	g.waiters = append(g.waiters, ch)

	return ch, leader
}

// Settle closes the open cycle with r and resumes its participants in join order.
// It returns the number of participants resumed.
func (g *Group) Settle(r Result) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.refreshing {
		return 0, ErrNotRefreshing
	}

	waiters := g.waiters
	g.waiters = nil
	g.refreshing = false
	g.cycles++

	for _, ch := range waiters {
		ch <- r
	}

	return len(waiters), nil
}

// Do performs fn at most once per cycle and returns the cycle's outcome.
// The leader runs fn and settles the cycle with its result; other callers wait for it.
// A waiter whose ctx ends first gives up with ctx.Err() without affecting the cycle.
// If fn panics the cycle is settled with an error before the panic propagates, so no
// waiter is left suspended.
func (g *Group) Do(ctx context.Context, fn func() (string, error)) (string, error) {
	wait, leader := g.Join()

	if leader {
		g.lead(fn)
		r := <-wait
		return r.Credential, r.Err
	}

	select {
	case r := <-wait:
		return r.Credential, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *Group) lead(fn func() (string, error)) {
	settled := false
	defer func() {
		if settled {
			return
		}
		p := recover()
		_, _ = g.Settle(Result{Err: fmt.Errorf("refreshgroup: refresh panicked: %v", p)})
		panic(p)
	}()

	credential, err := fn()
	settled = true
	_, _ = g.Settle(Result{Credential: credential, Err: err})
}

// Refreshing reports whether a cycle is open.
func (g *Group) Refreshing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshing
}

// Pending returns the number of participants, leader included, in the open cycle.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiters)
}

// Cycles returns the number of cycles settled so far.
func (g *Group) Cycles() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cycles
}
