package session

import (
	"context"
	"sync"
)

// State is where an operation is in its lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of a track's state at one point in time.
// Value is set only in Success and Err only in Failed.
type Snapshot[T any] struct {
	State      State
	Value      T
	Err        error
	Generation uint64
}

// Track holds the latest result of one operation.
// Each Begin starts a new generation; completions from older generations are dropped.
type Track[T any] struct {
	mu    sync.Mutex
	gen   uint64
	state State
	value T
	err   error
}

// Begin moves the track to Pending and returns the new generation.
func (t *Track[T]) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	t.gen++
	t.state = Pending
	t.value = zero
	t.err = nil
	return t.gen
}

// Complete records the outcome of generation gen.
// It reports false, changing nothing, when gen has been superseded.
func (t *Track[T]) Complete(gen uint64, value T, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return false
	}
	if err != nil {
		var zero T
		t.state = Failed
		t.value = zero
		t.err = err
		return true
	}
	t.state = Success
	t.value = value
	t.err = nil
	return true
}

// Snapshot returns the current state.
func (t *Track[T]) Snapshot() Snapshot[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot[T]{State: t.state, Value: t.value, Err: t.err, Generation: t.gen}
}

// Run begins a generation, calls fn and records its outcome if still current.
// It returns the track's state after fn returns.
func (t *Track[T]) Run(ctx context.Context, fn func(ctx context.Context) (T, error)) Snapshot[T] {
	gen := t.Begin()
	value, err := fn(ctx)
	t.Complete(gen, value, err)
	return t.Snapshot()
}
