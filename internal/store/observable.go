package store

import (
	"sort"
	"sync"
)

// Action is a state transition understood by one or more reducers.
// Reducers ignore actions they do not know.
type Action interface {
	action()
}

// SetLoading flips the loading flag of a store
type SetLoading struct {
	Loading bool
}

// SetError records a failure message ("" clears it) and ends loading
type SetError struct {
	Message string
}

func (SetLoading) action() {}
func (SetError) action()   {}

// Observable holds one state value, applies reducers to it one at a time
// and notifies subscribers with every new state.
// A Dispatch made while subscribers are being notified (from a subscriber or
// another goroutine) is reduced immediately; its notification is queued and
// delivered, in dispatch order, once the current one has finished.
type Observable[S any] struct {
	mu       sync.Mutex
	state    S
	reducer  func(S, Action) S
	snapshot func(S) S

	subscribers map[int]func(S)
	nextID      int

	pending   []S
	notifying bool
}

// NewObservable creates an observable starting at initial.
// snapshot copies a state before it leaves the observable.
func NewObservable[S any](initial S, reducer func(S, Action) S, snapshot func(S) S) *Observable[S] {
	return &Observable[S]{
		state:       initial,
		reducer:     reducer,
		snapshot:    snapshot,
		subscribers: make(map[int]func(S)),
	}
}

// State returns a copy of the current state
func (o *Observable[S]) State() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot(o.state)
}

// Dispatch runs the reducer to completion, then notifies subscribers in dispatch order
// Logic:
//  1. Reduce under the lock and queue the new state
//  2. If another Dispatch is already notifying, return; it delivers the queued state
//  3. Otherwise drain the queue, calling listeners with the lock released
func (o *Observable[S]) Dispatch(action Action) S {
	o.mu.Lock()
	o.state = o.reducer(o.state, action)
	next := o.snapshot(o.state)
	o.pending = append(o.pending, next)
	if o.notifying {
		o.mu.Unlock()
		return o.snapshot(next)
	}
	o.notifying = true
	o.mu.Unlock()

	o.drain()
	return o.snapshot(next)
}

// Subscribe registers fn for every future state and returns a function that removes it
func (o *Observable[S]) Subscribe(fn func(S)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

// drain delivers queued states until none are left.
// A panicking subscriber drops the rest of the queue and frees the observable for the next Dispatch.
func (o *Observable[S]) drain() {
	finished := false
	defer func() {
		if !finished {
			o.mu.Lock()
			o.pending = nil
			o.notifying = false
			o.mu.Unlock()
		}
	}()

	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.notifying = false
			o.mu.Unlock()
			finished = true
			return
		}
		state := o.pending[0]
		o.pending = o.pending[1:]
		fns := o.listenersLocked()
		o.mu.Unlock()

		for _, fn := range fns {
			fn(o.snapshot(state))
		}
	}
}

// listenersLocked returns subscribers in subscription order; o.mu must be held
func (o *Observable[S]) listenersLocked() []func(S) {
	ids := make([]int, 0, len(o.subscribers))
	for id := range o.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids) // subscription order

	fns := make([]func(S), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.subscribers[id])
	}
	return fns
}

// errorMessage flattens an error into the store's error string
func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
