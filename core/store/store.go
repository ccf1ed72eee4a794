// Package store is a small state container: state changes only through Dispatch, which runs a
// pure reducer and then notifies subscribers with the new state.
package store

import (
	"slices"
	"sync"
)

// Action is any message a reducer understands. Reducers ignore actions they do not know.
type Action = interface{}

// Reducer returns the next state. It must not mutate prev.
type Reducer[S any] func(prev S, action Action) S

// Listener is notified after every dispatch, outside the store lock.
type Listener[S any] func(state S, action Action)

type subscription[S any] struct {
	id int
	fn Listener[S]
}

type Store[S any] struct {
	mu     sync.Mutex
	state  S
	reduce Reducer[S]
	// in subscription order
	listeners []subscription[S]
	nextID    int
}

func New[S any](initial S, reduce Reducer[S]) *Store[S] {
	return &Store[S]{state: initial, reduce: reduce}
}

// State returns the current state value.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and returns the resulting state.
func (s *Store[S]) Dispatch(action Action) S {
	s.mu.Lock()
	s.state = s.reduce(s.state, action)
	next := s.state
	listeners := make([]subscription[S], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(next, action)
	}
	return next
}

// Subscribe registers fn and returns a function that removes it. Listeners are notified in
// the order they subscribed.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription[S]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l subscription[S]) bool { return l.id == id })
	}
}
