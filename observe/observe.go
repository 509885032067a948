// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package observe provides observable values with explicit
// subscriptions.
package observe

// Subscription is the registration of one listener. Unsubscribe
// removes it; calling it more than once is a no-op.
type Subscription struct {
	remove func()
}

// Unsubscribe stops calls to the listener.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.remove == nil {
		return
	}
	s.remove()
	s.remove = nil
}

type listener[T any] struct {
	id  uint64
	fun func(old, cur T)
}

// Value is a cell holding a value of type T that calls its listeners
// whenever the value changes. The zero Value holds the zero T.
type Value[T comparable] struct {
	value     T
	listeners []listener[T]
	nextID    uint64
}

// NewValue returns a new [Value] holding v.
func NewValue[T comparable](v T) *Value[T] {
	return &Value[T]{value: v}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Set sets the value and calls the listeners, in the order they were
// added, if it changed. It reports whether the value changed.
func (v *Value[T]) Set(val T) bool {
	if val == v.value {
		return false
	}
	old := v.value
	v.value = val
	// listeners may unsubscribe while being called
	ls := append([]listener[T](nil), v.listeners...)
	for _, l := range ls {
		l.fun(old, val)
	}
	return true
}

// Subscribe adds a listener called with the old and the new value on
// every change.
func (v *Value[T]) Subscribe(fun func(old, cur T)) *Subscription {
	v.nextID++
	id := v.nextID
	v.listeners = append(v.listeners, listener[T]{id: id, fun: fun})
	return &Subscription{remove: func() {
		for i, l := range v.listeners {
			if l.id == id {
				// copy so that no reference to the function is kept
				copy(v.listeners[i:], v.listeners[i+1:])
				v.listeners[len(v.listeners)-1] = listener[T]{}
				v.listeners = v.listeners[:len(v.listeners)-1]
				return
			}
		}
	}}
}

// Listeners returns the number of listeners.
func (v *Value[T]) Listeners() int {
	return len(v.listeners)
}

// Bag collects subscriptions to release them together, typically when
// their owner is destroyed.
type Bag []*Subscription

// Add adds the subscription to the bag.
func (b *Bag) Add(s *Subscription) {
	*b = append(*b, s)
}

// Release unsubscribes every subscription and empties the bag.
func (b *Bag) Release() {
	for _, s := range *b {
		s.Unsubscribe()
	}
	*b = nil
}
