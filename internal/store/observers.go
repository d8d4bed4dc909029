// Package store holds the per-session state containers: the cart and the
// signed-in account with its order history.
package store

import "sync"

// listeners keeps subscribers in subscription order.
type listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) notify(v T) {
	l.mu.Lock()
	subs := make([]subscriber[T], len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()
	for _, s := range subs {
		s.fn(v)
	}
}
