package irc

import "sync"

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners is an ordered observer list. Handlers run in subscription order on
// the goroutine that emits.
type listeners[T any] struct {
	mu    sync.Mutex
	next  uint64
	items []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	l.next++
	id := l.next
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, it := range l.items {
		if it.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) emit(v T) {
	l.mu.Lock()
	snapshot := make([]listener[T], len(l.items))
	copy(snapshot, l.items)
	l.mu.Unlock()

	for _, it := range snapshot {
		it.fn(v)
	}
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
