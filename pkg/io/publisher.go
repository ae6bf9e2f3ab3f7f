package io

import "sync"

// Publisher fans values out to subscribers of a key. Slow subscribers
// miss values instead of blocking the publisher.
type Publisher[T any] struct {
	mu     sync.RWMutex
	subs   map[string]map[chan T]struct{}
	buffer int
}

func NewPublisher[T any](buffer int) *Publisher[T] {
	if buffer <= 0 {
		buffer = 1
	}
	return &Publisher[T]{
		subs:   make(map[string]map[chan T]struct{}),
		buffer: buffer,
	}
}

// Subscribe returns a channel of values published under key and a cancel
// func that closes it. Cancel is safe to call more than once.
func (p *Publisher[T]) Subscribe(key string) (<-chan T, func()) {
	ch := make(chan T, p.buffer)

	p.mu.Lock()
	if p.subs[key] == nil {
		p.subs[key] = make(map[chan T]struct{})
	}
	p.subs[key][ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if set := p.subs[key]; set != nil {
				delete(set, ch)
				if len(set) == 0 {
					delete(p.subs, key)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish returns how many subscribers received v.
func (p *Publisher[T]) Publish(key string, v T) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	delivered := 0
	for ch := range p.subs[key] {
		select {
		case ch <- v:
			delivered++
		default:
		}
	}
	return delivered
}

func (p *Publisher[T]) Subscribers(key string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs[key])
}
