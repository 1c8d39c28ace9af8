package session

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Queue.Send after the queue is closed. The
// supervisor treats it as the liveness signal for pruning dead sessions.
var ErrQueueClosed = errors.New("session queue closed")

// Queue is an unbounded multi-producer/single-consumer event queue. Send
// never blocks; a stalled consumer grows the buffer instead of stalling
// senders. Events come out strictly in send order.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	closed   bool
	disposed bool

	wake chan struct{}
	done chan struct{}
	out  chan T

	disposeOnce sync.Once
}

// NewQueue creates a queue and starts its delivery goroutine.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan T),
	}
	go q.pump()
	return q
}

// Send enqueues v without blocking. Returns ErrQueueClosed once the queue
// has been closed or disposed.
func (q *Queue[T]) Send(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Close stops further sends. Buffered events are still delivered; Out is
// closed after the last one is consumed. Idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

// dispose is the consumer-side teardown: further sends fail and buffered
// events are discarded. Used by session loops on explicit termination so a
// reader-less queue never strands its delivery goroutine.
func (q *Queue[T]) dispose() {
	q.disposeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.disposed = true
		q.items = nil
		q.mu.Unlock()
		close(q.done)
	})
}

// Out returns the receive side. The channel is closed after Close once all
// buffered events have been delivered.
func (q *Queue[T]) Out() <-chan T {
	return q.out
}

// Len returns the number of buffered events not yet handed to the consumer.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue[T]) pump() {
	for {
		q.mu.Lock()
		for len(q.items) == 0 {
			closed, disposed := q.closed, q.disposed
			q.mu.Unlock()
			if disposed {
				return
			}
			if closed {
				close(q.out)
				return
			}
			select {
			case <-q.wake:
			case <-q.done:
			}
			q.mu.Lock()
		}
		v := q.items[0]
		q.items[0] = *new(T)
		q.items = q.items[1:]
		q.mu.Unlock()

		select {
		case q.out <- v:
		case <-q.done:
			return
		}
	}
}
