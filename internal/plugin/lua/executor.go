package lua

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	glua "github.com/yuin/gopher-lua"
)

// call is one Lua operation queued for the owner goroutine.
type call struct {
	fn     func(L *glua.LState) error
	result chan error
}

// Executor serializes all access to one Lua state. gopher-lua's LState is
// not goroutine-safe, so the executor owns it on a dedicated goroutine and
// marshals operations to it through a channel. The state is closed when the
// executor closes.
type Executor struct {
	queue  chan *call
	done   chan struct{}
	closed atomic.Bool

	// sending counts Execute calls between their closed check and the
	// enqueue resolving, so the close-time drain cannot run before a
	// racing send lands in the queue.
	sending sync.WaitGroup

	closeOnce sync.Once
}

// NewExecutor creates an executor owning a fresh Lua state.
func NewExecutor() *Executor {
	e := &Executor{
		queue: make(chan *call, 64),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// run is the owner goroutine. All LState operations happen here.
func (e *Executor) run() {
	L := glua.NewState()
	defer L.Close()

	for {
		select {
		case <-e.done:
			e.sending.Wait()
			e.drain()
			return
		case c := <-e.queue:
			err := e.execute(L, c.fn)
			select {
			case c.result <- err:
			default:
			}
			close(c.result)
		}
	}
}

// execute runs one operation with panic recovery.
func (e *Executor) execute(L *glua.LState, fn func(*glua.LState) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = errors.New("lua panic")
			}
		}
	}()
	return fn(L)
}

// drain fails any queued operations after close.
func (e *Executor) drain() {
	for {
		select {
		case c := <-e.queue:
			select {
			case c.result <- ErrExecutorClosed:
			default:
			}
			close(c.result)
		default:
			return
		}
	}
}

// Execute runs fn on the owner goroutine and waits for it to complete or
// for ctx to end. fn receives the executor's LState and must not retain it.
func (e *Executor) Execute(ctx context.Context, fn func(L *glua.LState) error) error {
	if e.closed.Load() {
		return ErrExecutorClosed
	}

	c := &call{
		fn:     fn,
		result: make(chan error, 1),
	}

	e.sending.Add(1)
	if e.closed.Load() {
		// Close won the race; the drain may already be past. Back out
		// before enqueueing so the call cannot be stranded.
		e.sending.Done()
		return ErrExecutorClosed
	}

	select {
	case <-ctx.Done():
		e.sending.Done()
		return ctx.Err()
	case <-e.done:
		e.sending.Done()
		return ErrExecutorClosed
	case e.queue <- c:
		e.sending.Done()
	}

	select {
	case <-ctx.Done():
		// The call stays queued and will run; we stop waiting on it.
		return ctx.Err()
	case err, ok := <-c.result:
		if !ok {
			return ErrExecutorClosed
		}
		return err
	}
}

// Close stops the executor and closes the Lua state. Idempotent.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
}

// IsClosed returns true once Close has been called.
func (e *Executor) IsClosed() bool {
	return e.closed.Load()
}
