// Package provider defines the capability interface a picker provider must
// implement to be driven by a session, plus the execution context handed to
// every hook call.
package provider

import (
	"github.com/dshills/pickstorm/internal/input/key"
)

// Provider is the capability set a session drives. Implementations hold the
// actual matching/filtering logic; the session layer only sequences hook
// calls and never inspects results beyond the returned error.
//
// All hooks run on the session's own goroutine, one at a time. A hook error
// is logged by the session and never stops the event loop.
type Provider interface {
	// OnInitialize runs once right after registration, before any other
	// hook. Providers typically start source loading here and set the
	// context's source scale.
	OnInitialize(ctx *Context) error

	// OnMove handles a selection/cursor move, typically refreshing the
	// preview.
	OnMove(ctx *Context) error

	// OnTyped handles a query line change.
	OnTyped(ctx *Context) error

	// OnKeyEvent handles a forwarded key press. Key events are never
	// debounced.
	OnKeyEvent(ctx *Context, ev key.Event) error

	// OnTerminate runs at most once, when the session receives a
	// Terminate or Exit signal. It must not block for long; the session
	// goroutine exits right after it returns.
	OnTerminate(ctx *Context, sessionID uint64)
}

// SourceScale categorizes how large a provider's source is. The session
// uses it only to pick the typed debounce delay.
type SourceScale interface {
	sourceScale()
}

// ScaleUnknown means the source has not reported its size yet.
type ScaleUnknown struct{}

// ScaleSmall is a fully loaded in-memory source with a known total.
type ScaleSmall struct {
	Total int
}

// ScaleCached is a source with a known total backed by a cache file rather
// than memory.
type ScaleCached struct {
	Total int
	Path  string
}

// ScaleUnbounded is a streaming source with no known total.
type ScaleUnbounded struct{}

func (ScaleUnknown) sourceScale()   {}
func (ScaleSmall) sourceScale()     {}
func (ScaleCached) sourceScale()    {}
func (ScaleUnbounded) sourceScale() {}
