package session

import (
	"github.com/dshills/pickstorm/internal/input/key"
	"github.com/dshills/pickstorm/internal/plugin"
)

// ProviderEvent is a discriminated payload delivered to a provider session.
// The set is closed; each variant is a small value type.
type ProviderEvent interface {
	providerEvent()
	String() string
}

// NewSession is never valid once a session is running. Receiving it inside
// an event loop is a contract violation and panics.
type NewSession struct{}

// Initialize is the internal lifecycle signal sent exactly once right after
// registration.
type Initialize struct{}

// Terminate is the internal signal used when a new provider supersedes the
// running one.
type Terminate struct{}

// Exit is the external close request.
type Exit struct{}

// OnMove signals a selection/cursor move.
type OnMove struct{}

// OnTyped signals a query line change.
type OnTyped struct{}

// Key carries a key press forwarded to the provider.
type Key struct {
	Event key.Event
}

func (NewSession) providerEvent() {}
func (Initialize) providerEvent() {}
func (Terminate) providerEvent()  {}
func (Exit) providerEvent()       {}
func (OnMove) providerEvent()     {}
func (OnTyped) providerEvent()    {}
func (Key) providerEvent()        {}

func (NewSession) String() string { return "NewSession" }
func (Initialize) String() string { return "Initialize" }
func (Terminate) String() string  { return "Terminate" }
func (Exit) String() string       { return "Exit" }
func (OnMove) String() string     { return "OnMove" }
func (OnTyped) String() string    { return "OnTyped" }
func (k Key) String() string      { return "Key(" + k.Event.String() + ")" }

// PluginEvent is a discriminated payload delivered to every plugin session.
// Autocmd is currently the only variant. Values must stay cloneable by
// plain copy; fan-out delivers one copy per plugin session.
type PluginEvent interface {
	pluginEvent()
	String() string
}

// Autocmd carries an editor autocmd notification.
type Autocmd struct {
	Event plugin.AutocmdEvent
}

func (Autocmd) pluginEvent() {}

func (a Autocmd) String() string { return "Autocmd(" + a.Event.Type + ")" }
