// Package plugin defines the capability interface an editor plugin must
// implement to be driven by a plugin session, plus the autocmd notification
// payload delivered to it.
package plugin

import (
	"github.com/tidwall/gjson"
)

// Plugin reacts to editor autocmd notifications. Implementations run their
// business logic on the plugin session's goroutine; an error is logged by
// the session and never stops the event loop.
type Plugin interface {
	OnAutocmd(ev AutocmdEvent) error
}

// AutocmdEvent is an editor notification, e.g. a CursorMoved or BufEnter
// fired on the editor side. Params carries the raw JSON arguments of the
// notification and is shared across fan-out copies; treat it as read-only.
type AutocmdEvent struct {
	// Type is the autocmd name, e.g. "CursorMoved".
	Type string

	// Params is the raw JSON parameter payload. May be empty.
	Params []byte
}

// NewAutocmdEvent creates an autocmd notification.
func NewAutocmdEvent(typ string, params []byte) AutocmdEvent {
	return AutocmdEvent{Type: typ, Params: params}
}

// Param extracts a value from the JSON params by gjson path, e.g. "bufnr"
// or "pos.0".
func (e AutocmdEvent) Param(path string) gjson.Result {
	return gjson.GetBytes(e.Params, path)
}

// HasParams returns true if the event carries a parameter payload.
func (e AutocmdEvent) HasParams() bool {
	return len(e.Params) > 0
}

// String returns the autocmd name for logging.
func (e AutocmdEvent) String() string {
	return e.Type
}
