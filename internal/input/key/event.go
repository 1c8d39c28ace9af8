package key

import "strings"

// Event represents a single key press forwarded to a provider session.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// String returns the wire-style name, e.g. "tab", "ctrl-n", "shift-up".
func (e Event) String() string {
	var parts []string

	if e.Modifiers.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if e.Modifiers.Has(ModShift) && !e.IsRune() {
		parts = append(parts, "shift")
	}
	if e.Modifiers.Has(ModAlt) {
		parts = append(parts, "alt")
	}

	var name string
	switch e.Key {
	case KeyRune:
		name = string(e.Rune)
	case KeyEnter:
		name = "cr"
	case KeyEscape:
		name = "esc"
	case KeyPageUp:
		name = "pgup"
	case KeyPageDown:
		name = "pgdown"
	default:
		name = strings.ToLower(e.Key.String())
	}

	parts = append(parts, name)
	return strings.Join(parts, "-")
}

// Equals returns true if two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}
