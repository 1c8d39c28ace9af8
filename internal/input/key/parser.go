package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// specialNames maps wire names to keys. These are the names the editor side
// sends for picker keys.
var specialNames = map[string]Key{
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"cr":        KeyEnter,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pgup":      KeyPageUp,
	"pageup":    KeyPageUp,
	"pgdown":    KeyPageDown,
	"pagedown":  KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// Parse parses a wire-style key name into an Event.
//
// Supported forms:
//   - single characters: "a", "/", "1"
//   - special keys: "tab", "cr", "backspace", "up", "pgdown"
//   - with modifiers: "ctrl-n", "shift-up", "ctrl-shift-p", "alt-x"
//
// Names are case-insensitive. Unknown names are errors; the transport
// decides how to degrade.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// A bare "-" is the hyphen character, not an empty modifier chain.
	if spec == "-" {
		return NewRuneEvent('-', ModNone), nil
	}

	parts := strings.Split(strings.ToLower(spec), "-")
	keyPart := parts[len(parts)-1]

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "c":
			mods = mods.With(ModCtrl)
		case "shift", "s":
			mods = mods.With(ModShift)
		case "alt", "a":
			mods = mods.With(ModAlt)
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	if k, ok := specialNames[keyPart]; ok {
		return NewSpecialEvent(k, mods), nil
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return NewRuneEvent(r, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}
