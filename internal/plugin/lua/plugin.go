// Package lua runs editor plugins written in Lua as plugin sessions.
//
// A script exposes a global on_autocmd(event, params) function; the
// adapter converts each autocmd notification's JSON params into a Lua
// table and calls it on a dedicated interpreter goroutine.
package lua

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/pickstorm/internal/plugin"
)

// DefaultCallTimeout bounds a single on_autocmd invocation.
const DefaultCallTimeout = 5 * time.Second

// Plugin adapts a Lua script to the plugin capability interface.
type Plugin struct {
	name    string
	exec    *Executor
	timeout time.Duration
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithCallTimeout bounds each on_autocmd call.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New loads a Lua script and returns a plugin ready to register. The
// script must define a global on_autocmd function.
func New(name, script string, opts ...Option) (*Plugin, error) {
	p := &Plugin{
		name:    name,
		exec:    NewExecutor(),
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.exec.Execute(ctx, func(L *glua.LState) error {
		if err := L.DoString(script); err != nil {
			return err
		}
		if _, ok := L.GetGlobal("on_autocmd").(*glua.LFunction); !ok {
			return ErrNoHandler
		}
		return nil
	})
	if err != nil {
		p.exec.Close()
		return nil, fmt.Errorf("loading lua plugin %s: %w", name, err)
	}

	return p, nil
}

// NewFromFile loads a plugin script from disk.
func NewFromFile(name, path string, opts ...Option) (*Plugin, error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lua plugin %s: %w", path, err)
	}
	return New(name, string(script), opts...)
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// OnAutocmd calls the script's on_autocmd(event, params) with the
// notification's params as a Lua table.
func (p *Plugin) OnAutocmd(ev plugin.AutocmdEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.exec.Execute(ctx, func(L *glua.LState) error {
		fn := L.GetGlobal("on_autocmd")
		L.Push(fn)
		L.Push(glua.LString(ev.Type))
		L.Push(jsonToLua(L, gjson.ParseBytes(ev.Params)))
		return L.PCall(2, 0, nil)
	})
}

// Close shuts down the plugin's interpreter.
func (p *Plugin) Close() {
	p.exec.Close()
}

// jsonToLua converts a JSON value into the equivalent Lua value. Objects
// and arrays become tables; numbers are floats, matching Lua semantics.
func jsonToLua(L *glua.LState, r gjson.Result) glua.LValue {
	switch {
	case !r.Exists():
		return glua.LNil
	case r.IsObject():
		tbl := L.NewTable()
		r.ForEach(func(k, v gjson.Result) bool {
			tbl.RawSetString(k.String(), jsonToLua(L, v))
			return true
		})
		return tbl
	case r.IsArray():
		tbl := L.NewTable()
		for _, v := range r.Array() {
			tbl.Append(jsonToLua(L, v))
		}
		return tbl
	}

	switch r.Type {
	case gjson.String:
		return glua.LString(r.String())
	case gjson.Number:
		return glua.LNumber(r.Float())
	case gjson.True:
		return glua.LTrue
	case gjson.False:
		return glua.LFalse
	default:
		return glua.LNil
	}
}
