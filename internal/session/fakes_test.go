package session

import (
	"sync"
	"testing"
	"time"

	"github.com/dshills/pickstorm/internal/input/key"
	"github.com/dshills/pickstorm/internal/plugin"
	"github.com/dshills/pickstorm/internal/provider"
)

// fakeProvider records hook invocations and signals each one on notify.
type fakeProvider struct {
	mu           sync.Mutex
	calls        []string
	typedQueries []string
	terminateIDs []uint64

	initErr  error
	moveErr  error
	typedErr error
	keyErr   error

	// initSource, when set, is written to the context during OnInitialize
	// the way a real provider reports its scale after loading.
	initSource provider.SourceScale

	notify chan string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{notify: make(chan string, 256)}
}

func (f *fakeProvider) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	select {
	case f.notify <- name:
	default:
	}
}

func (f *fakeProvider) OnInitialize(ctx *provider.Context) error {
	if f.initSource != nil {
		ctx.SetSource(f.initSource)
	}
	f.record("initialize")
	return f.initErr
}

func (f *fakeProvider) OnMove(ctx *provider.Context) error {
	f.record("move")
	return f.moveErr
}

func (f *fakeProvider) OnTyped(ctx *provider.Context) error {
	f.mu.Lock()
	f.typedQueries = append(f.typedQueries, ctx.Query())
	f.mu.Unlock()
	f.record("typed")
	return f.typedErr
}

func (f *fakeProvider) OnKeyEvent(ctx *provider.Context, ev key.Event) error {
	f.record("key:" + ev.String())
	return f.keyErr
}

func (f *fakeProvider) OnTerminate(ctx *provider.Context, sessionID uint64) {
	f.mu.Lock()
	f.terminateIDs = append(f.terminateIDs, sessionID)
	f.mu.Unlock()
	f.record("terminate")
}

func (f *fakeProvider) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeProvider) count(name string) int {
	n := 0
	for _, c := range f.callNames() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeProvider) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.typedQueries))
	copy(out, f.typedQueries)
	return out
}

func (f *fakeProvider) terminated() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.terminateIDs))
	copy(out, f.terminateIDs)
	return out
}

// waitFor blocks until the named hook call is signaled or the deadline
// passes. Intervening calls of other names are consumed.
func (f *fakeProvider) waitFor(t *testing.T, name string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-f.notify:
			if got == name {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q call, saw %v", name, f.callNames())
		}
	}
}

// fakePlugin records autocmd deliveries.
type fakePlugin struct {
	mu     sync.Mutex
	events []plugin.AutocmdEvent
	err    error
	notify chan string
}

func newFakePlugin() *fakePlugin {
	return &fakePlugin{notify: make(chan string, 64)}
}

func (f *fakePlugin) OnAutocmd(ev plugin.AutocmdEvent) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()

	select {
	case f.notify <- ev.Type:
	default:
	}
	return f.err
}

func (f *fakePlugin) received() []plugin.AutocmdEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]plugin.AutocmdEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakePlugin) waitFor(t *testing.T, typ string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-f.notify:
			if got == typ {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for autocmd %q", typ)
		}
	}
}

// countingRecorder implements provider.InputRecorder.
type countingRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *countingRecorder) RecordInput(query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	return nil
}

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}
