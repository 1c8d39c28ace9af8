package provider

import "sync"

// Env holds per-session environment settings fixed at registration time.
type Env struct {
	// Debounce selects the session's operating mode: coalesced move/typed
	// handling behind timers, or immediate hook invocation per event.
	Debounce bool
}

// InputRecorder appends a query line to the provider's input history.
// Recording is best effort; failures never surface to the user.
type InputRecorder interface {
	RecordInput(query string) error
}

// Context is the execution context passed by pointer into every hook call.
// The transport mutates the query as the user types; providers mutate the
// source scale once loading completes. Access is guarded so the session
// goroutine and the transport can touch it without coordination.
type Context struct {
	providerID string
	env        Env

	mu       sync.RWMutex
	query    string
	source   SourceScale
	recorder InputRecorder
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithDebounce sets the session's debounce mode.
func WithDebounce(debounce bool) ContextOption {
	return func(c *Context) {
		c.env.Debounce = debounce
	}
}

// WithRecorder sets the input history recorder.
func WithRecorder(r InputRecorder) ContextOption {
	return func(c *Context) {
		c.recorder = r
	}
}

// WithSource sets the initial source scale.
func WithSource(s SourceScale) ContextOption {
	return func(c *Context) {
		c.source = s
	}
}

// NewContext creates an execution context for the named provider.
func NewContext(providerID string, opts ...ContextOption) *Context {
	c := &Context{
		providerID: providerID,
		env:        Env{Debounce: true},
		source:     ScaleUnknown{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProviderID returns the provider's registered name, e.g. "files".
func (c *Context) ProviderID() string {
	return c.providerID
}

// Env returns the session environment.
func (c *Context) Env() Env {
	return c.env
}

// Query returns the current query line.
func (c *Context) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// SetQuery replaces the current query line.
func (c *Context) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Source returns the current source scale.
func (c *Context) Source() SourceScale {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// SetSource replaces the source scale. Providers call this from
// OnInitialize once the total is known.
func (c *Context) SetSource(s SourceScale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = s
}

// RecordInput appends the current query to the input history, if a recorder
// is configured.
func (c *Context) RecordInput() error {
	c.mu.RLock()
	recorder := c.recorder
	query := c.query
	c.mu.RUnlock()

	if recorder == nil {
		return nil
	}
	return recorder.RecordInput(query)
}
