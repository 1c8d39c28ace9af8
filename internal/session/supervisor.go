package session

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/pickstorm/internal/log"
	"github.com/dshills/pickstorm/internal/plugin"
	"github.com/dshills/pickstorm/internal/provider"
)

// Supervisor is the process-scoped registry of live sessions. It enforces
// single-active-provider exclusivity and fans out plugin notifications.
//
// A plugin is a general service; a provider is a specialized plugin
// dedicated to interactive filtering. At most one provider session is live
// at any instant: registering a new provider supersedes every existing one.
//
// Supervisor operations run on the caller and only perform non-blocking
// sends; they never wait for a session to process anything.
type Supervisor struct {
	mu        sync.Mutex
	providers map[ID]*Queue[ProviderEvent]
	plugins   []*Queue[PluginEvent]

	moveDelay   time.Duration
	typedDelay  time.Duration
	pluginDelay time.Duration

	logger *log.Logger

	// Stats
	providersStarted    atomic.Uint64
	providersSuperseded atomic.Uint64
	pluginsStarted      atomic.Uint64
	pluginsPruned       atomic.Uint64
	providerDispatches  atomic.Uint64
	providerDropped     atomic.Uint64
	pluginFanouts       atomic.Uint64
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithLogger sets the supervisor's logger. Sessions inherit it.
func WithLogger(l *log.Logger) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionMoveDelay sets the move debounce delay for new provider
// sessions.
func WithSessionMoveDelay(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.moveDelay = d
		}
	}
}

// WithSessionTypedDelay sets the typed debounce delay for new provider
// sessions.
func WithSessionTypedDelay(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.typedDelay = d
		}
	}
}

// WithPluginDelay sets the autocmd debounce delay for new plugin sessions.
func WithPluginDelay(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.pluginDelay = d
		}
	}
}

// NewSupervisor creates an empty registry. The supervisor is
// constructor-injected into its owner; there is no process-wide instance.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		providers:   make(map[ID]*Queue[ProviderEvent]),
		moveDelay:   DefaultMoveDelay,
		typedDelay:  DefaultTypedDelay,
		pluginDelay: DefaultPluginDelay,
		logger:      log.Default().WithComponent("supervisor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterProvider starts a provider session for id, superseding every
// currently registered provider session. The superseded sessions receive a
// Terminate signal and shut down asynchronously; this call never waits for
// them. The new session receives the Initialize signal immediately.
//
// If id is somehow still present after the sweep the registration is
// rejected and logged. A failure to deliver Initialize to the just-created
// session panics: the session task failed to even start.
func (s *Supervisor) RegisterProvider(id ID, p provider.Provider, ctx *provider.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for oldID, q := range s.providers {
		s.logger.Debug("sending internal Terminate signal: provider_session_id=%d", oldID)
		_ = q.Send(Terminate{})
		delete(s.providers, oldID)
		s.providersSuperseded.Add(1)
	}

	if _, exists := s.providers[id]; exists {
		s.logger.Error("skipped registration: provider session %d already exists", id)
		return
	}

	sess, q := NewProviderSession(id, p, ctx, s.logger,
		WithMoveDelay(s.moveDelay),
		WithTypedDelay(s.typedDelay),
	)
	sess.Start()

	if err := q.Send(Initialize{}); err != nil {
		panic("session: failed to deliver Initialize to a freshly started provider session")
	}

	s.providers[id] = q
	s.providersStarted.Add(1)
}

// RegisterPlugin starts a plugin session with the supervisor's plugin
// delay. There is no bound on concurrently registered plugins and no
// explicit unregister; dead handles are pruned lazily by DispatchToPlugins.
func (s *Supervisor) RegisterPlugin(p plugin.Plugin) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := StartPluginSession(p, s.pluginDelay, s.logger.WithComponent("plugin-session"))
	s.plugins = append(s.plugins, q)
	s.pluginsStarted.Add(1)
}

// DispatchToPlugins sends ev to every registered plugin session. Handles
// whose queue is closed are dropped from the registry as a side effect;
// this is the only plugin cleanup mechanism.
func (s *Supervisor) DispatchToPlugins(ev PluginEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.plugins[:0]
	for _, q := range s.plugins {
		if err := q.Send(ev); err != nil {
			s.pluginsPruned.Add(1)
			continue
		}
		kept = append(kept, q)
	}
	for i := len(kept); i < len(s.plugins); i++ {
		s.plugins[i] = nil
	}
	s.plugins = kept
	s.pluginFanouts.Add(1)
}

// Exists reports whether a provider session is registered for id.
func (s *Supervisor) Exists(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.providers[id]
	return ok
}

// RequestExit stops the provider session for id, if one exists. Unknown
// ids are a no-op.
func (s *Supervisor) RequestExit(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitLocked(id)
}

// TerminateAndRemove removes the registry entry for id and sends it an
// Exit signal.
func (s *Supervisor) TerminateAndRemove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitLocked(id)
}

func (s *Supervisor) exitLocked(id ID) {
	q, ok := s.providers[id]
	if !ok {
		return
	}
	delete(s.providers, id)
	_ = q.Send(Exit{})
}

// DispatchToProvider sends ev to the provider session for id. An unknown
// id logs an error, including the currently known ids, and drops the
// event; it is never fatal to the caller.
func (s *Supervisor) DispatchToProvider(id ID, ev ProviderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.providers[id]
	if !ok {
		s.providerDropped.Add(1)
		s.logger.Error("no sender for provider session %d, known sessions: %v", id, s.knownIDsLocked())
		return
	}

	if err := q.Send(ev); err != nil {
		s.logger.Error("failed to send %s to provider session %d: %v", ev, id, err)
		return
	}
	s.providerDispatches.Add(1)
}

// Close tears down the registry: every provider session receives Exit and
// every plugin queue is closed. Plugin sessions drain buffered events and
// end; this is their only teardown path.
func (s *Supervisor) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.providers {
		s.exitLocked(id)
	}
	for _, q := range s.plugins {
		q.Close()
	}
	s.plugins = nil
}

func (s *Supervisor) knownIDsLocked() []uint64 {
	ids := make([]uint64, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, uint64(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats is a point-in-time snapshot of supervisor counters.
type Stats struct {
	// ProvidersStarted is the number of provider sessions ever started.
	ProvidersStarted uint64

	// ProvidersSuperseded is the number of provider sessions terminated
	// by a later registration.
	ProvidersSuperseded uint64

	// PluginsStarted is the number of plugin sessions ever started.
	PluginsStarted uint64

	// PluginsPruned is the number of dead plugin handles removed during
	// fan-out.
	PluginsPruned uint64

	// ProviderDispatches is the number of events delivered to provider
	// sessions.
	ProviderDispatches uint64

	// ProviderDropped is the number of events dropped for unknown ids.
	ProviderDropped uint64

	// PluginFanouts is the number of DispatchToPlugins calls.
	PluginFanouts uint64

	// LiveProviders is the current provider registry size.
	LiveProviders int

	// LivePlugins is the current plugin handle count.
	LivePlugins int
}

// Stats returns a snapshot of supervisor counters.
func (s *Supervisor) Stats() Stats {
	s.mu.Lock()
	liveProviders := len(s.providers)
	livePlugins := len(s.plugins)
	s.mu.Unlock()

	return Stats{
		ProvidersStarted:    s.providersStarted.Load(),
		ProvidersSuperseded: s.providersSuperseded.Load(),
		PluginsStarted:      s.pluginsStarted.Load(),
		PluginsPruned:       s.pluginsPruned.Load(),
		ProviderDispatches:  s.providerDispatches.Load(),
		ProviderDropped:     s.providerDropped.Load(),
		PluginFanouts:       s.pluginFanouts.Load(),
		LiveProviders:       liveProviders,
		LivePlugins:         livePlugins,
	}
}
