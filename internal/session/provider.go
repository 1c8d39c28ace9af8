package session

import (
	"time"

	"github.com/dshills/pickstorm/internal/log"
	"github.com/dshills/pickstorm/internal/provider"
)

// ID identifies a provider session. IDs are assigned by the transport, not
// generated here.
type ID uint64

// Debounce delay defaults. 150ms between keystrokes is about 45 WPM, so the
// typed delay wants to be longer than that without introducing detectable
// UI latency; 200ms is a decent compromise. The move delay can be much
// shorter since a preview refresh is cheap relative to a filter pass.
const (
	// DefaultTypedDelay is the typed debounce delay before the source
	// scale is known.
	DefaultTypedDelay = 200 * time.Millisecond

	// DefaultMoveDelay is the fixed move debounce delay.
	DefaultMoveDelay = 50 * time.Millisecond

	// never parks an unarmed timer. Effectively-infinite; only armed
	// timers may fire.
	never = 365 * 24 * time.Hour
)

// ProviderSession owns one provider's execution: an inbound event queue and
// an event loop goroutine that sequences hook calls. The operating mode
// (debounced or immediate) is fixed at creation from the context's
// environment.
type ProviderSession struct {
	id       ID
	ctx      *provider.Context
	provider provider.Provider
	events   *Queue[ProviderEvent]

	moveDelay  time.Duration
	typedDelay time.Duration

	logger *log.Logger
}

// ProviderSessionOption configures a ProviderSession.
type ProviderSessionOption func(*ProviderSession)

// WithMoveDelay sets the move debounce delay.
func WithMoveDelay(d time.Duration) ProviderSessionOption {
	return func(s *ProviderSession) {
		if d > 0 {
			s.moveDelay = d
		}
	}
}

// WithTypedDelay sets the typed debounce delay used before the source
// scale is known.
func WithTypedDelay(d time.Duration) ProviderSessionOption {
	return func(s *ProviderSession) {
		if d > 0 {
			s.typedDelay = d
		}
	}
}

// NewProviderSession creates a session and returns it together with the
// send handle for its queue. The loop is not running until Start.
func NewProviderSession(id ID, p provider.Provider, ctx *provider.Context, logger *log.Logger, opts ...ProviderSessionOption) (*ProviderSession, *Queue[ProviderEvent]) {
	q := NewQueue[ProviderEvent]()
	s := &ProviderSession{
		id:         id,
		ctx:        ctx,
		provider:   p,
		events:     q,
		moveDelay:  DefaultMoveDelay,
		typedDelay: DefaultTypedDelay,
		logger:     logger.WithField("provider_session_id", uint64(id)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, q
}

// Start spawns the session goroutine.
func (s *ProviderSession) Start() {
	s.logger.Debug("spawning provider session task: provider_id=%s debounce=%v",
		s.ctx.ProviderID(), s.ctx.Env().Debounce)

	if s.ctx.Env().Debounce {
		go s.runDebounced()
	} else {
		go s.runImmediate()
	}
}

// runDebounced coalesces OnMove/OnTyped bursts behind two independent
// timers so a burst of N keystrokes costs one filter pass and one preview
// refresh per debounce window. Key and lifecycle events are handled as they
// arrive.
func (s *ProviderSession) runDebounced() {
	moveDirty := false
	moveTimer := time.NewTimer(never)
	defer moveTimer.Stop()

	typedDirty := false
	// Adjusted after OnInitialize once the source scale is known.
	typedDelay := s.typedDelay
	typedTimer := time.NewTimer(never)
	defer typedTimer.Stop()

	for {
		select {
		case ev, ok := <-s.events.Out():
			if !ok {
				// Last sender dropped; implicit exit without the
				// termination hook, asymmetric with Terminate/Exit.
				s.logger.Debug("provider session queue closed")
				return
			}
			s.logger.Debug("[debounce] received event: %s", ev)

			switch e := ev.(type) {
			case NewSession:
				panic("session: NewSession event delivered to a running provider session")
			case Initialize:
				if err := s.provider.OnInitialize(s.ctx); err != nil {
					s.logger.Error("failed to process %s: %v", ev, err)
				} else if small, ok := s.ctx.Source().(provider.ScaleSmall); ok {
					typedDelay = adaptiveTypedDelay(small.Total, typedDelay)
				}
				// Try to fulfill the preview window.
				if err := s.provider.OnMove(s.ctx); err != nil {
					s.logger.Debug("failed to preview after initialize: %v", err)
				}
			case Terminate, Exit:
				s.terminate(ev)
				return
			case OnMove:
				moveDirty = true
				moveTimer.Reset(s.moveDelay)
			case OnTyped:
				typedDirty = true
				typedTimer.Reset(typedDelay)
			case Key:
				if err := s.provider.OnKeyEvent(s.ctx, e.Event); err != nil {
					s.logger.Error("failed to process %s: %v", ev, err)
				}
			}

		case <-moveTimer.C:
			moveTimer.Reset(never)
			if !moveDirty {
				continue
			}
			moveDirty = false

			if err := s.provider.OnMove(s.ctx); err != nil {
				s.logger.Error("failed to process OnMove: %v", err)
			}

		case <-typedTimer.C:
			typedTimer.Reset(never)
			if !typedDirty {
				continue
			}
			typedDirty = false

			_ = s.ctx.RecordInput()

			if err := s.provider.OnTyped(s.ctx); err != nil {
				s.logger.Error("failed to process OnTyped: %v", err)
			}

			// Refresh the preview for the new result set.
			_ = s.provider.OnMove(s.ctx)
		}
	}
}

// runImmediate invokes hooks synchronously per event, in strict arrival
// order.
func (s *ProviderSession) runImmediate() {
	for ev := range s.events.Out() {
		s.logger.Debug("[immediate] received event: %s", ev)

		switch e := ev.(type) {
		case NewSession:
			panic("session: NewSession event delivered to a running provider session")
		case Initialize:
			if err := s.provider.OnInitialize(s.ctx); err != nil {
				s.logger.Error("failed to process %s: %v", ev, err)
			}
			// Try to fulfill the preview window.
			if err := s.provider.OnMove(s.ctx); err != nil {
				s.logger.Debug("failed to preview after initialize: %v", err)
			}
		case Terminate, Exit:
			s.terminate(ev)
			return
		case OnMove:
			if err := s.provider.OnMove(s.ctx); err != nil {
				s.logger.Debug("failed to process %s: %v", ev, err)
			}
		case OnTyped:
			_ = s.ctx.RecordInput()
			if err := s.provider.OnTyped(s.ctx); err != nil {
				s.logger.Debug("failed to process %s: %v", ev, err)
			}
		case Key:
			if err := s.provider.OnKeyEvent(s.ctx, e.Event); err != nil {
				s.logger.Error("failed to process %s: %v", ev, err)
			}
		}
	}

	s.logger.Debug("provider session queue closed")
}

// terminate runs the termination hook exactly once and tears down the
// queue so later sends fail.
func (s *ProviderSession) terminate(ev ProviderEvent) {
	s.logger.Debug("provider session ending on %s", ev)
	s.provider.OnTerminate(s.ctx, uint64(s.id))
	s.events.dispose()
}

// adaptiveTypedDelay picks the typed debounce delay for a bounded source.
// Filtering under 10k items is comfortably sub-frame, so small sources get
// a near-immediate response; the default holds for anything at or above
// 200k.
func adaptiveTypedDelay(total int, current time.Duration) time.Duration {
	switch {
	case total < 10_000:
		return 10 * time.Millisecond
	case total < 100_000:
		return 50 * time.Millisecond
	case total < 200_000:
		return 100 * time.Millisecond
	default:
		return current
	}
}
