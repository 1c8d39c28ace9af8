package session

import (
	"time"

	"github.com/dshills/pickstorm/internal/log"
	"github.com/dshills/pickstorm/internal/plugin"
)

// DefaultPluginDelay is the debounce delay for plugin autocmd delivery.
const DefaultPluginDelay = 50 * time.Millisecond

// PluginSession owns one plugin's execution. A burst of autocmd
// notifications collapses behind a single timer to the most recent payload;
// the plugin sees only the last intent of each debounce window.
//
// Plugin sessions have no termination signal. A session runs until its
// queue is closed, which is the process-teardown path.
type PluginSession struct {
	plugin     plugin.Plugin
	eventDelay time.Duration
	events     *Queue[PluginEvent]
	logger     *log.Logger
}

// StartPluginSession spawns a plugin session task with the given event
// delay and returns the send handle for its queue.
func StartPluginSession(p plugin.Plugin, eventDelay time.Duration, logger *log.Logger) *Queue[PluginEvent] {
	q := NewQueue[PluginEvent]()
	s := &PluginSession{
		plugin:     p,
		eventDelay: eventDelay,
		events:     q,
		logger:     logger,
	}

	s.logger.Debug("spawning plugin session task: delay=%s", eventDelay)
	go s.run()

	return q
}

func (s *PluginSession) run() {
	var pending *plugin.AutocmdEvent
	dirty := false
	timer := time.NewTimer(never)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-s.events.Out():
			if !ok {
				s.logger.Debug("plugin session queue closed")
				return
			}

			switch e := ev.(type) {
			case Autocmd:
				// Last write wins within a debounce window.
				autocmd := e.Event
				pending = &autocmd
				dirty = true
				timer.Reset(s.eventDelay)
			}

		case <-timer.C:
			timer.Reset(never)
			if !dirty {
				continue
			}
			dirty = false

			if pending == nil {
				continue
			}
			autocmd := *pending
			pending = nil

			if err := s.plugin.OnAutocmd(autocmd); err != nil {
				s.logger.Error("failed to process %s: %v", autocmd, err)
			}
		}
	}
}
