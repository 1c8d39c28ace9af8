// Package session supervises long-running interactive computations driven
// by bursty editor input.
//
// Two session kinds exist. A provider session drives a picker provider
// (initialize/move/typed/key/terminate hooks) and coalesces rapid input
// behind adaptive debounce timers, so a burst of keystrokes costs one
// filter pass and one preview refresh per debounce window. A plugin
// session drives an editor plugin's autocmd hook behind a single
// fixed-delay timer with last-write-wins payload collapse.
//
// The Supervisor owns the registry: at most one provider session is live
// at any instant (a new registration supersedes all existing ones), while
// plugin sessions accumulate and are pruned only when a fan-out hits a
// closed queue. Every session runs on its own goroutine with a private
// unbounded queue; supervisor operations never block on session work.
//
// The package is fail-soft throughout: hook errors are logged and the
// loops continue, because a single provider or plugin fault must never
// freeze the interactive input path.
package session
