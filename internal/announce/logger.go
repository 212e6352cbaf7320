// Package announce writes race announcements to a structured log.
package announce

import (
	"github.com/charmbracelet/log"
)

// FrameSource reports the current simulation frame. *race.Race satisfies it.
type FrameSource interface {
	Frame() int
}

// Logger implements race.Announcer on top of a charmbracelet logger.
type Logger struct {
	log   *log.Logger
	clock FrameSource
	count int
}

// New creates an announcer that logs every line at info level.
func New(l *log.Logger) *Logger {
	return &Logger{log: l}
}

// Bind stamps subsequent announcements with the frame reported by src.
// The race is usually created after its announcer, hence the late binding.
func (l *Logger) Bind(src FrameSource) {
	l.clock = src
}

// Announce implements race.Announcer.
func (l *Logger) Announce(msg string) {
	l.count++
	if l.clock != nil {
		l.log.Info(msg, "frame", l.clock.Frame())
		return
	}
	l.log.Info(msg)
}

// Count returns how many announcements were logged.
func (l *Logger) Count() int {
	return l.count
}
