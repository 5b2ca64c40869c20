// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers user-visible messages emitted by the knowledge
// base. Delivery is fire-and-forget: a Notifier never reports back and must
// not call into the component that emitted the message.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Kind classifies a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notification is one message for the user.
type Notification struct {
	Message string `json:"message" yaml:"message"`
	Kind    Kind   `json:"kind" yaml:"kind"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Multi fans a notification out to several notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(n Notification) {
		for _, nt := range notifiers {
			nt.Notify(n)
		}
	})
}

// Writer prints notifications as lines to w, prefixing errors.
type Writer struct {
	W io.Writer
}

// Notify writes n to the underlying writer.
func (w Writer) Notify(n Notification) {
	if n.Kind == Error {
		fmt.Fprintf(w.W, "error: %s\n", n.Message)
		return
	}
	fmt.Fprintln(w.W, n.Message)
}

// Log records notifications through a zerolog logger.
type Log struct {
	Logger zerolog.Logger
}

// Notify logs errors at warn level and successes at info level.
func (l Log) Notify(n Notification) {
	ev := l.Logger.Info()
	if n.Kind == Error {
		ev = l.Logger.Warn()
	}
	ev.Str("kind", string(n.Kind)).Msg(n.Message)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

// Notify appends n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Reset discards the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}
