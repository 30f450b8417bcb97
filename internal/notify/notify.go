// Package notify sends desktop notifications.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
)

// Notifier delivers a short user-facing alert.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct {
	// Icon is an optional path to an image shown with the alert.
	Icon string
}

func (d Desktop) Notify(title, message string) error {
	if err := beeep.Notify(title, message, d.Icon); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Noop discards notifications.
type Noop struct{}

func (Noop) Notify(string, string) error { return nil }

// Recorder keeps notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
}

// Message is one recorded notification.
type Message struct {
	Title, Body string
}

func (r *Recorder) Notify(title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Message{Title: title, Body: message})
	return nil
}

// Sent returns the recorded notifications in order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// New returns a Desktop notifier when enabled, otherwise Noop.
func New(enabled bool) Notifier {
	if !enabled {
		return Noop{}
	}
	return Desktop{}
}
