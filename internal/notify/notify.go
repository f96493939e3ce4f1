// Package notify delivers user-facing outcome messages and reload signals.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Kind classifies a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

func (k Kind) String() string {
	return string(k)
}

// Message is one delivered notification
type Message struct {
	Title   string
	Message string
	Kind    Kind
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Title, m.Message)
}

// Console prints notifications as colored lines
type Console struct {
	Out io.Writer

	mu sync.Mutex
}

// NewConsole writes to stderr
func NewConsole() *Console {
	return &Console{Out: os.Stderr}
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func (c *Console) Show(title, message string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.Out
	if out == nil {
		out = os.Stderr
	}

	switch kind {
	case KindSuccess:
		successColor.Fprintf(out, "✅ %s", title)
	case KindError:
		errorColor.Fprintf(out, "❌ %s", title)
	default:
		fmt.Fprint(out, title)
	}
	fmt.Fprintf(out, ": %s\n", message)
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	notify   chan struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

func (r *Recorder) Show(title, message string, kind Kind) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Title: title, Message: message, Kind: kind})
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Messages returns a copy of the recorded notifications
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]Message, len(r.messages))
	copy(list, r.messages)
	return list
}

// Last returns the most recent notification
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Changed is signalled after each Show; it coalesces bursts
func (r *Recorder) Changed() <-chan struct{} {
	return r.notify
}

// Discard drops every notification
type Discard struct{}

func (Discard) Show(string, string, Kind) {}

// Multi fans a notification out to several notifiers
type Multi []interface {
	Show(title, message string, kind Kind)
}

func (m Multi) Show(title, message string, kind Kind) {
	for _, n := range m {
		n.Show(title, message, kind)
	}
}
