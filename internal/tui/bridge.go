package tui

import (
	"aisettings/internal/notify"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge turns controller callbacks into tea messages.
// It serves as the controller's Notifier and ReloadTrigger.
type Bridge struct {
	notices chan notify.Message
	reloads chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		notices: make(chan notify.Message, 8),
		reloads: make(chan struct{}, 1),
	}
}

// Show queues a notice; it never blocks the controller
func (b *Bridge) Show(title, message string, kind notify.Kind) {
	select {
	case b.notices <- notify.Message{Title: title, Message: message, Kind: kind}:
	default:
	}
}

func (b *Bridge) Fire() {
	select {
	case b.reloads <- struct{}{}:
	default:
	}
}

// waitForNotice blocks until the next notice
func (b *Bridge) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(<-b.notices)
	}
}

// waitForReload blocks until the reload trigger fires
func (b *Bridge) waitForReload() tea.Cmd {
	return func() tea.Msg {
		<-b.reloads
		return ReloadMsg{}
	}
}
