package tui

import (
	"aisettings/internal/notify"
)

// LoadedMsg is sent when a load cycle has finished
type LoadedMsg struct{}

// SavedMsg is sent when a save has finished
type SavedMsg struct{}

// SaveRejectedMsg is sent when the controller refused to start a save
type SaveRejectedMsg struct {
	Err error
}

// NoticeMsg carries a notification raised by the controller
type NoticeMsg notify.Message

// ReloadMsg is sent when the reload trigger fires
type ReloadMsg struct{}

// HelpOpenedMsg reports the link handed to the opener
type HelpOpenedMsg struct {
	URL string
}
