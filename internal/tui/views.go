package tui

import "readings/internal/tui/messages"

// Re-export types from messages package for convenience
type ViewType = messages.ViewType

const (
	ViewSelector = messages.ViewSelector
	ViewResults  = messages.ViewResults
)

type SwitchViewMsg = messages.SwitchViewMsg
type SearchRequestMsg = messages.SearchRequestMsg
type ExportRequestMsg = messages.ExportRequestMsg
