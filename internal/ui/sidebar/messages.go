// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConversationsLoadedMsg carries the initial (or refreshed) list.
type ConversationsLoadedMsg struct {
	Conversations []model.Conversation
	Err           error
}

// SearchResultsMsg carries title-search results.
type SearchResultsMsg struct {
	Query         string
	Conversations []model.Conversation
	Err           error
}

// RenameResultMsg reports the outcome of a persisted rename.
type RenameResultMsg struct {
	ID    int64
	Title string
	Err   error
}

// DeleteResultMsg reports the outcome of a delete.
type DeleteResultMsg struct {
	ID  int64
	Err error
}

// BusEventMsg wraps a lifecycle event received from the application bus.
type BusEventMsg struct {
	Event bus.Event
}
