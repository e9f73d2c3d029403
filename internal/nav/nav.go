// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav implements route-based navigation for the TUI.
//
// The application models its current location as a path, the way a browser
// would: "/" is the new-chat view and "/c/<id>" is an open conversation.
// Selection state in the sidebar is derived from the current route rather
// than stored separately, so route changes and selection can never disagree.
package nav

import (
	"strconv"
	"strings"
	"sync"
)

// =============================================================================
// ROUTES
// =============================================================================

// Root is the new-chat route. No conversation is selected here.
const Root = "/"

// conversationPrefix is the path prefix for open-conversation routes.
const conversationPrefix = "/c/"

// ConversationPath builds the route for a conversation ID.
func ConversationPath(id int64) string {
	return conversationPrefix + strconv.FormatInt(id, 10)
}

// ConversationID extracts the conversation ID from a route. The second
// return is false for the root route, malformed paths, and non-numeric IDs.
func ConversationID(path string) (int64, bool) {
	rest, ok := strings.CutPrefix(path, conversationPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// Listener is invoked after every route change with the new path.
type Listener func(path string)

// Navigator holds the current route and notifies listeners on change.
type Navigator struct {
	mu        sync.Mutex
	path      string
	listeners []Listener
}

// New creates a navigator positioned at the root route.
func New() *Navigator {
	return &Navigator{path: Root}
}

// Path returns the current route.
func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// CurrentConversation returns the conversation ID of the current route, or
// false when no conversation is open.
func (n *Navigator) CurrentConversation() (int64, bool) {
	return ConversationID(n.Path())
}

// Go navigates to path and notifies listeners. Navigating to the current
// path is a no-op; listeners are not re-notified.
func (n *Navigator) Go(path string) {
	n.mu.Lock()
	if path == n.path {
		n.mu.Unlock()
		return
	}
	n.path = path
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
}

// GoRoot navigates to the new-chat route.
func (n *Navigator) GoRoot() {
	n.Go(Root)
}

// GoConversation navigates to the route for a conversation ID.
func (n *Navigator) GoConversation(id int64) {
	n.Go(ConversationPath(id))
}

// OnChange registers a listener for future route changes.
func (n *Navigator) OnChange(fn Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}
