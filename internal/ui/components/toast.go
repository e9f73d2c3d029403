// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the harbor TUI.
//
// Toasts are non-blocking notifications in the bottom-right corner that
// auto-dismiss after a fixed duration. They never steal focus; the user
// keeps typing while they are on screen.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/harbor-tui/internal/ui/styles"
	"github.com/jeranaias/harbor-tui/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind classifies a toast notification.
type ToastKind int

const (
	ToastKindError ToastKind = iota
	ToastKindWarning
	ToastKindSuccess
)

// ToastDuration is the auto-dismiss duration for every toast.
const ToastDuration = 5 * time.Second

// GenericErrorMessage is shown when an error carries no usable text.
const GenericErrorMessage = "Something went wrong"

// Toast is a single notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration

	// pausedAt is nonzero while the dismiss countdown is suspended.
	pausedAt time.Time
}

// IsExpired reports whether the toast should be dismissed. A paused toast
// never expires.
func (t *Toast) IsExpired(now time.Time) bool {
	if !t.pausedAt.IsZero() {
		return false
	}
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// ERROR MESSAGE COMPOSITION
// =============================================================================

// maxDetailRunes caps error detail inside a toast; driver errors can run to
// whole stack traces.
const maxDetailRunes = 120

// ErrorMessage builds the toast text for a failed operation. A title
// prefixes the detail; with no detail the generic fallback is used.
// Overlong detail is truncated.
func ErrorMessage(title, detail string) string {
	title = strings.TrimSpace(title)
	detail = util.TruncateRunes(strings.TrimSpace(detail), maxDetailRunes)
	switch {
	case title != "" && detail != "":
		return title + ": " + detail
	case detail != "":
		return "Unexpected error: " + detail
	default:
		return GenericErrorMessage
	}
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// maxToasts bounds how many notifications are visible at once; older ones
// are evicted first.
const maxToasts = 5

// ToastManager owns the active toast list. Methods are safe for concurrent
// use since background commands push toasts from other goroutines.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int

	// now is the countdown clock. Overridable so tests can control time.
	now func() time.Time
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, now: time.Now}
}

// Push adds a toast and returns its ID. Newest toasts sit at the front.
func (m *ToastManager) Push(kind ToastKind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  ToastDuration,
	}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// PushError composes and pushes an error toast.
func (m *ToastManager) PushError(title, detail string) int {
	return m.Push(ToastKindError, ErrorMessage(title, detail))
}

// Dismiss removes a toast by ID.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.toasts {
		if m.toasts[i].ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Pause suspends the dismiss countdown for a toast, mirroring a pointer
// hovering over it.
func (m *ToastManager) Pause(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.toasts {
		if m.toasts[i].ID == id && m.toasts[i].pausedAt.IsZero() {
			m.toasts[i].pausedAt = m.now()
			return
		}
	}
}

// Resume restarts the countdown, crediting the time spent paused.
func (m *ToastManager) Resume(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.toasts {
		if m.toasts[i].ID == id && !m.toasts[i].pausedAt.IsZero() {
			m.toasts[i].CreatedAt = m.toasts[i].CreatedAt.Add(m.now().Sub(m.toasts[i].pausedAt))
			m.toasts[i].pausedAt = time.Time{}
			return
		}
	}
}

// TogglePauseNewest pauses the newest toast's countdown, or resumes it when
// it is already paused. Returns false if nothing is on screen.
func (m *ToastManager) TogglePauseNewest() bool {
	m.mu.Lock()
	if len(m.toasts) == 0 {
		m.mu.Unlock()
		return false
	}
	id := m.toasts[0].ID
	paused := !m.toasts[0].pausedAt.IsZero()
	m.mu.Unlock()

	if paused {
		m.Resume(id)
	} else {
		m.Pause(id)
	}
	return true
}

// Expire removes expired toasts and returns the survivors.
func (m *ToastManager) Expire(now time.Time) []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return m.snapshotLocked()
}

// Toasts returns a copy of the active toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// HasToasts reports whether anything is on screen.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

func (m *ToastManager) snapshotLocked() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// =============================================================================
// TOAST MESSAGES AND COMMANDS
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

func toastStyle(theme *styles.Theme, kind ToastKind) lipgloss.Style {
	switch kind {
	case ToastKindSuccess:
		return theme.ToastSuccess
	case ToastKindWarning:
		return theme.ToastWarning
	default:
		return theme.ToastError
	}
}

// RenderToasts draws the toast stack into the bottom-right corner of a
// width x height screen region.
func RenderToasts(theme *styles.Theme, toasts []Toast, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	maxWidth := 50
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered,
			toastStyle(theme, t.Kind).MaxWidth(maxWidth).Render(t.Message))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom,
			lipgloss.NewStyle().MarginRight(1).MarginBottom(1).Render(stack))
	}
	return stack
}
