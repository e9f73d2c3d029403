// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app assembles the sidebar and chat view into the root Bubble Tea
// model.
//
// The root model owns layout and focus. Route changes are the only
// coordination between the panes: the sidebar navigates, the app notices
// the path moved and loads or resets the chat view accordingly.
package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/config"
	"github.com/jeranaias/harbor-tui/internal/nav"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/ui/chat"
	"github.com/jeranaias/harbor-tui/internal/ui/components"
	"github.com/jeranaias/harbor-tui/internal/ui/sidebar"
	"github.com/jeranaias/harbor-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

type focusArea int

const (
	focusSidebar focusArea = iota
	focusChat
)

// =============================================================================
// MODEL
// =============================================================================

// ConfigReloadedMsg carries a configuration picked up from disk while the
// TUI is running.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Model is the application root.
type Model struct {
	sidebar  sidebar.Model
	chatView chat.Model

	navigator *nav.Navigator
	toasts    *components.ToastManager
	theme     *styles.Theme

	focus        focusArea
	lastPath     string
	sidebarWidth int
	width        int
	height       int
}

// New wires the application from its dependencies.
func New(cfg *config.Config, store *storage.Store, events *bus.Bus, navigator *nav.Navigator, theme *styles.Theme) Model {
	toasts := components.NewToastManager()

	side := sidebar.New(sidebar.Options{
		Store:         store,
		Navigator:     navigator,
		Toasts:        toasts,
		Theme:         theme,
		ListLimit:     cfg.Database.ListLimit,
		TitleMaxRunes: cfg.UI.TitleMaxRunes,
	})

	chatView := chat.New(chat.Options{
		Store:        store,
		Events:       events,
		Navigator:    navigator,
		Toasts:       toasts,
		Theme:        theme,
		DefaultModel: cfg.DefaultModel,
	})

	return Model{
		sidebar:      side,
		chatView:     chatView,
		navigator:    navigator,
		toasts:       toasts,
		theme:        theme,
		focus:        focusChat,
		lastPath:     navigator.Path(),
		sidebarWidth: cfg.UI.SidebarWidth,
	}
}

// Init starts the panes and the toast expiry ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sidebar.Init(), m.chatView.Init(), components.ToastTickCmd())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the panes and reconciles route changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.Resize(msg.Width, msg.Height)

		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(tea.WindowSizeMsg{
			Width: m.sidebarWidth, Height: msg.Height})
		cmds = append(cmds, cmd)
		m.chatView, cmd = m.chatView.Update(tea.WindowSizeMsg{
			Width: msg.Width - m.sidebarWidth, Height: msg.Height})
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "ctrl+x":
			// Dismiss the newest toast.
			if toasts := m.toasts.Toasts(); len(toasts) > 0 {
				m.toasts.Dismiss(toasts[0].ID)
				return m, nil
			}
		case "ctrl+p":
			// Hold the newest toast on screen while reading it.
			if m.toasts.TogglePauseNewest() {
				return m, nil
			}
		case "tab":
			// Tab toggles panes unless a text field owns the keyboard.
			if !m.sidebar.Editing() && !m.sidebar.Searching() {
				if m.focus == focusSidebar {
					m.focus = focusChat
				} else {
					m.focus = focusSidebar
				}
				return m, nil
			}
		}
		var cmd tea.Cmd
		if m.focus == focusSidebar {
			m.sidebar, cmd = m.sidebar.Update(msg)
		} else {
			m.chatView, cmd = m.chatView.Update(msg)
		}
		cmds = append(cmds, cmd)

	case ConfigReloadedMsg:
		// Re-theme in place; every pane shares the theme pointer.
		resolved := styles.ResolveDark(msg.Config.UI.Theme, styles.SystemDark())
		*m.theme = *styles.NewTheme(resolved)

	case components.ToastTickMsg:
		m.toasts.Expire(msg.Time)
		cmds = append(cmds, components.ToastTickCmd())

	case sidebar.BusEventMsg:
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		cmds = append(cmds, cmd)

	case sidebar.ConversationsLoadedMsg, sidebar.SearchResultsMsg,
		sidebar.RenameResultMsg, sidebar.DeleteResultMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		cmds = append(cmds, cmd)
	}

	if cmd := m.reconcileRoute(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// reconcileRoute loads or resets the chat view after the route moved.
func (m *Model) reconcileRoute() tea.Cmd {
	path := m.navigator.Path()
	if path == m.lastPath {
		return nil
	}
	m.lastPath = path

	id, ok := nav.ConversationID(path)
	if !ok {
		m.chatView = m.chatView.Reset()
		return nil
	}
	return m.chatView.OpenConversationCmd(id)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the two panes side by side with any active toasts below.
func (m Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.chatView.View())

	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body,
		components.RenderToasts(m.theme, toasts, m.width, 0))
}
