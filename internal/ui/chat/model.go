// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the transcript view and message composer.
//
// The view follows the current route: the root shows an empty composer and
// "/c/<id>" loads that conversation's transcript. Assistant messages render
// through glamour as markdown; the viewport tracks whether the user has
// scrolled away from the newest message and shows a jump affordance when
// they have.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/model"
	"github.com/jeranaias/harbor-tui/internal/nav"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/ui/components"
	"github.com/jeranaias/harbor-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConversationOpenedMsg carries a freshly loaded conversation.
type ConversationOpenedMsg struct {
	Conversation model.Conversation
	Messages     []model.Message
	Err          error
}

// ConversationStartedMsg reports a new conversation persisted from the
// composer.
type ConversationStartedMsg struct {
	Conversation model.Conversation
	Err          error
}

// MessageSavedMsg reports a message appended to the open conversation.
type MessageSavedMsg struct {
	ConversationID int64
	Messages       []model.Message
	Err            error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view.
type Model struct {
	store     *storage.Store
	events    *bus.Bus
	navigator *nav.Navigator
	toasts    *components.ToastManager
	theme     *styles.Theme

	conversation model.Conversation
	messages     []model.Message
	open         bool

	viewport     viewport.Model
	composer     textinput.Model
	scrollBottom components.ScrollBottom
	renderer     *glamour.TermRenderer

	defaultModel string
	width        int
	height       int
}

// Options configures a chat view.
type Options struct {
	Store        *storage.Store
	Events       *bus.Bus
	Navigator    *nav.Navigator
	Toasts       *components.ToastManager
	Theme        *styles.Theme
	DefaultModel string
}

// New creates a chat model.
func New(opts Options) Model {
	composer := textinput.New()
	composer.Placeholder = "Send a message"
	composer.Prompt = "> "
	composer.CharLimit = 4000

	var style glamour.TermRendererOption
	if opts.Theme.IsDark {
		style = glamour.WithStandardStyle("dark")
	} else {
		style = glamour.WithStandardStyle("light")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
	}

	return Model{
		store:        opts.Store,
		events:       opts.Events,
		navigator:    opts.Navigator,
		toasts:       opts.Toasts,
		theme:        opts.Theme,
		viewport:     viewport.New(0, 0),
		composer:     composer,
		scrollBottom: components.NewScrollBottom(),
		renderer:     renderer,
		defaultModel: opts.DefaultModel,
	}
}

// Init focuses the composer.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Open reports whether a conversation is loaded.
func (m Model) Open() bool {
	return m.open
}

// =============================================================================
// COMMANDS
// =============================================================================

// OpenConversationCmd loads a conversation for display.
func (m Model) OpenConversationCmd(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		conv, err := store.GetByID(context.Background(), id)
		if err != nil {
			return ConversationOpenedMsg{Err: err}
		}
		msgs, err := conv.DecodeMessages()
		if err != nil {
			return ConversationOpenedMsg{Err: err}
		}
		return ConversationOpenedMsg{Conversation: conv, Messages: msgs}
	}
}

func (m Model) startConversationCmd(content string) tea.Cmd {
	store, defaultModel := m.store, m.defaultModel
	return func() tea.Msg {
		first := model.NewUserMessage(content)
		payload, err := model.EncodeMessages([]model.Message{first})
		if err != nil {
			return ConversationStartedMsg{Err: err}
		}
		conv, err := store.Create(context.Background(), model.Conversation{
			Title:     model.DefaultTitle,
			Model:     defaultModel,
			Messages:  payload,
			Timestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			return ConversationStartedMsg{Err: err}
		}
		return ConversationStartedMsg{Conversation: conv}
	}
}

func (m Model) appendMessageCmd(content string) tea.Cmd {
	store := m.store
	id := m.conversation.ID
	msgs := append(append([]model.Message{}, m.messages...), model.NewUserMessage(content))
	return func() tea.Msg {
		payload, err := model.EncodeMessages(msgs)
		if err != nil {
			return MessageSavedMsg{ConversationID: id, Err: err}
		}
		err = store.UpdateMessages(context.Background(), id, payload, time.Now().UnixMilli())
		if err != nil {
			return MessageSavedMsg{ConversationID: id, Err: err}
		}
		return MessageSavedMsg{ConversationID: id, Messages: msgs}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles chat view messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case ConversationOpenedMsg:
		return m.handleOpened(msg)
	case ConversationStartedMsg:
		return m.handleStarted(msg)
	case MessageSavedMsg:
		return m.handleSaved(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.viewport.Width = msg.Width
	// Composer and status take the bottom rows.
	m.viewport.Height = max(msg.Height-3, 1)
	m.refreshTranscript()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		content := m.composer.Value()
		if content == "" {
			return m, nil
		}
		m.composer.SetValue("")
		if !m.open {
			return m, m.startConversationCmd(content)
		}
		return m, m.appendMessageCmd(content)
	case "pgup", "pgdown", "up", "down", "home":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.scrollBottom.SetAtBottom(m.viewport.AtBottom())
		return m, cmd
	case "end":
		m.viewport.GotoBottom()
		m.scrollBottom.SetAtBottom(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleOpened(msg ConversationOpenedMsg) (Model, tea.Cmd) {
	if errors.Is(msg.Err, storage.ErrNotFound) {
		// A route can point at a conversation deleted elsewhere. Clear the
		// selection quietly; there is nothing for the user to act on.
		log.Error().Err(msg.Err).Msg("conversation not found, clearing selection")
		m.navigator.GoRoot()
		return m.Reset(), nil
	}
	if msg.Err != nil {
		log.Error().Err(msg.Err).Msg("failed to open conversation")
		m.toasts.PushError("Failed to open conversation", msg.Err.Error())
		return m, nil
	}
	m.conversation = msg.Conversation
	m.messages = msg.Messages
	m.open = true
	m.refreshTranscript()
	m.viewport.GotoBottom()
	m.scrollBottom.SetAtBottom(true)
	return m, nil
}

func (m Model) handleStarted(msg ConversationStartedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.Error().Err(msg.Err).Msg("failed to start conversation")
		m.toasts.PushError("Failed to start conversation", msg.Err.Error())
		return m, nil
	}
	m.conversation = msg.Conversation
	m.messages, _ = msg.Conversation.DecodeMessages()
	m.open = true
	m.refreshTranscript()
	m.viewport.GotoBottom()
	m.scrollBottom.SetAtBottom(true)

	// The sidebar learns about the new conversation over the bus, the same
	// way it would about one created by the CLI.
	m.events.Publish(bus.ConversationCreated{Conversation: msg.Conversation.WithoutMessages()})
	return m, nil
}

func (m Model) handleSaved(msg MessageSavedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.Error().Err(msg.Err).Int64("id", msg.ConversationID).Msg("failed to save message")
		m.toasts.PushError("Failed to send message", msg.Err.Error())
		return m, nil
	}
	if msg.ConversationID != m.conversation.ID {
		// The route moved on while the save was in flight.
		return m, nil
	}
	m.messages = msg.Messages
	m.refreshTranscript()
	m.viewport.GotoBottom()
	m.scrollBottom.SetAtBottom(true)
	return m, nil
}

// Reset clears the view for the new-chat route.
func (m Model) Reset() Model {
	m.conversation = model.Conversation{}
	m.messages = nil
	m.open = false
	m.viewport.SetContent("")
	m.scrollBottom.SetAtBottom(true)
	return m
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *Model) refreshTranscript() {
	var blocks []string
	for _, msg := range m.messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (m *Model) renderMessage(msg model.Message) string {
	switch msg.Role {
	case model.RoleUser:
		return m.theme.UserBubble.Render(msg.Content)
	case model.RoleSystem:
		return m.theme.SystemBubble.Render(msg.Content)
	default:
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(msg.Content); err == nil {
				return m.theme.AssistantBubble.Render(rendered)
			}
		}
		return m.theme.AssistantBubble.Render(renderPlainMarkdown(msg.Content, m.theme.IsDark))
	}
}

// renderPlainMarkdown is the fallback when no markdown renderer is available.
// Prose passes through untouched; fenced code blocks still get syntax
// highlighting so a transcript stays readable.
func renderPlainMarkdown(content string, isDark bool) string {
	var out strings.Builder
	var code strings.Builder
	lang := ""
	inFence := false

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				out.WriteString(components.HighlightCode(code.String(), lang, isDark))
				code.Reset()
				inFence = false
			} else {
				inFence = true
				lang = strings.TrimPrefix(trimmed, "```")
			}
			continue
		}
		if inFence {
			code.WriteString(line)
			code.WriteByte('\n')
			continue
		}
		out.WriteString(line)
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}
	if inFence {
		// Unterminated fence. Highlight what arrived.
		out.WriteString(components.HighlightCode(code.String(), lang, isDark))
	}
	return out.String()
}

// View renders the transcript and composer.
func (m Model) View() string {
	var transcript string
	if m.open {
		transcript = m.viewport.View()
		transcript = m.scrollBottom.Render(m.theme, transcript, m.width)
	} else {
		transcript = m.theme.SidebarEmptyState.Render("Start a new conversation")
	}

	composer := m.composer.View()
	return lipgloss.JoinVertical(lipgloss.Left, transcript, composer)
}
