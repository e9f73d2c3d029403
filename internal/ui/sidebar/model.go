// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/grouping"
	"github.com/jeranaias/harbor-tui/internal/model"
	"github.com/jeranaias/harbor-tui/internal/nav"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/ui/components"
	"github.com/jeranaias/harbor-tui/internal/ui/styles"
	"github.com/jeranaias/harbor-tui/internal/util"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the conversation sidebar. Selection is derived from the current
// route, never stored; the list itself holds payload-stripped conversations
// only.
type Model struct {
	store     *storage.Store
	navigator *nav.Navigator
	toasts    *components.ToastManager
	theme     *styles.Theme
	keys      KeyMap

	conversations []model.Conversation
	cursor        int

	// searching is true while the search box has focus. The query applies
	// to titles only and results keep store order.
	searching bool
	search    textinput.Model

	// editingID is the conversation being renamed inline, 0 otherwise.
	editingID int64
	editInput textinput.Model

	// loading is true until the first list arrives.
	loading bool
	spin    spinner.Model

	listLimit     int
	titleMaxRunes int
	width         int
	height        int

	// now is injected for deterministic grouping in tests.
	now func() int64
}

// Options configures a sidebar.
type Options struct {
	Store         *storage.Store
	Navigator     *nav.Navigator
	Toasts        *components.ToastManager
	Theme         *styles.Theme
	ListLimit     int
	TitleMaxRunes int
}

// New creates a sidebar model.
func New(opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Search conversations"
	search.Prompt = "/ "
	search.CharLimit = 128

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = opts.TitleMaxRunes

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		store:         opts.Store,
		navigator:     opts.Navigator,
		toasts:        opts.Toasts,
		theme:         opts.Theme,
		keys:          DefaultKeyMap(),
		search:        search,
		editInput:     edit,
		loading:       true,
		spin:          spin,
		listLimit:     opts.ListLimit,
		titleMaxRunes: opts.TitleMaxRunes,
		now:           func() int64 { return time.Now().UnixMilli() },
	}
}

// Init loads the conversation list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spin.Tick)
}

// Conversations returns the currently displayed list.
func (m Model) Conversations() []model.Conversation {
	return m.conversations
}

// Editing reports whether an inline rename is in progress.
func (m Model) Editing() bool {
	return m.editingID != 0
}

// EditingID returns the conversation being renamed, 0 when none.
func (m Model) EditingID() int64 {
	return m.editingID
}

// Searching reports whether the search box has focus.
func (m Model) Searching() bool {
	return m.searching
}

// SelectedID returns the conversation the current route points at, 0 when
// the route is the new-chat root.
func (m Model) SelectedID() int64 {
	id, ok := m.navigator.CurrentConversation()
	if !ok {
		return 0
	}
	return id
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadCmd() tea.Cmd {
	store, limit := m.store, m.listLimit
	return func() tea.Msg {
		convs, err := store.ListRecent(context.Background(), limit)
		return ConversationsLoadedMsg{Conversations: convs, Err: err}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	store, limit := m.store, m.listLimit
	return func() tea.Msg {
		convs, err := store.SearchByTitle(context.Background(), query, limit)
		return SearchResultsMsg{Query: query, Conversations: convs, Err: err}
	}
}

func (m Model) renameCmd(id int64, title string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		err := store.Rename(context.Background(), id, title)
		return RenameResultMsg{ID: id, Title: title, Err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return DeleteResultMsg{ID: id, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles sidebar messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case ConversationsLoadedMsg:
		return m.handleLoaded(msg)
	case SearchResultsMsg:
		return m.handleSearchResults(msg)
	case RenameResultMsg:
		return m.handleRenameResult(msg)
	case DeleteResultMsg:
		return m.handleDeleteResult(msg)
	case BusEventMsg:
		return m.handleBusEvent(msg.Event)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoaded(msg ConversationsLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		log.Error().Err(msg.Err).Msg("failed to load conversations")
		m.toasts.PushError("Failed to load conversations", msg.Err.Error())
		return m, nil
	}
	m.conversations = stripPayloads(msg.Conversations)
	m.clampCursor()
	return m, nil
}

func (m Model) handleSearchResults(msg SearchResultsMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.Error().Err(msg.Err).Str("query", msg.Query).Msg("search failed")
		m.toasts.PushError("Search failed", msg.Err.Error())
		return m, nil
	}
	// Results are applied as they arrive. With a local store they come back
	// in request order, so late responses clobbering newer ones is not a
	// practical concern.
	m.conversations = stripPayloads(msg.Conversations)
	m.cursor = 0
	m.clampCursor()
	return m, nil
}

func (m Model) handleRenameResult(msg RenameResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		// Edit mode stays open so the user can retry or escape.
		log.Error().Err(msg.Err).Int64("id", msg.ID).Msg("rename failed")
		m.toasts.PushError("Rename failed", msg.Err.Error())
		return m, nil
	}
	for i := range m.conversations {
		if m.conversations[i].ID == msg.ID {
			m.conversations[i].Title = msg.Title
			break
		}
	}
	m.cancelEdit()
	return m, nil
}

func (m Model) handleDeleteResult(msg DeleteResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.Error().Err(msg.Err).Int64("id", msg.ID).Msg("delete failed")
		m.toasts.PushError("Delete failed", msg.Err.Error())
		return m, nil
	}
	for i := range m.conversations {
		if m.conversations[i].ID == msg.ID {
			m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
			break
		}
	}
	m.clampCursor()
	// Deleting always lands on the new-chat view, even when the deleted
	// conversation was not the open one.
	m.navigator.GoRoot()
	return m, nil
}

func (m Model) handleBusEvent(event bus.Event) (Model, tea.Cmd) {
	switch ev := event.(type) {
	case bus.ConversationCreated:
		// An in-flight rename is abandoned: the edit row may be about to
		// shift and committing against the wrong row is worse.
		m.cancelEdit()
		m.conversations = append(
			[]model.Conversation{ev.Conversation.WithoutMessages()},
			m.conversations...)
		if len(m.conversations) > m.listLimit {
			m.conversations = m.conversations[:m.listLimit]
		}
		m.cursor = 0
		m.navigator.GoConversation(ev.Conversation.ID)
	case bus.ConversationRenamed:
		for i := range m.conversations {
			if m.conversations[i].ID == ev.ID {
				m.conversations[i].Title = ev.Title
				break
			}
		}
	case bus.ConversationDeleted:
		for i := range m.conversations {
			if m.conversations[i].ID == ev.ID {
				m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
				break
			}
		}
		m.clampCursor()
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editingID != 0 {
		return m.handleEditKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Select):
		if c, ok := m.cursorConversation(); ok {
			m.navigator.GoConversation(c.ID)
		}
	case key.Matches(msg, m.keys.NewChat):
		m.navigator.GoRoot()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Rename):
		if c, ok := m.cursorConversation(); ok {
			return m.startEdit(c)
		}
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.cursorConversation(); ok {
			return m, m.deleteCmd(c.ID)
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Select):
		// Enter runs the query and returns focus to the list.
		m.searching = false
		m.search.Blur()
		return m, m.searchCmd(m.search.Value())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelEdit()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		title := util.TruncateRunesNoEllipsis(m.editInput.Value(), m.titleMaxRunes)
		if title == "" {
			// An empty rename is a cancel.
			m.cancelEdit()
			return m, nil
		}
		return m, m.renameCmd(m.editingID, title)
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m Model) startEdit(c model.Conversation) (Model, tea.Cmd) {
	m.editingID = c.ID
	m.editInput.SetValue(util.TruncateRunesNoEllipsis(c.Title, m.titleMaxRunes))
	m.editInput.CursorEnd()
	return m, m.editInput.Focus()
}

func (m *Model) cancelEdit() {
	m.editingID = 0
	m.editInput.Blur()
	m.editInput.SetValue("")
}

// =============================================================================
// CURSOR
// =============================================================================

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.conversations) {
		m.cursor = len(m.conversations) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) cursorConversation() (model.Conversation, bool) {
	if len(m.conversations) == 0 {
		return model.Conversation{}, false
	}
	return m.conversations[m.cursor], true
}

func stripPayloads(convs []model.Conversation) []model.Conversation {
	out := make([]model.Conversation, len(convs))
	for i, c := range convs {
		out[i] = c.WithoutMessages()
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar column.
func (m Model) View() string {
	var rows []string

	rows = append(rows, m.theme.NewChatButton.Render("+ New chat"))

	if m.searching || m.search.Value() != "" {
		rows = append(rows, m.theme.SidebarSearchBox.Render(m.search.View()))
	}

	if m.loading {
		rows = append(rows, m.theme.SidebarEmptyState.Render(m.spin.View()+" Loading"))
		return m.frame(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	if len(m.conversations) == 0 {
		rows = append(rows, m.theme.SidebarEmptyState.Render("No conversations"))
		return m.frame(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	selected := m.SelectedID()
	entries := grouping.Group(m.now(), m.conversations)
	for _, e := range entries {
		if e.IsMarker() {
			rows = append(rows, m.theme.SidebarMarker.Render(e.Marker))
			continue
		}
		rows = append(rows, m.renderItem(e.Conversation, selected))
	}

	return m.frame(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderItem(c model.Conversation, selected int64) string {
	if m.editingID == c.ID {
		return m.theme.SidebarEditInput.Render(m.editInput.View())
	}

	title := util.CollapseWhitespace(c.Title)
	if title == "" {
		title = model.DefaultTitle
	}
	if m.width > 4 {
		title = util.TruncateWidth(title, m.width-4)
	}

	style := m.theme.SidebarItem
	if c.ID == selected {
		style = m.theme.SidebarSelected
	}
	if cursor, ok := m.cursorConversation(); ok && cursor.ID == c.ID {
		title = "> " + title
	} else {
		title = "  " + title
	}
	return style.Render(title)
}

func (m Model) frame(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return m.theme.Sidebar.Width(m.width).Height(m.height).Render(content)
}
