// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/model"
	"github.com/jeranaias/harbor-tui/internal/nav"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/ui/components"
	"github.com/jeranaias/harbor-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(Options{
		Navigator:     nav.New(),
		Toasts:        components.NewToastManager(),
		Theme:         styles.NewTheme(true),
		ListLimit:     200,
		TitleMaxRunes: 30,
	})
}

func loaded(t *testing.T, m Model, convs ...model.Conversation) Model {
	t.Helper()
	m, _ = m.Update(ConversationsLoadedMsg{Conversations: convs})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestLoadedStripsPayloads(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "a", Messages: `[{"x":1}]`})

	convs := m.Conversations()
	if len(convs) != 1 {
		t.Fatalf("got %d conversations", len(convs))
	}
	if convs[0].Messages != model.EmptyMessagesPayload {
		t.Errorf("payload not stripped: %q", convs[0].Messages)
	}
}

func TestLoadErrorShowsToast(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.Update(ConversationsLoadedMsg{Err: errors.New("db locked")})

	toasts := m.toasts.Toasts()
	if len(toasts) != 1 {
		t.Fatalf("got %d toasts, want 1", len(toasts))
	}
	if toasts[0].Message != "Failed to load conversations: db locked" {
		t.Errorf("toast = %q", toasts[0].Message)
	}
}

func TestSelectNavigates(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m,
		model.Conversation{ID: 5, Title: "first"},
		model.Conversation{ID: 6, Title: "second"})

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("enter"))

	if m.navigator.Path() != "/c/6" {
		t.Errorf("path = %q, want /c/6", m.navigator.Path())
	}
	if m.SelectedID() != 6 {
		t.Errorf("SelectedID = %d, want 6", m.SelectedID())
	}
}

func TestNewChatNavigatesRoot(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 5})
	m.navigator.GoConversation(5)

	m, _ = m.Update(keyMsg("n"))

	if m.navigator.Path() != nav.Root {
		t.Errorf("path = %q, want root", m.navigator.Path())
	}
}

func TestDeleteAlwaysNavigatesRoot(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m,
		model.Conversation{ID: 1, Title: "open"},
		model.Conversation{ID: 2, Title: "other"})

	// A different conversation is open; deleting ID 2 still lands on root.
	m.navigator.GoConversation(1)

	m, _ = m.Update(DeleteResultMsg{ID: 2})

	if m.navigator.Path() != nav.Root {
		t.Errorf("path = %q, want root regardless of selection", m.navigator.Path())
	}
	if len(m.Conversations()) != 1 || m.Conversations()[0].ID != 1 {
		t.Errorf("conversations = %+v", m.Conversations())
	}
}

func TestDeleteErrorKeepsList(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1})
	m.navigator.GoConversation(1)

	m, _ = m.Update(DeleteResultMsg{ID: 1, Err: errors.New("io error")})

	if len(m.Conversations()) != 1 {
		t.Error("failed delete removed the conversation")
	}
	if m.navigator.Path() != "/c/1" {
		t.Errorf("failed delete changed route to %q", m.navigator.Path())
	}
	if !m.toasts.HasToasts() {
		t.Error("expected an error toast")
	}
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "old title"})

	m, _ = m.Update(keyMsg("r"))
	if !m.Editing() || m.EditingID() != 1 {
		t.Fatal("rename key did not start editing")
	}
	if m.editInput.Value() != "old title" {
		t.Errorf("edit seeded with %q", m.editInput.Value())
	}

	m, _ = m.Update(RenameResultMsg{ID: 1, Title: "new title"})
	if m.Editing() {
		t.Error("successful rename should exit edit mode")
	}
	if m.Conversations()[0].Title != "new title" {
		t.Errorf("title = %q", m.Conversations()[0].Title)
	}
}

func TestRenameFailureStaysInEditMode(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "old"})

	m, _ = m.Update(keyMsg("r"))
	m, _ = m.Update(RenameResultMsg{ID: 1, Title: "new", Err: storage.ErrNotFound})

	if !m.Editing() {
		t.Error("failed rename must keep edit mode open")
	}
	if m.Conversations()[0].Title != "old" {
		t.Errorf("title = %q, want unchanged", m.Conversations()[0].Title)
	}
	if !m.toasts.HasToasts() {
		t.Error("expected an error toast")
	}
}

func TestRenameEscCancels(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "old"})

	m, _ = m.Update(keyMsg("r"))
	m, _ = m.Update(keyMsg("esc"))

	if m.Editing() {
		t.Error("esc should cancel editing")
	}
}

func TestBusCreatedPrependsSelectsAndCancelsEdit(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "existing"})

	// Start a rename, then a creation arrives from elsewhere.
	m, _ = m.Update(keyMsg("r"))

	created := model.Conversation{ID: 2, Title: "fresh", Messages: `[{"x":1}]`}
	m, _ = m.Update(BusEventMsg{Event: bus.ConversationCreated{Conversation: created}})

	convs := m.Conversations()
	if len(convs) != 2 || convs[0].ID != 2 {
		t.Fatalf("conversations = %+v, want new one first", convs)
	}
	if convs[0].Messages != model.EmptyMessagesPayload {
		t.Error("created conversation payload not stripped")
	}
	if m.navigator.Path() != "/c/2" {
		t.Errorf("path = %q, want /c/2", m.navigator.Path())
	}
	if m.Editing() {
		t.Error("creation must cancel an in-flight rename")
	}
}

func TestBusDeletedRemoves(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m,
		model.Conversation{ID: 1},
		model.Conversation{ID: 2})

	m, _ = m.Update(BusEventMsg{Event: bus.ConversationDeleted{ID: 1}})

	convs := m.Conversations()
	if len(convs) != 1 || convs[0].ID != 2 {
		t.Errorf("conversations = %+v", convs)
	}
}

func TestSearchResultsReplaceList(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m,
		model.Conversation{ID: 1, Title: "apples"},
		model.Conversation{ID: 2, Title: "bananas"})

	m, _ = m.Update(SearchResultsMsg{
		Query:         "ban",
		Conversations: []model.Conversation{{ID: 2, Title: "bananas"}},
	})

	convs := m.Conversations()
	if len(convs) != 1 || convs[0].ID != 2 {
		t.Errorf("conversations = %+v", convs)
	}
}

func TestSearchRunsOnEnterOnly(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "sidebar.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, title := range []string{"apples", "bananas"} {
		if _, err := store.Create(context.Background(), model.Conversation{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	m := New(Options{
		Store:         store,
		Navigator:     nav.New(),
		Toasts:        components.NewToastManager(),
		Theme:         styles.NewTheme(true),
		ListLimit:     200,
		TitleMaxRunes: 30,
	})
	m, _ = m.Update(m.loadCmd()())
	if len(m.Conversations()) != 2 {
		t.Fatalf("loaded %d conversations", len(m.Conversations()))
	}

	m, _ = m.Update(keyMsg("/"))
	var cmd tea.Cmd
	m, cmd = m.Update(keyMsg("ban"))
	if cmd != nil {
		if _, ok := cmd().(SearchResultsMsg); ok {
			t.Fatal("typing should not run the query")
		}
	}
	if len(m.Conversations()) != 2 {
		t.Fatal("typing should leave the list untouched")
	}

	m, cmd = m.Update(keyMsg("enter"))
	if m.Searching() {
		t.Error("enter should leave search mode")
	}
	if cmd == nil {
		t.Fatal("enter should run the query")
	}
	results, ok := cmd().(SearchResultsMsg)
	if !ok {
		t.Fatalf("got %T", cmd())
	}
	if results.Query != "ban" {
		t.Errorf("query = %q, want %q", results.Query, "ban")
	}
	m, _ = m.Update(results)
	convs := m.Conversations()
	if len(convs) != 1 || convs[0].Title != "bananas" {
		t.Errorf("conversations = %+v", convs)
	}
}

func TestSearchEscRestoresFullList(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1})

	m, _ = m.Update(keyMsg("/"))
	if !m.Searching() {
		t.Fatal("search key did not focus search")
	}

	var cmd tea.Cmd
	m, cmd = m.Update(keyMsg("esc"))
	if m.Searching() {
		t.Error("esc should leave search mode")
	}
	if cmd == nil {
		t.Error("esc should trigger a reload of the full list")
	}
}

func TestRenderItemCollapsesTitleWhitespace(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m, model.Conversation{ID: 1, Title: "pasted\ntitle\twith   gaps"})
	m.width = 40

	row := m.renderItem(m.Conversations()[0], 0)
	if strings.ContainsAny(row, "\n\t") {
		t.Errorf("row = %q, want a single line", row)
	}
	if !strings.Contains(row, "pasted title with gaps") {
		t.Errorf("row = %q, want collapsed title", row)
	}
}

func TestCursorClamped(t *testing.T) {
	m := newTestModel(t)
	m = loaded(t, m,
		model.Conversation{ID: 1},
		model.Conversation{ID: 2})

	m, _ = m.Update(keyMsg("up")) // already at top
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("down")) // past the end
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}
