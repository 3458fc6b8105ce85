package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/board"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/state"
)

func newTestModel(t *testing.T) (Model, *board.Board, *state.Store) {
	t.Helper()
	store := state.NewStore()
	store.Update(func(s *state.State) bool {
		s.Users = state.Users.SetAll(s.Users, []api.User{{ID: "0", Name: "Ann"}, {ID: "1", Name: "Bob"}})
		s.Posts = state.Posts.UpsertMany(s.Posts, []api.Post{
			{ID: "p1", User: "0", Title: "Older", Content: "first", Date: "2024-01-01T00:00:00Z", Reactions: api.NewReactions()},
			{ID: "p2", User: "1", Title: "Newer", Content: "second", Date: "2024-01-02T00:00:00Z", Reactions: api.NewReactions()},
		})
		return true
	})
	b := board.New(store, nil, board.Options{})

	m := New(Options{
		Board:     b,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) },
	})
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, b, store
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SelectionAndReaction(t *testing.T) {
	m, b, _ := newTestModel(t)

	if p, ok := m.selectedPost(); !ok || p.ID != "p2" {
		t.Fatalf("initial selection = %v, %v, want newest post", p.ID, ok)
	}

	m = send(m, runes("j"))
	if p, _ := m.selectedPost(); p.ID != "p1" {
		t.Fatalf("after j selection = %q, want p1", p.ID)
	}
	m = send(m, runes("j"))
	if m.selectedRow != 1 {
		t.Fatalf("selection moved past the end: %d", m.selectedRow)
	}

	send(m, runes("3"))
	if p, _ := b.Post("p1"); p.Reactions[api.Heart] != 1 {
		t.Fatalf("heart count = %d, want 1", p.Reactions[api.Heart])
	}
}

func TestModel_AuthorFilterSavesPrefs(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(m, runes("a"))
	if m.authorFilter != "0" {
		t.Fatalf("authorFilter = %q, want 0", m.authorFilter)
	}
	posts := m.posts()
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("filtered posts = %v", posts)
	}
	if got := prefs.Load(m.prefsPath); got.AuthorFilter != "0" {
		t.Fatalf("saved AuthorFilter = %q, want 0", got.AuthorFilter)
	}

	m = send(m, runes("a"), runes("a"))
	if m.authorFilter != "" || len(m.posts()) != 2 {
		t.Fatalf("filter did not cycle back to everyone: %q", m.authorFilter)
	}
}

func TestModel_SearchFiltersTitles(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = send(m, runes("/"), runes("old"))
	if !m.searching {
		t.Fatalf("search mode not entered")
	}
	if posts := m.posts(); len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("search results = %v", posts)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching || m.search.Value() != "old" {
		t.Fatalf("enter should keep the query and leave search mode")
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.search.Value() != "" || len(m.posts()) != 2 {
		t.Fatalf("esc did not clear the search")
	}
}

func TestModel_ComposeLocalPost(t *testing.T) {
	m, b, store := newTestModel(t)

	m = send(m, runes("C"))
	if !m.compose.active() || m.compose.mode != composeLocal {
		t.Fatalf("compose form not opened")
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.compose.err == "" || store.Snapshot().Posts.Len() != 2 {
		t.Fatalf("empty form saved")
	}

	m = send(m,
		runes("Hello"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("from the terminal"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	if m.compose.active() {
		t.Fatalf("form still open after save: %q", m.compose.err)
	}

	var found *api.Post
	for _, p := range b.Posts() {
		if p.Title == "Hello" {
			found = &p
		}
	}
	if found == nil || found.Content != "from the terminal" || found.User != "1" {
		t.Fatalf("local post = %+v", found)
	}
}

func TestModel_EditPost(t *testing.T) {
	m, b, _ := newTestModel(t)

	m = send(m, runes("E"))
	if m.compose.mode != composeEdit || m.compose.editID != "p2" {
		t.Fatalf("edit form = %+v", m.compose)
	}
	m = send(m, runes("!"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if p, _ := b.Post("p2"); p.Title != "Newer!" || p.Content != "second" {
		t.Fatalf("edited post = %+v", p)
	}
}

func TestModel_NotificationsViewMarksRead(t *testing.T) {
	m, _, store := newTestModel(t)
	store.Update(func(s *state.State) bool {
		s.Notifications = state.Notifications.UpsertMany(s.Notifications, []api.Notification{
			{ID: "n1", User: "0", Message: "says hi!", Date: "2024-01-02T10:00:00Z", IsNew: true},
		})
		return true
	})

	m = send(m, runes("n"))
	if m.currentView != ViewNotifications {
		t.Fatalf("view = %v, want notifications", m.currentView)
	}
	n, _ := store.Snapshot().Notifications.Get("n1")
	if !n.Read || !n.IsNew {
		t.Fatalf("notification = %+v, want read and still new", n)
	}

	m = send(m, snapshotMsg{snap: store.Snapshot()})
	out := m.View()
	if !strings.Contains(out, "says hi!") || !strings.Contains(out, "Ann") {
		t.Fatalf("notifications view missing entry:\n%s", out)
	}
}

func TestModel_ViewRendersPosts(t *testing.T) {
	m, _, _ := newTestModel(t)

	out := m.View()
	for _, want := range []string{"postboard", "Newer", "Older", "Bob"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	m = send(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = send(m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}
