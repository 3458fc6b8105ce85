package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/board"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/syncer"
)

// View represents the current active view.
type View int

const (
	ViewPosts View = iota
	ViewNotifications
)

const defaultUIInterval = time.Second

// Options configures the UI.
type Options struct {
	Context      context.Context
	Board        *board.Board
	Logger       *slog.Logger
	PollTick     time.Duration
	ThemeName    string
	AuthorFilter string
	PrefsPath    string
	// Now overrides the clock used for relative timestamps.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	board     *board.Board
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time

	theme       Theme
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snap *state.State

	selectedRow  int
	authorFilter string

	searching bool
	search    textinput.Model

	detail  viewport.Model
	compose composeForm

	// flash is a one-line message shown in the footer until the next key.
	flash string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultUIInterval
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.ThemeName)

	search := textinput.New()
	search.Placeholder = "Search titles, or @author..."
	search.CharLimit = 100
	search.Prompt = "/"

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Styles().AccentText

	m := Model{
		ctx:          ctx,
		board:        opts.Board,
		logger:       logger,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		now:          now,
		theme:        theme,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		currentView:  ViewPosts,
		authorFilter: opts.AuthorFilter,
		search:       search,
		detail:       viewport.New(0, 0),
	}
	if m.board != nil {
		m.snap = m.board.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.board != nil {
		cmds = append(cmds,
			fetchSnapshotCmd(m.board),
			syncCmd(m.ctx, "users", m.board.RequestUsersSync),
			syncCmd(m.ctx, "posts", m.board.RequestPostsSync),
		)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeDetail()
		m.updateDetail()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.board), tickCmd(m.pollTick))

	case snapshotMsg:
		m.applySnapshot(msg.snap)
		return m, nil

	case syncDoneMsg:
		if msg.out.Err != nil && msg.out.Applied {
			m.flash = fmt.Sprintf("%s: %v", msg.resource, msg.out.Err)
		}
		return m, fetchSnapshotCmd(m.board)

	case postSavedMsg:
		return m.handlePostSaved(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.compose.active() {
		return m.renderCompose()
	}
	return m.renderMain()
}

func (m *Model) applySnapshot(snap *state.State) {
	if snap == nil || snap == m.snap {
		return
	}
	m.snap = snap
	m.selectedRow = clamp(m.selectedRow, 0, len(m.posts())-1)
	m.updateDetail()
}

// posts returns the list the posts view currently shows.
func (m Model) posts() []api.Post {
	if m.snap == nil {
		return nil
	}
	return visiblePosts(m.snap, m.authorFilter, m.search.Value())
}

func (m Model) selectedPost() (api.Post, bool) {
	posts := m.posts()
	if m.selectedRow < 0 || m.selectedRow >= len(posts) {
		return api.Post{}, false
	}
	return posts[m.selectedRow], true
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.compose.active() {
		return m.handleComposeKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewPosts {
			return m.showNotifications()
		}
		m.currentView = ViewPosts
		return m, nil

	case key.Matches(msg, m.keys.ViewPosts):
		m.currentView = ViewPosts
		return m, nil

	case key.Matches(msg, m.keys.ViewNotifications):
		return m.showNotifications()
	}

	switch m.currentView {
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	default:
		return m.handlePostsKey(msg)
	}
}

// showNotifications switches views and marks everything read. Entries stay
// highlighted as new until the next notifications fetch.
func (m Model) showNotifications() (tea.Model, tea.Cmd) {
	m.currentView = ViewNotifications
	if m.board == nil {
		return m, nil
	}
	m.board.MarkNotificationsRead()
	return m, fetchSnapshotCmd(m.board)
}

func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.posts())

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
			m.updateDetail()
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
			m.updateDetail()
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		m.updateDetail()
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = clamp(count-1, 0, count-1)
		m.updateDetail()
	case key.Matches(msg, m.keys.DetailDown):
		m.detail.HalfPageDown()
	case key.Matches(msg, m.keys.DetailUp):
		m.detail.HalfPageUp()

	case key.Matches(msg, m.keys.Escape):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.selectedRow = 0
			m.updateDetail()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.board == nil {
			return m, nil
		}
		cmds := []tea.Cmd{syncCmd(m.ctx, "posts", m.board.RequestPostsSync)}
		if p, ok := m.selectedPost(); ok {
			cmds = append(cmds, refreshPostCmd(m.ctx, m.board, p.ID))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleAuthor):
		if m.snap == nil {
			return m, nil
		}
		m.authorFilter = nextAuthor(state.SelectAllUsers(m.snap), m.authorFilter)
		m.selectedRow = 0
		m.updateDetail()
		m.savePrefs()

	case key.Matches(msg, m.keys.Compose), key.Matches(msg, m.keys.ComposeLocal):
		mode := composeRemote
		if key.Matches(msg, m.keys.ComposeLocal) {
			mode = composeLocal
		}
		var users []api.User
		if m.snap != nil {
			users = state.SelectAllUsers(m.snap)
		}
		m.compose = newComposeForm(mode, users)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.selectedPost(); ok {
			m.compose = newEditForm(p)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.React):
		kind, ok := reactionForKey(msg.String())
		p, selected := m.selectedPost()
		if !ok || !selected || m.board == nil {
			return m, nil
		}
		if m.board.AddReaction(p.ID, kind) {
			return m, fetchSnapshotCmd(m.board)
		}
	}

	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		if m.board != nil {
			return m, syncCmd(m.ctx, "notifications", m.board.RequestNotificationsSync)
		}
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewPosts
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.selectedRow = 0
		m.updateDetail()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedRow = 0
	m.updateDetail()
	return m, cmd
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.compose.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.compose = composeForm{}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.compose.nextField()
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.compose.prevField()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitCompose()
	}

	if m.compose.focus == fieldAuthor {
		switch msg.String() {
		case "left", "h":
			m.compose.cycleAuthor(-1)
		case "right", "l", " ":
			m.compose.cycleAuthor(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.updateInput(msg)
	m.compose.err = ""
	return m, cmd
}

func (m Model) submitCompose() (tea.Model, tea.Cmd) {
	f := m.compose
	if !f.canSave() {
		m.compose.err = "Title, content and author are required."
		return m, nil
	}
	if m.board == nil {
		return m, nil
	}

	switch f.mode {
	case composeEdit:
		d := f.draft()
		m.board.UpdatePost(f.editID, board.PostPatch{Title: &d.Title, Content: &d.Content})
		m.compose = composeForm{}
		return m, fetchSnapshotCmd(m.board)

	case composeLocal:
		if _, err := m.board.AddPostLocal(f.draft()); err != nil {
			m.compose.err = err.Error()
			return m, nil
		}
		m.compose = composeForm{}
		return m, fetchSnapshotCmd(m.board)

	default:
		if m.snap != nil && m.snap.AddPostSync.Loading() {
			return m, nil
		}
		m.compose.saving = true
		return m, createPostCmd(m.ctx, m.board, f.draft())
	}
}

func (m Model) handlePostSaved(msg postSavedMsg) (tea.Model, tea.Cmd) {
	m.compose.saving = false
	if msg.out.Err != nil {
		m.compose.err = fmt.Sprintf("Failed to save the post: %v", msg.out.Err)
		m.logger.Warn("save post failed", "error", msg.out.Err)
		return m, fetchSnapshotCmd(m.board)
	}
	if m.compose.mode == composeRemote {
		m.compose = composeForm{}
	}
	m.flash = "Post saved"
	return m, fetchSnapshotCmd(m.board)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, AuthorFilter: m.authorFilter}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snap *state.State
}

type syncDoneMsg struct {
	resource string
	out      syncer.Outcome
}

type postSavedMsg struct {
	out syncer.Outcome
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(b *board.Board) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg{snap: b.Snapshot()}
	}
}

func syncCmd(ctx context.Context, resource string, fn func(context.Context) syncer.Outcome) tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{resource: resource, out: fn(ctx)}
	}
}

func createPostCmd(ctx context.Context, b *board.Board, draft api.NewPost) tea.Cmd {
	return func() tea.Msg {
		return postSavedMsg{out: b.CreatePost(ctx, draft)}
	}
}

func refreshPostCmd(ctx context.Context, b *board.Board, id string) tea.Cmd {
	return func() tea.Msg {
		// Failures are logged by the board; the list refresh reports its own.
		_ = b.RefreshPost(ctx, id)
		return snapshotMsg{snap: b.Snapshot()}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
