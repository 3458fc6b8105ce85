package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/postboard/internal/api"
)

type composeMode int

const (
	composeNone composeMode = iota
	composeRemote
	composeLocal
	composeEdit
)

const (
	fieldTitle = iota
	fieldContent
	fieldAuthor
)

// composeForm backs the new-post and edit-post forms.
type composeForm struct {
	mode   composeMode
	editID string

	title   textinput.Model
	content textinput.Model
	users   []api.User
	author  int // index into users, -1 until chosen
	focus   int

	saving bool
	err    string
}

func newComposeForm(mode composeMode, users []api.User) composeForm {
	title := textinput.New()
	title.Placeholder = "What's on your mind?"
	title.CharLimit = 120
	title.Width = 50

	content := textinput.New()
	content.Placeholder = "Content"
	content.CharLimit = 1000
	content.Width = 50

	f := composeForm{
		mode:    mode,
		title:   title,
		content: content,
		users:   users,
		author:  -1,
	}
	f.setFocus(fieldTitle)
	return f
}

func newEditForm(p api.Post) composeForm {
	f := newComposeForm(composeEdit, nil)
	f.editID = p.ID
	f.title.SetValue(p.Title)
	f.content.SetValue(p.Content)
	return f
}

func (f composeForm) active() bool {
	return f.mode != composeNone
}

func (f composeForm) fieldCount() int {
	if f.mode == composeEdit {
		return 2
	}
	return 3
}

func (f *composeForm) setFocus(field int) {
	f.focus = field
	f.title.Blur()
	f.content.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldContent:
		f.content.Focus()
	}
}

func (f *composeForm) nextField() {
	f.setFocus((f.focus + 1) % f.fieldCount())
}

func (f *composeForm) prevField() {
	n := f.fieldCount()
	f.setFocus((f.focus + n - 1) % n)
}

// cycleAuthor moves the author selection by delta, wrapping around.
func (f *composeForm) cycleAuthor(delta int) {
	if len(f.users) == 0 {
		return
	}
	if f.author < 0 {
		if delta > 0 {
			f.author = 0
		} else {
			f.author = len(f.users) - 1
		}
		return
	}
	f.author = (f.author + delta + len(f.users)) % len(f.users)
}

func (f composeForm) authorID() string {
	if f.author < 0 || f.author >= len(f.users) {
		return ""
	}
	return f.users[f.author].ID
}

func (f composeForm) draft() api.NewPost {
	return api.NewPost{
		Title:   strings.TrimSpace(f.title.Value()),
		Content: strings.TrimSpace(f.content.Value()),
		User:    f.authorID(),
	}
}

// canSave reports whether every required field is filled.
func (f composeForm) canSave() bool {
	d := f.draft()
	if d.Title == "" || d.Content == "" {
		return false
	}
	return f.mode == composeEdit || d.User != ""
}

// updateInput routes a key to the focused text input.
func (f composeForm) updateInput(msg tea.Msg) (composeForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	}
	return f, cmd
}

func (f composeForm) heading() string {
	switch f.mode {
	case composeLocal:
		return "New Post (local only)"
	case composeEdit:
		return "Edit Post"
	default:
		return "Add a New Post"
	}
}

// renderCompose renders the form as a centered modal.
func (m Model) renderCompose() string {
	f := m.compose
	styles := m.theme.Styles()

	field := func(label string, idx int, body string) string {
		box := styles.Input
		if f.focus == idx {
			box = styles.InputFocus
		}
		return styles.MutedText.Render(label) + "\n" + box.Render(body)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.heading()))
	b.WriteString("\n\n")
	b.WriteString(field("Post Title", fieldTitle, f.title.View()))
	b.WriteString("\n")
	b.WriteString(field("Content", fieldContent, f.content.View()))
	b.WriteString("\n")

	if f.mode != composeEdit {
		name := styles.FaintText.Render("choose with ←/→")
		if id := f.authorID(); id != "" {
			name = styles.AccentText.Render(f.users[f.author].Name)
		}
		b.WriteString(field("Author", fieldAuthor, "‹ "+name+" ›"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(m.spinner.View() + styles.MutedText.Render(" Saving…"))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	case f.canSave():
		b.WriteString(styles.SuccessText.Render("ctrl+s to save"))
	default:
		b.WriteString(styles.FaintText.Render("fill every field to save · esc to cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(60)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
