package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/syncer"
)

// Layout constants.
const (
	headerLines  = 2
	footerLines  = 1
	minListLines = 3
	authorColumn = 18
	agoColumn    = 16
)

// renderMain renders the header, the active view and the footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewNotifications:
		b.WriteString(m.renderNotifications())
	default:
		b.WriteString(m.renderPosts())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("postboard")}

	if m.snap != nil {
		parts = append(parts,
			m.trackerBadge("posts", m.snap.PostsSync),
			m.trackerBadge("users", m.snap.UsersSync),
			m.trackerBadge("notifications", m.snap.NotificationsSync),
		)
		if n := state.SelectUnreadCount(m.snap); n > 0 {
			parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%d unread", n)))
		}
		if m.snap.PostsSync.Loading() || m.snap.NotificationsSync.Loading() || m.snap.UsersSync.Loading() {
			parts = append(parts, m.spinner.View())
		}
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) trackerBadge(name string, tr syncer.Tracker) string {
	styles := m.theme.Styles()
	return styles.StatusStyle(tr.Status().String()).Render(name)
}

func (m Model) renderCommandBar() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var parts []string

	switch m.currentView {
	case ViewNotifications:
		parts = append(parts, "Notifications")
	default:
		parts = append(parts, "Posts")
		if m.authorFilter != "" && m.snap != nil {
			parts = append(parts, "by "+state.SelectAuthorName(m.snap, m.authorFilter))
		}
		if q := m.search.Value(); q != "" || m.searching {
			parts = append(parts, m.search.View())
		}
	}
	if m.flash != "" {
		parts = append(parts, styles.WarningText.Render(m.flash))
	}
	if m.snap != nil && !m.snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+timeAgo(m.snap.LastUpdated, m.now())))
	}

	return styles.Footer.Width(m.width).Render(strings.Join(parts, " · "))
}

// listHeight is the number of post rows shown above the detail pane.
func (m Model) listHeight() int {
	body := m.height - headerLines - footerLines
	return max(minListLines, body/2)
}

func (m *Model) resizeDetail() {
	body := m.height - headerLines - footerLines
	m.detail.Width = max(0, m.width-4)
	m.detail.Height = max(1, body-m.listHeight()-2)
}

// updateDetail refreshes the detail pane for the selected post.
func (m *Model) updateDetail() {
	p, ok := m.selectedPost()
	if !ok {
		m.detail.SetContent("")
		return
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(p.Title))
	b.WriteString("\n")
	byline := "by " + state.SelectAuthorName(m.snap, p.User)
	if ago := timeAgo(p.ParsedDate(), m.now()); ago != "" {
		byline += " · " + ago
	}
	b.WriteString(styles.MutedText.Render(byline))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(max(10, m.detail.Width)).Render(p.Content))
	b.WriteString("\n\n")
	b.WriteString(reactionLine(p.Reactions))

	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

func (m Model) renderPosts() string {
	styles := m.theme.Styles()
	height := m.listHeight()
	posts := m.posts()

	var rows []string
	switch {
	case m.snap == nil:
	case len(posts) == 0 && m.snap.PostsSync.Loading():
		rows = append(rows, m.spinner.View()+styles.MutedText.Render(" Loading posts…"))
	case len(posts) == 0 && m.snap.PostsSync.Status() == syncer.Failed:
		rows = append(rows, styles.DangerText.Render(fmt.Sprintf("Could not load posts: %v", m.snap.PostsSync.Err())))
	case len(posts) == 0:
		rows = append(rows, styles.FaintText.Render("No posts"))
	}

	start := 0
	if m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(len(posts), start+height)

	titleWidth := max(10, m.width-authorColumn-agoColumn-6)
	for i := start; i < end; i++ {
		p := posts[i]
		line := fmt.Sprintf("%-*s  %-*s  %s",
			titleWidth, truncate(p.Title, titleWidth),
			authorColumn, truncate(state.SelectAuthorName(m.snap, p.User), authorColumn),
			timeAgo(p.ParsedDate(), m.now()),
		)
		if i == m.selectedRow {
			rows = append(rows, styles.Selected.Width(m.width).Render(line))
			continue
		}
		rows = append(rows, styles.Text.Render(line))
	}
	for len(rows) < height {
		rows = append(rows, "")
	}

	list := strings.Join(rows, "\n")
	detail := styles.Pane.Width(max(0, m.width-2)).Render(m.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, list, detail)
}

func (m Model) renderNotifications() string {
	styles := m.theme.Styles()
	if m.snap == nil {
		return ""
	}
	views := state.SelectNotificationViews(m.snap)
	body := m.height - headerLines - footerLines

	var rows []string
	switch {
	case len(views) == 0 && m.snap.NotificationsSync.Loading():
		rows = append(rows, m.spinner.View()+styles.MutedText.Render(" Loading notifications…"))
	case m.snap.NotificationsSync.Status() == syncer.Failed:
		rows = append(rows, styles.DangerText.Render(fmt.Sprintf("Could not load notifications: %v", m.snap.NotificationsSync.Err())))
	case len(views) == 0:
		rows = append(rows, styles.FaintText.Render("No notifications yet. Press r to refresh."))
	}

	for _, n := range views {
		if len(rows) >= body {
			break
		}
		marker := "  "
		text := styles.Text
		if n.IsNew {
			marker = styles.AccentText.Render("● ")
			text = styles.AccentText
		}
		line := marker +
			text.Bold(true).Render(n.UserName) + " " +
			text.Render(n.Message) + "  " +
			styles.FaintText.Render(timeAgo(n.ParsedDate(), m.now()))
		rows = append(rows, line)
	}
	for len(rows) < body {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	h := m.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(h.FullHelpView(m.keys.FullHelp()))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

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
