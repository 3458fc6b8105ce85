package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/state"
)

// timeAgo renders t relative to now, e.g. "3 minutes ago". The zero time
// renders empty.
func timeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// reactionLine renders every reaction counter in display order.
func reactionLine(r api.Reactions) string {
	parts := make([]string, 0, len(api.ReactionKinds))
	for _, kind := range api.ReactionKinds {
		parts = append(parts, fmt.Sprintf("%s %d", kind.Emoji(), r[kind]))
	}
	return strings.Join(parts, "  ")
}

func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// visiblePosts applies the title search and author filter to the snapshot.
// A query starting with @ matches author names instead of titles.
func visiblePosts(snap *state.State, authorID, query string) []api.Post {
	query = strings.TrimSpace(query)
	var posts []api.Post
	switch {
	case strings.HasPrefix(query, "@"):
		posts = postsByAuthorName(snap, strings.TrimPrefix(query, "@"))
	case query != "":
		posts = state.SelectPostsMatching(snap, query)
	case authorID != "":
		return state.SelectPostsByUser(snap, authorID)
	default:
		return state.SelectAllPosts(snap)
	}
	if authorID == "" {
		return posts
	}
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if p.User == authorID {
			out = append(out, p)
		}
	}
	return out
}

func postsByAuthorName(snap *state.State, name string) []api.Post {
	users := state.SelectUsersMatching(snap, name)
	ids := make(map[string]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	var out []api.Post
	for _, p := range state.SelectAllPosts(snap) {
		if ids[p.User] {
			out = append(out, p)
		}
	}
	return out
}

// nextAuthor cycles "" (everyone) through each user id and back.
func nextAuthor(users []api.User, current string) string {
	if len(users) == 0 {
		return ""
	}
	if current == "" {
		return users[0].ID
	}
	for i, u := range users {
		if u.ID == current {
			if i+1 < len(users) {
				return users[i+1].ID
			}
			return ""
		}
	}
	return ""
}

// reactionForKey maps the number keys 1-5 to reactions.
func reactionForKey(k string) (api.ReactionKind, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return "", false
	}
	idx := int(k[0] - '1')
	if idx >= len(api.ReactionKinds) {
		return "", false
	}
	return api.ReactionKinds[idx], true
}
