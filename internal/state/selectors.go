package state

import (
	"cmp"
	"slices"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/entity"
	"github.com/five82/postboard/internal/memo"
)

// UnknownAuthor is shown for posts whose user is not loaded.
const UnknownAuthor = "Unknown author"

func postsOf(s *State) *entity.Collection[api.Post]                 { return s.Posts }
func usersOf(s *State) *entity.Collection[api.User]                 { return s.Users }
func notificationsOf(s *State) *entity.Collection[api.Notification] { return s.Notifications }

// SelectAllPosts returns posts newest first.
var SelectAllPosts = memo.Select(postsOf, (*entity.Collection[api.Post]).All)

// SelectPostIDs returns post ids newest first.
var SelectPostIDs = memo.Select(postsOf, (*entity.Collection[api.Post]).IDs)

// SelectPostByID looks up one post.
func SelectPostByID(s *State, id string) (api.Post, bool) {
	return s.Posts.Get(id)
}

// SelectPostsByUser returns the posts written by userID, newest first.
var SelectPostsByUser = memo.SelectArg(postsOf, func(posts *entity.Collection[api.Post], userID string) []api.Post {
	var out []api.Post
	for _, p := range posts.All() {
		if p.User == userID {
			out = append(out, p)
		}
	}
	return out
})

// postTitles implements fuzzy.Source over lowercased titles.
type postTitles []api.Post

func (p postTitles) String(i int) string { return strings.ToLower(p[i].Title) }
func (p postTitles) Len() int            { return len(p) }

// SelectPostsMatching fuzzy-matches query against post titles, best match
// first. An empty query returns every post.
var SelectPostsMatching = memo.SelectArg(postsOf, func(posts *entity.Collection[api.Post], query string) []api.Post {
	all := posts.All()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, postTitles(all))
	out := make([]api.Post, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index]
	}
	return out
})

// SelectAllUsers returns users in server order.
var SelectAllUsers = memo.Select(usersOf, (*entity.Collection[api.User]).All)

// SelectUserByID looks up one user.
func SelectUserByID(s *State, id string) (api.User, bool) {
	return s.Users.Get(id)
}

// SelectAuthorName returns the user's name, or UnknownAuthor.
func SelectAuthorName(s *State, userID string) string {
	if u, ok := s.Users.Get(userID); ok && u.Name != "" {
		return u.Name
	}
	return UnknownAuthor
}

// SelectUsersMatching fuzzy-matches query against user names, closest match
// first. An empty query returns every user.
var SelectUsersMatching = memo.SelectArg(usersOf, func(users *entity.Collection[api.User], query string) []api.User {
	all := users.All()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	names := make([]string, len(all))
	for i, u := range all {
		names[i] = u.Name
	}
	ranks := fuzzysearch.RankFindFold(query, names)
	slices.SortStableFunc(ranks, func(a, b fuzzysearch.Rank) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	out := make([]api.User, len(ranks))
	for i, r := range ranks {
		out[i] = all[r.OriginalIndex]
	}
	return out
})

// SelectAllNotifications returns notifications newest first.
var SelectAllNotifications = memo.Select(notificationsOf, (*entity.Collection[api.Notification]).All)

// SelectUnreadCount counts notifications not yet marked read.
var SelectUnreadCount = memo.Select(notificationsOf, func(c *entity.Collection[api.Notification]) int {
	n := 0
	for _, note := range c.All() {
		if !note.Read {
			n++
		}
	}
	return n
})

// NotificationView pairs a notification with its author's display name.
type NotificationView struct {
	api.Notification
	UserName string
}

type notificationInputs = memo.Pair[*entity.Collection[api.Notification], *entity.Collection[api.User]]

// SelectNotificationViews joins notifications with user names.
var SelectNotificationViews = memo.Select(
	func(s *State) notificationInputs {
		return notificationInputs{First: s.Notifications, Second: s.Users}
	},
	func(in notificationInputs) []NotificationView {
		notes := in.First.All()
		out := make([]NotificationView, len(notes))
		for i, n := range notes {
			name := "Unknown user"
			if u, ok := in.Second.Get(n.User); ok {
				name = u.Name
			}
			out[i] = NotificationView{Notification: n, UserName: name}
		}
		return out
	},
)
