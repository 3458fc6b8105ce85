// Package board is the client-side service for posts, users and
// notifications. It owns the sync controllers, exposes the read and write
// interface the UI uses, and keeps every remote failure inside state.
package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/entity"
	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/syncer"
)

// ErrInvalidDraft is reported when a new post lacks a title, content or author.
var ErrInvalidDraft = errors.New("post needs a title, content and author")

// Options configure a Board.
type Options struct {
	Logger *slog.Logger
	// Now and NewID override the clock and id source for locally created posts.
	Now   func() time.Time
	NewID func() string
}

// PostPatch carries the editable fields of a post. Nil fields are left alone.
type PostPatch struct {
	Title   *string
	Content *string
}

// Board binds the state store to the API.
//
// Slice-returning reads hand out a copy of the cached selector result. The
// Reactions map of each post is still shared with the store and must be
// treated as read-only; use AddReaction to change it.
type Board struct {
	store  *state.Store
	client api.Fetcher
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	posts         *syncer.Controller[state.State, []api.Post]
	users         *syncer.Controller[state.State, []api.User]
	notifications *syncer.Controller[state.State, []api.Notification]
	addPost       *syncer.Controller[state.State, api.Post]
}

// New builds a Board over store and client.
func New(store *state.Store, client api.Fetcher, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	b := &Board{
		store:  store,
		client: client,
		logger: logger,
		now:    now,
		newID:  newID,
	}

	b.posts = syncer.New(syncer.Config[state.State, []api.Post]{
		Name:    "posts",
		Store:   store,
		Tracker: func(s *state.State) *syncer.Tracker { return &s.PostsSync },
		Fetch: func(ctx context.Context, _ state.State) ([]api.Post, error) {
			return client.FetchPosts(ctx)
		},
		Apply: func(s *state.State, posts []api.Post) {
			s.Posts = state.Posts.UpsertMany(s.Posts, posts)
		},
		Logger: logger,
	})

	b.users = syncer.New(syncer.Config[state.State, []api.User]{
		Name:    "users",
		Store:   store,
		Tracker: func(s *state.State) *syncer.Tracker { return &s.UsersSync },
		Fetch: func(ctx context.Context, _ state.State) ([]api.User, error) {
			return client.FetchUsers(ctx)
		},
		Apply: func(s *state.State, users []api.User) {
			s.Users = state.Users.SetAll(s.Users, users)
		},
		Logger: logger,
	})

	b.notifications = syncer.New(syncer.Config[state.State, []api.Notification]{
		Name:    "notifications",
		Store:   store,
		Tracker: func(s *state.State) *syncer.Tracker { return &s.NotificationsSync },
		Fetch: func(ctx context.Context, s state.State) ([]api.Notification, error) {
			return client.FetchNotifications(ctx, latestNotificationDate(s))
		},
		Apply: func(s *state.State, notes []api.Notification) {
			merged := state.Notifications.UpsertMany(s.Notifications, notes)
			s.Notifications = state.Notifications.UpdateAll(merged, func(n api.Notification) api.Notification {
				n.IsNew = !n.Read
				return n
			})
		},
		Logger: logger,
	})

	b.addPost = syncer.New(syncer.Config[state.State, api.Post]{
		Name:    "add-post",
		Store:   store,
		Tracker: func(s *state.State) *syncer.Tracker { return &s.AddPostSync },
		Apply: func(s *state.State, p api.Post) {
			s.Posts = state.Posts.UpsertOne(s.Posts, p)
		},
		Logger: logger,
	})

	return b
}

func latestNotificationDate(s state.State) string {
	all := s.Notifications.All()
	if len(all) == 0 {
		return ""
	}
	return all[0].Date
}

// Snapshot returns the current state.
func (b *Board) Snapshot() *state.State {
	return b.store.Snapshot()
}

// Posts returns every post, newest first.
func (b *Board) Posts() []api.Post {
	return slices.Clone(state.SelectAllPosts(b.store.Snapshot()))
}

// Post returns one post.
func (b *Board) Post(id string) (api.Post, bool) {
	return state.SelectPostByID(b.store.Snapshot(), id)
}

// PostsByUser returns the posts written by userID, newest first.
func (b *Board) PostsByUser(userID string) []api.Post {
	return slices.Clone(state.SelectPostsByUser(b.store.Snapshot(), userID))
}

// SearchPosts fuzzy-matches post titles.
func (b *Board) SearchPosts(query string) []api.Post {
	return slices.Clone(state.SelectPostsMatching(b.store.Snapshot(), query))
}

// Users returns every user.
func (b *Board) Users() []api.User {
	return slices.Clone(state.SelectAllUsers(b.store.Snapshot()))
}

// User returns one user.
func (b *Board) User(id string) (api.User, bool) {
	return state.SelectUserByID(b.store.Snapshot(), id)
}

// Notifications returns every notification, newest first.
func (b *Board) Notifications() []api.Notification {
	return slices.Clone(state.SelectAllNotifications(b.store.Snapshot()))
}

// RequestPostsSync fetches posts and upserts them.
func (b *Board) RequestPostsSync(ctx context.Context) syncer.Outcome {
	return b.posts.Sync(ctx)
}

// RequestUsersSync fetches users and replaces the local set.
func (b *Board) RequestUsersSync(ctx context.Context) syncer.Outcome {
	return b.users.Sync(ctx)
}

// RequestNotificationsSync fetches notifications newer than the newest one
// held, merges them, and recomputes which are new.
func (b *Board) RequestNotificationsSync(ctx context.Context) syncer.Outcome {
	return b.notifications.Sync(ctx)
}

// CreatePost sends draft to the API and stores the post it returns, then
// re-fetches the post list so it matches the server. An invalid draft is
// reported with a zero ticket, without contacting the server.
func (b *Board) CreatePost(ctx context.Context, draft api.NewPost) syncer.Outcome {
	draft = trimDraft(draft)
	if !validDraft(draft) {
		return syncer.Outcome{Err: ErrInvalidDraft}
	}
	out := b.addPost.Run(ctx, func(ctx context.Context, _ state.State) (api.Post, error) {
		return b.client.AddNewPost(ctx, draft)
	})
	if out.Err == nil && out.Applied {
		b.logger.Info("post created", "title", draft.Title, "user", draft.User)
		b.posts.Sync(ctx)
	}
	return out
}

// AddPostLocal stores draft as a new post without contacting the server. The
// post gets a fresh id, the current time and zeroed reactions.
func (b *Board) AddPostLocal(draft api.NewPost) (api.Post, error) {
	draft = trimDraft(draft)
	if !validDraft(draft) {
		return api.Post{}, ErrInvalidDraft
	}
	p := api.Post{
		ID:        b.newID(),
		Title:     draft.Title,
		Content:   draft.Content,
		User:      draft.User,
		Date:      b.now().UTC().Format(time.RFC3339Nano),
		Reactions: api.NewReactions(),
	}
	b.store.Update(func(s *state.State) bool {
		s.Posts = state.Posts.UpsertOne(s.Posts, p)
		return true
	})
	return p, nil
}

// RefreshPost re-fetches one post and upserts it.
func (b *Board) RefreshPost(ctx context.Context, id string) error {
	p, err := b.client.FetchPost(ctx, id)
	if err != nil {
		b.logger.Warn("refresh post failed", "id", id, "error", err)
		return err
	}
	b.store.Update(func(s *state.State) bool {
		next := state.Posts.UpsertOne(s.Posts, p)
		if next == s.Posts {
			return false
		}
		s.Posts = next
		return true
	})
	return nil
}

// UpdatePost applies patch to the post with the given id. It reports false
// when the post is not loaded.
func (b *Board) UpdatePost(id string, patch PostPatch) bool {
	return b.updatePosts(func(posts *entity.Collection[api.Post]) *entity.Collection[api.Post] {
		return state.Posts.UpdateOne(posts, id, func(p api.Post) api.Post {
			if patch.Title != nil {
				p.Title = *patch.Title
			}
			if patch.Content != nil {
				p.Content = *patch.Content
			}
			return p
		})
	})
}

// AddReaction raises one reaction counter on a post. It reports false when
// the post is not loaded or the reaction is unknown.
func (b *Board) AddReaction(postID string, kind api.ReactionKind) bool {
	return b.updatePosts(func(posts *entity.Collection[api.Post]) *entity.Collection[api.Post] {
		return entity.IncrementField(state.Posts, posts, postID, string(kind))
	})
}

// MarkNotificationsRead marks every notification read. IsNew is left as is
// until the next notifications sync.
func (b *Board) MarkNotificationsRead() bool {
	return b.store.Update(func(s *state.State) bool {
		if s.Notifications.Len() == 0 {
			return false
		}
		s.Notifications = state.Notifications.UpdateAll(s.Notifications, func(n api.Notification) api.Notification {
			n.Read = true
			return n
		})
		return true
	})
}

func (b *Board) updatePosts(fn func(*entity.Collection[api.Post]) *entity.Collection[api.Post]) bool {
	return b.store.Update(func(s *state.State) bool {
		next := fn(s.Posts)
		if next == s.Posts {
			return false
		}
		s.Posts = next
		return true
	})
}

func trimDraft(d api.NewPost) api.NewPost {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.User = strings.TrimSpace(d.User)
	return d
}

func validDraft(d api.NewPost) bool {
	return d.Title != "" && d.Content != "" && d.User != ""
}
