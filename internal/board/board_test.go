package board

import (
	"context"
	"errors"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/fakeapi"
	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/syncer"
)

type stubFetcher struct {
	posts         func() ([]api.Post, error)
	post          func(id string) (api.Post, error)
	addPost       func(api.NewPost) (api.Post, error)
	users         func() ([]api.User, error)
	notifications func(since string) ([]api.Notification, error)

	sinceSeen []string
}

func (s *stubFetcher) FetchPosts(context.Context) ([]api.Post, error) { return s.posts() }
func (s *stubFetcher) FetchPost(_ context.Context, id string) (api.Post, error) {
	return s.post(id)
}
func (s *stubFetcher) AddNewPost(_ context.Context, p api.NewPost) (api.Post, error) {
	return s.addPost(p)
}
func (s *stubFetcher) FetchUsers(context.Context) ([]api.User, error) { return s.users() }
func (s *stubFetcher) FetchNotifications(_ context.Context, since string) ([]api.Notification, error) {
	s.sinceSeen = append(s.sinceSeen, since)
	return s.notifications(since)
}

func newFakeBoard(t *testing.T) *Board {
	t.Helper()
	fake := fakeapi.New(fakeapi.Options{Seed: 7, NotificationsPerFetch: 2})
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return New(state.NewStore(), client, Options{})
}

func TestBoard_SyncAgainstFakeAPI(t *testing.T) {
	b := newFakeBoard(t)
	ctx := context.Background()

	if out := b.RequestUsersSync(ctx); out.Err != nil || !out.Applied {
		t.Fatalf("users sync = %+v", out)
	}
	if out := b.RequestPostsSync(ctx); out.Err != nil || !out.Applied {
		t.Fatalf("posts sync = %+v", out)
	}

	if got := len(b.Users()); got != 3 {
		t.Fatalf("users = %d, want 3", got)
	}
	posts := b.Posts()
	if len(posts) != 9 {
		t.Fatalf("posts = %d, want 9", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if api.CompareDates(posts[i-1].Date, posts[i].Date) < 0 {
			t.Fatalf("posts not newest first at %d: %s before %s", i, posts[i-1].Date, posts[i].Date)
		}
	}
	if got := b.Snapshot().PostsSync.Status(); got != syncer.Succeeded {
		t.Fatalf("posts status = %v, want succeeded", got)
	}
	if byUser := b.PostsByUser("0"); len(byUser) != 3 {
		t.Fatalf("posts by user 0 = %d, want 3", len(byUser))
	}

	if out := b.RequestNotificationsSync(ctx); out.Err != nil {
		t.Fatalf("notifications sync error: %v", out.Err)
	}
	notes := b.Notifications()
	if len(notes) != 2 {
		t.Fatalf("notifications = %d, want 2", len(notes))
	}
	for _, n := range notes {
		if !n.IsNew || n.Read {
			t.Fatalf("fresh notification = %+v, want new and unread", n)
		}
	}
}

func TestBoard_CreatePostAgainstFakeAPI(t *testing.T) {
	b := newFakeBoard(t)
	ctx := context.Background()

	out := b.CreatePost(ctx, api.NewPost{Title: " Hi ", Content: "there", User: "1"})
	if out.Err != nil || !out.Applied {
		t.Fatalf("CreatePost = %+v", out)
	}
	posts := b.Posts()
	if len(posts) != 10 {
		t.Fatalf("posts after create = %d, want the 9 seeded plus the new one", len(posts))
	}
	created, ok := b.Post(posts[0].ID)
	if !ok || created.Title != "Hi" || created.User != "1" {
		t.Fatalf("newest post after create = %+v", posts[0])
	}
	snap := b.Snapshot()
	if got := snap.AddPostSync.Status(); got != syncer.Succeeded {
		t.Fatalf("add post status = %v", got)
	}
	if got := snap.PostsSync.Status(); got != syncer.Succeeded {
		t.Fatalf("posts status after create = %v, want a completed refetch", got)
	}

	out = b.CreatePost(ctx, api.NewPost{Title: "Bad", Content: "error", User: "1"})
	var netErr *api.NetworkError
	if !errors.As(out.Err, &netErr) || netErr.StatusCode != 500 {
		t.Fatalf("CreatePost error = %v, want status 500", out.Err)
	}
	snap = b.Snapshot()
	if snap.AddPostSync.Status() != syncer.Failed || snap.Posts.Len() != 10 {
		t.Fatalf("failed create left status %v and %d posts", snap.AddPostSync.Status(), snap.Posts.Len())
	}
}

func TestBoard_CreatePostRejectsInvalidDraft(t *testing.T) {
	called := false
	f := &stubFetcher{addPost: func(api.NewPost) (api.Post, error) {
		called = true
		return api.Post{}, nil
	}}
	b := New(state.NewStore(), f, Options{})
	before := b.Snapshot()

	out := b.CreatePost(context.Background(), api.NewPost{Title: "t", Content: "   ", User: "0"})
	if !errors.Is(out.Err, ErrInvalidDraft) {
		t.Fatalf("err = %v, want ErrInvalidDraft", out.Err)
	}
	if out.Ticket != 0 || out.Stale() {
		t.Fatalf("invalid draft outcome = %+v, want no ticket and not stale", out)
	}
	if called {
		t.Fatalf("invalid draft reached the API")
	}
	if b.Snapshot() != before {
		t.Fatalf("invalid draft changed state")
	}
}

func TestBoard_FailedSyncKeepsCollection(t *testing.T) {
	fail := false
	f := &stubFetcher{posts: func() ([]api.Post, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []api.Post{{ID: "1", Title: "a", Date: "2024-01-01T00:00:00Z"}}, nil
	}}
	b := New(state.NewStore(), f, Options{})
	ctx := context.Background()

	b.RequestPostsSync(ctx)
	posts := b.Snapshot().Posts

	fail = true
	out := b.RequestPostsSync(ctx)
	if out.Err == nil || out.Err.Error() != "boom" {
		t.Fatalf("outcome err = %v, want boom", out.Err)
	}
	snap := b.Snapshot()
	if snap.PostsSync.Status() != syncer.Failed || snap.PostsSync.Err().Error() != "boom" {
		t.Fatalf("tracker = %v / %v", snap.PostsSync.Status(), snap.PostsSync.Err())
	}
	if snap.Posts != posts {
		t.Fatalf("failed sync replaced the posts collection")
	}

	fail = false
	if out := b.RequestPostsSync(ctx); out.Err != nil {
		t.Fatalf("retry failed: %v", out.Err)
	}
	if b.Snapshot().PostsSync.Err() != nil {
		t.Fatalf("retry did not clear the error")
	}
}

func TestBoard_NotificationsUseLatestDateAndKeepRead(t *testing.T) {
	batches := [][]api.Notification{
		{
			{ID: "a", Date: "2024-01-01T00:00:00Z", Message: "poked you", User: "0"},
			{ID: "b", Date: "2024-01-02T00:00:00Z", Message: "says hi!", User: "1"},
		},
		{
			{ID: "b", Date: "2024-01-02T00:00:00Z", Message: "says hi!", User: "1"},
			{ID: "c", Date: "2024-01-03T00:00:00Z", Message: "sent you a gift", User: "2"},
		},
	}
	f := &stubFetcher{}
	f.notifications = func(string) ([]api.Notification, error) {
		next := batches[0]
		batches = batches[1:]
		return next, nil
	}
	b := New(state.NewStore(), f, Options{})
	ctx := context.Background()

	b.RequestNotificationsSync(ctx)
	if !b.MarkNotificationsRead() {
		t.Fatalf("MarkNotificationsRead reported no change")
	}
	for _, n := range b.Notifications() {
		if !n.Read || !n.IsNew {
			t.Fatalf("after mark read = %+v, want read and still new", n)
		}
	}

	b.RequestNotificationsSync(ctx)
	if !slices.Equal(f.sinceSeen, []string{"", "2024-01-02T00:00:00Z"}) {
		t.Fatalf("since values = %q", f.sinceSeen)
	}

	got := map[string]api.Notification{}
	for _, n := range b.Notifications() {
		got[n.ID] = n
	}
	if len(got) != 3 {
		t.Fatalf("notifications = %v, want 3", got)
	}
	if n := got["b"]; !n.Read || n.IsNew {
		t.Fatalf("resent read notification = %+v", n)
	}
	if n := got["c"]; n.Read || !n.IsNew {
		t.Fatalf("new notification = %+v", n)
	}
}

func TestBoard_MarkNotificationsReadEmpty(t *testing.T) {
	b := New(state.NewStore(), &stubFetcher{}, Options{})
	if b.MarkNotificationsRead() {
		t.Fatalf("MarkNotificationsRead changed an empty state")
	}
}

func TestBoard_LocalEditsAndReactions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := New(state.NewStore(), &stubFetcher{}, Options{
		Now:   func() time.Time { return now },
		NewID: func() string { return "local-1" },
	})

	p, err := b.AddPostLocal(api.NewPost{Title: "Draft", Content: "body", User: "2"})
	if err != nil {
		t.Fatalf("AddPostLocal returned error: %v", err)
	}
	if p.ID != "local-1" || p.Date != "2024-05-01T12:00:00Z" || len(p.Reactions) != len(api.ReactionKinds) {
		t.Fatalf("local post = %+v", p)
	}
	if _, err := b.AddPostLocal(api.NewPost{Title: "x"}); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("AddPostLocal invalid err = %v", err)
	}

	title := "Final"
	if !b.UpdatePost("local-1", PostPatch{Title: &title}) {
		t.Fatalf("UpdatePost reported no change")
	}
	got, _ := b.Post("local-1")
	if got.Title != "Final" || got.Content != "body" {
		t.Fatalf("edited post = %+v", got)
	}
	if b.UpdatePost("missing", PostPatch{Title: &title}) {
		t.Fatalf("UpdatePost changed a missing post")
	}

	before := b.Snapshot()
	b.AddReaction("local-1", api.Heart)
	b.AddReaction("local-1", api.Heart)
	got, _ = b.Post("local-1")
	if got.Reactions[api.Heart] != 2 || got.Reactions[api.Rocket] != 0 {
		t.Fatalf("reactions = %v", got.Reactions)
	}
	if before.Posts.Len() != 1 {
		t.Fatalf("earlier snapshot changed")
	}
	if prev, _ := before.Posts.Get("local-1"); prev.Reactions[api.Heart] != 0 {
		t.Fatalf("reaction leaked into earlier snapshot")
	}

	snap := b.Snapshot()
	if b.AddReaction("missing", api.Heart) || b.AddReaction("local-1", api.ReactionKind("wave")) {
		t.Fatalf("AddReaction changed state for an unknown target")
	}
	if b.Snapshot() != snap {
		t.Fatalf("no-op reaction published a snapshot")
	}
}

func TestBoard_RefreshPost(t *testing.T) {
	f := &stubFetcher{post: func(id string) (api.Post, error) {
		if id == "gone" {
			return api.Post{}, &api.NetworkError{Method: "GET", Resource: "posts/gone", StatusCode: 404, Err: api.ErrNotFound}
		}
		return api.Post{ID: id, Title: "fresh", Date: "2024-01-01T00:00:00Z"}, nil
	}}
	b := New(state.NewStore(), f, Options{})
	ctx := context.Background()

	if err := b.RefreshPost(ctx, "p1"); err != nil {
		t.Fatalf("RefreshPost returned error: %v", err)
	}
	if p, ok := b.Post("p1"); !ok || p.Title != "fresh" {
		t.Fatalf("refreshed post = %+v, %v", p, ok)
	}
	if err := b.RefreshPost(ctx, "gone"); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("RefreshPost err = %v, want ErrNotFound", err)
	}
}

func TestBoard_ReadsReturnCopies(t *testing.T) {
	b := New(state.NewStore(), nil, Options{})
	if _, err := b.AddPostLocal(api.NewPost{Title: "kept", Content: "c", User: "0"}); err != nil {
		t.Fatalf("AddPostLocal: %v", err)
	}

	first := b.Posts()
	first[0].Title = "changed by caller"
	if got := b.Posts()[0].Title; got != "kept" {
		t.Fatalf("Posts()[0].Title = %q after caller edit, want kept", got)
	}

	byUser := b.PostsByUser("0")
	byUser[0].Title = "changed by caller"
	if got := b.PostsByUser("0")[0].Title; got != "kept" {
		t.Fatalf("PostsByUser()[0].Title = %q after caller edit, want kept", got)
	}
}
