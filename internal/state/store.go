package state

import (
	"sync"
	"time"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/entity"
	"github.com/five82/postboard/internal/syncer"
)

// State is one immutable snapshot of everything the client knows.
// Never modify a *State obtained from Store.Snapshot; go through Store.Update.
type State struct {
	Posts         *entity.Collection[api.Post]
	Users         *entity.Collection[api.User]
	Notifications *entity.Collection[api.Notification]

	PostsSync         syncer.Tracker
	UsersSync         syncer.Tracker
	NotificationsSync syncer.Tracker
	AddPostSync       syncer.Tracker

	Version     uint64
	LastUpdated time.Time
}

var (
	// Posts orders newest first.
	Posts = entity.NewAdapter(
		func(p api.Post) string { return p.ID },
		entity.WithComparer(func(a, b api.Post) int { return api.CompareDates(b.Date, a.Date) }),
		entity.WithMerge(mergePost),
	)

	// Users keeps server order.
	Users = entity.NewAdapter(func(u api.User) string { return u.ID })

	// Notifications orders newest first. A notification once read stays read
	// when the server sends it again.
	Notifications = entity.NewAdapter(
		func(n api.Notification) string { return n.ID },
		entity.WithComparer(func(a, b api.Notification) int { return api.CompareDates(b.Date, a.Date) }),
		entity.WithMerge(func(existing, incoming api.Notification) api.Notification {
			incoming.Read = incoming.Read || existing.Read
			return incoming
		}),
	)
)

// mergePost overwrites fields the incoming post carries and keeps the rest.
func mergePost(existing, incoming api.Post) api.Post {
	merged := existing
	if incoming.Title != "" {
		merged.Title = incoming.Title
	}
	if incoming.Content != "" {
		merged.Content = incoming.Content
	}
	if incoming.User != "" {
		merged.User = incoming.User
	}
	if incoming.Date != "" {
		merged.Date = incoming.Date
	}
	if incoming.Reactions != nil {
		merged.Reactions = incoming.Reactions
	}
	return merged
}

func initial() *State {
	return &State{
		Posts:         Posts.Empty(),
		Users:         Users.Empty(),
		Notifications: Notifications.Empty(),
	}
}

// Store owns the current snapshot and serializes transitions.
type Store struct {
	mu       sync.RWMutex
	snapshot *State
}

// NewStore returns a Store holding an empty state.
func NewStore() *Store {
	return &Store{snapshot: initial()}
}

// Snapshot returns the current state. The same pointer is returned until the
// next successful Update, which is what selector memoization keys on.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		s.snapshot = initial()
	}
	return s.snapshot
}

// Update runs fn on a copy of the current state. When fn returns true the
// copy becomes the new snapshot; otherwise nothing changes. fn runs under the
// store lock and must not block or call back into the Store.
func (s *Store) Update(fn func(*State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		s.snapshot = initial()
	}
	next := *s.snapshot
	if !fn(&next) {
		return false
	}
	next.Version = s.snapshot.Version + 1
	next.LastUpdated = time.Now()
	s.snapshot = &next
	return true
}

// Ensure Store can drive sync controllers at compile time.
var _ syncer.Updater[State] = (*Store)(nil)
