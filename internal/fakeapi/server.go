// Package fakeapi serves an in-memory mock of the board API.
//
// It seeds a handful of users and posts at construction, accepts new posts,
// and invents a few notifications on every notifications request. Posts whose
// content is exactly "error" are rejected with a 500 so failure paths can be
// exercised by hand.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/postboard/internal/api"
)

// Options configure a Server.
type Options struct {
	// Seed makes generated data reproducible. Zero picks a time-based seed.
	Seed int64
	// Latency delays every response.
	Latency time.Duration
	// NotificationsPerFetch fixes how many notifications each fetch invents.
	// Zero invents none; negative picks a random count between 0 and 2.
	NotificationsPerFetch int
	// Now overrides the clock.
	Now    func() time.Time
	Logger *slog.Logger
}

// Server is the mock API state.
type Server struct {
	mu      sync.Mutex
	rng     *rand.Rand
	users   []api.User
	posts   map[string]api.Post
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
	handler http.Handler
}

var notificationTemplates = []string{
	"poked you",
	"says hi!",
	"is glad we're friends",
	"sent you a gift",
}

var seedUsers = []string{"Tianna Jenkins", "Kevin Grant", "Madison Price"}

// New builds a seeded Server.
func New(opts Options) *Server {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		rng:    rand.New(rand.NewSource(seed)),
		posts:  make(map[string]api.Post),
		opts:   opts,
		logger: logger,
		now:    now,
	}
	s.seed()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+api.PathPrefix+"/posts", s.handleListPosts)
	mux.HandleFunc("GET "+api.PathPrefix+"/posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST "+api.PathPrefix+"/posts", s.handleAddPost)
	mux.HandleFunc("GET "+api.PathPrefix+"/users", s.handleListUsers)
	mux.HandleFunc("GET "+api.PathPrefix+"/notifications", s.handleNotifications)
	s.handler = s.withLatency(mux)
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) seed() {
	base := s.now().Add(-time.Duration(len(seedUsers)*3) * 10 * time.Minute)
	for i, name := range seedUsers {
		s.users = append(s.users, api.User{ID: fmt.Sprint(i), Name: name})
	}
	n := 0
	for _, user := range s.users {
		for j := 0; j < 3; j++ {
			p := api.Post{
				ID:        uuid.NewString(),
				Title:     fmt.Sprintf("%s's post #%d", strings.Fields(user.Name)[0], j+1),
				Content:   fmt.Sprintf("Post %d written by %s.", j+1, user.Name),
				User:      user.ID,
				Date:      base.Add(time.Duration(n) * 10 * time.Minute).UTC().Format(time.RFC3339Nano),
				Reactions: api.NewReactions(),
			}
			s.posts[p.ID] = p
			n++
		}
	}
}

func (s *Server) withLatency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := s.opts.Latency; d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		s.logger.Debug("fake api request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	posts := make([]api.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	s.mu.Unlock()

	slices.SortFunc(posts, func(a, b api.Post) int { return strings.Compare(a.ID, b.ID) })
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.posts[r.PathValue("id")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	var draft api.NewPost
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid post body", http.StatusBadRequest)
		return
	}
	if draft.Content == "error" {
		http.Error(w, "server error saving this post", http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	p := api.Post{
		ID:        uuid.NewString(),
		Title:     draft.Title,
		Content:   draft.Content,
		User:      draft.User,
		Date:      s.now().UTC().Format(time.RFC3339Nano),
		Reactions: api.NewReactions(),
	}
	s.mu.Lock()
	s.posts[p.ID] = p
	s.mu.Unlock()

	s.logger.Info("post created", "id", p.ID, "user", p.User)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := slices.Clone(s.users)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

// handleNotifications invents notifications dated between since (or five
// minutes ago) and now.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	since := now.Add(-5 * time.Minute)
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		if parsed.Before(now) {
			since = parsed
		} else {
			since = now
		}
	}

	s.mu.Lock()
	count := s.opts.NotificationsPerFetch
	if count < 0 {
		count = s.rng.Intn(3)
	}
	window := now.Sub(since)
	out := make([]api.Notification, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Nanosecond
		if window > time.Nanosecond {
			offset += time.Duration(s.rng.Int63n(int64(window)))
		}
		user := s.users[s.rng.Intn(len(s.users))]
		out = append(out, api.Notification{
			ID:      uuid.NewString(),
			Date:    since.Add(offset).UTC().Format(time.RFC3339Nano),
			Message: notificationTemplates[s.rng.Intn(len(notificationTemplates))],
			User:    user.ID,
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
