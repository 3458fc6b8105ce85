package api

import (
	"maps"
	"strings"
	"time"
)

// ReactionKind names one of the fixed reaction counters on a post.
type ReactionKind string

const (
	ThumbsUp ReactionKind = "thumbsUp"
	Hooray   ReactionKind = "hooray"
	Heart    ReactionKind = "heart"
	Rocket   ReactionKind = "rocket"
	Eyes     ReactionKind = "eyes"
)

// ReactionKinds lists every reaction in display order.
var ReactionKinds = []ReactionKind{ThumbsUp, Hooray, Heart, Rocket, Eyes}

// Emoji returns the glyph shown for the reaction.
func (k ReactionKind) Emoji() string {
	switch k {
	case ThumbsUp:
		return "👍"
	case Hooray:
		return "🎉"
	case Heart:
		return "❤️"
	case Rocket:
		return "🚀"
	case Eyes:
		return "👀"
	default:
		return "?"
	}
}

// Valid reports whether k is one of ReactionKinds.
func (k ReactionKind) Valid() bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Reactions maps each reaction kind to its count.
type Reactions map[ReactionKind]int

// NewReactions returns a counter set with every kind at zero.
func NewReactions() Reactions {
	r := make(Reactions, len(ReactionKinds))
	for _, k := range ReactionKinds {
		r[k] = 0
	}
	return r
}

// Post mirrors /fakeApi/posts entries.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	User      string    `json:"user"`
	Date      string    `json:"date"`
	Reactions Reactions `json:"reactions"`
}

// ParsedDate returns Date as time.Time, or the zero time when unparseable.
func (p Post) ParsedDate() time.Time {
	return parseTime(p.Date)
}

// Increment returns a copy of p with the named reaction raised by one. The
// reaction map is copied so the receiver is left untouched.
func (p Post) Increment(field string) (Post, bool) {
	kind := ReactionKind(field)
	n, ok := p.Reactions[kind]
	if !ok {
		return p, false
	}
	p.Reactions = maps.Clone(p.Reactions)
	p.Reactions[kind] = n + 1
	return p, true
}

// NewPost is the body of POST /fakeApi/posts.
type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	User    string `json:"user"`
}

// User mirrors /fakeApi/users entries.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Notification mirrors /fakeApi/notifications entries. IsNew is client-side
// state and never sent by the server.
type Notification struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
	User    string `json:"user"`
	Read    bool   `json:"read"`
	IsNew   bool   `json:"-"`
}

// ParsedDate returns Date as time.Time, or the zero time when unparseable.
func (n Notification) ParsedDate() time.Time {
	return parseTime(n.Date)
}

// CompareDates orders two dates chronologically. Dates that do not parse
// sort before every valid date, and among themselves by raw text.
func CompareDates(a, b string) int {
	ta, tb := parseTime(a), parseTime(b)
	switch {
	case ta.IsZero() && tb.IsZero():
		return strings.Compare(a, b)
	case ta.IsZero():
		return -1
	case tb.IsZero():
		return 1
	}
	return ta.Compare(tb)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
