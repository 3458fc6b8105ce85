package state

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/five82/postboard/internal/api"
)

func TestStore_ZeroValueSnapshot(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap == nil || snap.Posts.Len() != 0 || snap.Version != 0 {
		t.Fatalf("zero store snapshot = %#v, want empty state", snap)
	}
	if s.Snapshot() != snap {
		t.Fatalf("Snapshot returned a different pointer without an update")
	}
}

func TestStore_UpdatePublishesNewSnapshot(t *testing.T) {
	s := NewStore()
	before := s.Snapshot()
	start := time.Now()

	changed := s.Update(func(st *State) bool {
		st.Posts = Posts.UpsertMany(st.Posts, []api.Post{{ID: "1", Date: "2024-01-01T00:00:00Z"}})
		return true
	})
	if !changed {
		t.Fatalf("Update returned false")
	}

	after := s.Snapshot()
	if after == before {
		t.Fatalf("Update did not publish a new snapshot")
	}
	if after.Version != before.Version+1 {
		t.Fatalf("Version = %d, want %d", after.Version, before.Version+1)
	}
	if after.LastUpdated.Before(start) {
		t.Fatalf("LastUpdated = %v, want >= %v", after.LastUpdated, start)
	}
	if before.Posts.Len() != 0 {
		t.Fatalf("previous snapshot was modified")
	}
}

func TestStore_UpdateWithoutChangeKeepsSnapshot(t *testing.T) {
	s := NewStore()
	before := s.Snapshot()

	if s.Update(func(st *State) bool {
		st.Version = 99
		return false
	}) {
		t.Fatalf("Update returned true for a declined transition")
	}
	if s.Snapshot() != before || before.Version != 0 {
		t.Fatalf("declined transition leaked into the store")
	}
}

func TestPostsAdapter_DescendingDateScenario(t *testing.T) {
	s := NewStore()
	s.Update(func(st *State) bool {
		st.Posts = Posts.UpsertMany(st.Posts, []api.Post{
			{ID: "1", Date: "2024-01-01"},
			{ID: "2", Date: "2024-01-02"},
		})
		return true
	})

	got := SelectPostIDs(s.Snapshot())
	if !slices.Equal(got, []string{"2", "1"}) {
		t.Fatalf("post ids = %v, want [2 1]", got)
	}
}

func TestPostsAdapter_ComparesParsedDates(t *testing.T) {
	c := Posts.UpsertMany(nil, []api.Post{
		{ID: "a", Date: "2024-01-01T00:00:05Z"},
		{ID: "b", Date: "2024-01-01T00:00:05.5Z"},
	})
	if got := c.IDs(); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("ids = %v, want fractional second first", got)
	}
}

func TestPostsAdapter_OrderIndependentOfInputWithMixedDates(t *testing.T) {
	posts := []api.Post{
		{ID: "a", Date: "2024-01-01T10:00:00+05:00"},
		{ID: "b", Date: "2024-01-01T06:00:00Z"},
		{ID: "c", Date: "2024-01-01T08"},
		{ID: "d", Date: "2024-01-01"},
	}
	want := []string{"b", "a", "d", "c"}

	var permute func(k int)
	permute = func(k int) {
		if k == len(posts) {
			in := slices.Clone(posts)
			if got := Posts.UpsertMany(nil, in).IDs(); !slices.Equal(got, want) {
				t.Errorf("input %v: ids = %v, want %v", idsOf(in), got, want)
			}
			return
		}
		for i := k; i < len(posts); i++ {
			posts[k], posts[i] = posts[i], posts[k]
			permute(k + 1)
			posts[k], posts[i] = posts[i], posts[k]
		}
	}
	permute(0)
}

func idsOf(posts []api.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestMergePost_KeepsUnsetFields(t *testing.T) {
	existing := api.Post{ID: "1", Title: "t", Content: "c", User: "0", Date: "d", Reactions: api.Reactions{api.Heart: 3}}
	merged := mergePost(existing, api.Post{ID: "1", Title: "new"})

	if merged.Title != "new" || merged.Content != "c" || merged.Reactions[api.Heart] != 3 {
		t.Fatalf("merged = %#v", merged)
	}
	if reflect.ValueOf(merged.Reactions).Pointer() != reflect.ValueOf(existing.Reactions).Pointer() {
		t.Fatalf("merge replaced reactions that were not sent")
	}
}
