package recent

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"vidbrief/config"
	"vidbrief/store"
	"vidbrief/types"
)

func entry(id string) types.RecentEntry {
	return types.RecentEntry{ID: id, Title: "title " + id, Thumbnail: "http://img/" + id}
}

func ids(list []types.RecentEntry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func TestAddProperties(t *testing.T) {
	var list []types.RecentEntry
	sequence := []string{"a", "b", "c", "a", "d", "e", "f", "g", "b", "h", "h"}

	for _, id := range sequence {
		list = Add(list, entry(id), config.MaxRecentVideos)

		if len(list) > config.MaxRecentVideos {
			t.Fatalf("list grew to %d entries", len(list))
		}
		if list[0].ID != id {
			t.Fatalf("expected %s at front, got %s", id, list[0].ID)
		}
		seen := map[string]bool{}
		for _, e := range list {
			if seen[e.ID] {
				t.Fatalf("duplicate id %s in %v", e.ID, ids(list))
			}
			seen[e.ID] = true
		}
	}

	want := []string{"h", "b", "g", "f", "e", "d"}
	if fmt.Sprint(ids(list)) != fmt.Sprint(want) {
		t.Fatalf("final list = %v; want %v", ids(list), want)
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	in := []types.RecentEntry{entry("a"), entry("b")}
	_ = Add(in, entry("b"), 6)
	if in[0].ID != "a" || in[1].ID != "b" {
		t.Fatalf("input modified: %v", ids(in))
	}
}

func TestStoreRecordAndList(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := NewStore(kv)

	list, err := s.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v, %v", list, err)
	}

	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		if _, err := s.Record(ctx, entry(id)); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}
	list, err = s.Record(ctx, entry("4"))
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	want := []string{"4", "7", "6", "5", "3", "2"}
	if fmt.Sprint(ids(list)) != fmt.Sprint(want) {
		t.Fatalf("Record returned %v; want %v", ids(list), want)
	}

	reloaded, err := NewStore(kv).List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if fmt.Sprint(ids(reloaded)) != fmt.Sprint(want) {
		t.Fatalf("persisted list = %v; want %v", ids(reloaded), want)
	}

	if _, err := s.Record(ctx, types.RecentEntry{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestStoreCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Set(ctx, config.RecentVideosKey, []byte("not json"))

	s := NewStore(kv)
	list, err := s.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected corrupt data to read as empty, got %v, %v", list, err)
	}

	list, err = s.Record(ctx, entry("x"))
	if err != nil || len(list) != 1 {
		t.Fatalf("expected recovery after corrupt data, got %v, %v", list, err)
	}
}

// slowKV delays every access so racing records overlap
type slowKV struct {
	*store.Memory
}

func (k slowKV) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(5 * time.Millisecond)
	return k.Memory.Get(ctx, key)
}

func (k slowKV) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	return k.Memory.Update(ctx, key, func(current []byte, found bool) ([]byte, error) {
		time.Sleep(5 * time.Millisecond)
		return fn(current, found)
	})
}

func TestStoreConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	kv := slowKV{store.NewMemory()}
	// two stores over one KV stand in for separate clients
	stores := []*Store{NewStore(kv), NewStore(kv)}

	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := stores[i%len(stores)]
			if _, err := s.Record(ctx, entry(fmt.Sprintf("id%d", i))); err != nil {
				t.Errorf("Record error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, err := NewStore(kv).List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected all 4 records to persist, got %v", ids(list))
	}
}

func TestNormalize(t *testing.T) {
	in := []types.RecentEntry{entry("a"), entry(""), entry("b"), entry("a")}
	got := Normalize(in, 6)
	if fmt.Sprint(ids(got)) != "[a b]" {
		t.Fatalf("Normalize = %v", ids(got))
	}
}

func TestStrip(t *testing.T) {
	cases := []struct {
		name      string
		widths    []int
		viewport  int
		scrolls   int
		wantLeft  bool
		wantRight bool
		wantStart int
	}{
		{"empty", nil, 40, 0, false, false, 0},
		{"no overflow", []int{10, 10}, 40, 0, false, false, 0},
		{"overflow at start", []int{10, 10, 10}, 25, 0, false, true, 0},
		{"overflow scrolled to end", []int{10, 10, 10}, 25, 1, true, false, 1},
		{"scroll past end is clamped", []int{10, 10, 10}, 25, 5, true, false, 1},
		{"long strip middle", []int{10, 10, 10, 10, 10, 10}, 25, 2, true, true, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewStrip(1, config.RecentScrollStep)
			s.SetViewport(c.viewport)
			s.SetItems(c.widths)
			for i := 0; i < c.scrolls; i++ {
				s.ScrollRight()
			}

			if s.Hidden() != (len(c.widths) == 0) {
				t.Errorf("Hidden() = %v", s.Hidden())
			}
			if s.CanScrollLeft() != c.wantLeft {
				t.Errorf("CanScrollLeft() = %v; want %v", s.CanScrollLeft(), c.wantLeft)
			}
			if s.CanScrollRight() != c.wantRight {
				t.Errorf("CanScrollRight() = %v; want %v", s.CanScrollRight(), c.wantRight)
			}
			if start, _ := s.Visible(); start != c.wantStart {
				t.Errorf("Visible start = %d; want %d", start, c.wantStart)
			}
		})
	}
}

func TestStripScrollLeftAndResize(t *testing.T) {
	s := NewStrip(1, 1)
	s.SetViewport(25)
	s.SetItems([]int{10, 10, 10})
	s.ScrollRight()
	s.ScrollLeft()
	if s.CanScrollLeft() {
		t.Fatalf("expected start of strip after scrolling back")
	}
	s.ScrollLeft()
	if s.Offset() != 0 {
		t.Fatalf("offset went negative: %d", s.Offset())
	}

	s.ScrollRight()
	s.SetViewport(100)
	if s.Offset() != 0 || s.CanScrollLeft() || s.CanScrollRight() {
		t.Fatalf("widening the viewport should reveal the whole strip, offset=%d", s.Offset())
	}
}

func TestStripFocus(t *testing.T) {
	s := NewStrip(1, 1)
	s.SetViewport(21)
	s.SetItems([]int{10, 10, 10, 10})

	s.MoveFocus(3)
	if s.Focus() != 3 {
		t.Fatalf("focus = %d; want 3", s.Focus())
	}
	start, end := s.Visible()
	if s.Focus() < start || s.Focus() >= end {
		t.Fatalf("focused item %d not visible in [%d,%d)", s.Focus(), start, end)
	}

	s.MoveFocus(-10)
	if s.Focus() != 0 || s.Offset() != 0 {
		t.Fatalf("focus=%d offset=%d; want 0,0", s.Focus(), s.Offset())
	}
}
