// Package recent keeps the bounded most-recently-used list of processed videos.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"vidbrief/config"
	"vidbrief/store"
	"vidbrief/types"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store persists the recent list as a JSON array under one key.
// It is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	kv  store.KV
	key string
	max int
}

// NewStore creates a recent list backed by kv using the default key and bound
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv, key: config.RecentVideosKey, max: config.MaxRecentVideos}
}

// List returns the persisted entries, most recent first.
// Missing or corrupt data reads as an empty list.
func (s *Store) List(ctx context.Context) ([]types.RecentEntry, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return []types.RecentEntry{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load recent videos")
	}
	return s.decode(raw), nil
}

func (s *Store) decode(raw []byte) []types.RecentEntry {
	var entries []types.RecentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logrus.WithError(err).Warn("Discarding corrupt recent videos list")
		return []types.RecentEntry{}
	}
	return Normalize(entries, s.max)
}

// Record moves entry to the front, persists, and returns the new list.
// The read and the write happen in one KV update, so concurrent records
// never drop each other's entries.
func (s *Store) Record(ctx context.Context, entry types.RecentEntry) ([]types.RecentEntry, error) {
	if entry.ID == "" {
		return nil, pkgerrors.New("recent entry has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated []types.RecentEntry
	err := s.kv.Update(ctx, s.key, func(current []byte, found bool) ([]byte, error) {
		list := []types.RecentEntry{}
		if found {
			list = s.decode(current)
		}
		updated = Add(list, entry, s.max)
		raw, err := json.Marshal(updated)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to encode recent videos")
		}
		return raw, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save recent videos")
	}

	logrus.WithFields(logrus.Fields{
		"video_id": entry.ID,
		"count":    len(updated),
	}).Debug("Recorded recent video")
	return updated, nil
}

// Add returns a new list with entry first, any older copy of the same id
// removed, truncated to max. The input slice is not modified.
func Add(list []types.RecentEntry, entry types.RecentEntry, max int) []types.RecentEntry {
	out := make([]types.RecentEntry, 0, len(list)+1)
	out = append(out, entry)
	for _, e := range list {
		if e.ID != entry.ID {
			out = append(out, e)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Normalize drops duplicate and empty ids, keeping the first occurrence, and truncates to max
func Normalize(list []types.RecentEntry, max int) []types.RecentEntry {
	seen := make(map[string]bool, len(list))
	out := make([]types.RecentEntry, 0, len(list))
	for _, e := range list {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
