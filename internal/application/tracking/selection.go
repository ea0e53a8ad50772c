package tracking

import (
	"sort"
	"sync"

	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// Selection holds the multi-select state for each bucket.  The three sets are
// fully independent: toggling an id in one bucket never touches another.
// Safe for concurrent use.
type Selection struct {
	mu   sync.Mutex
	sets map[types.Bucket]map[string]struct{}
}

// NewSelection returns an empty Selection covering all buckets.
func NewSelection() *Selection {
	sets := make(map[types.Bucket]map[string]struct{}, len(types.Buckets))
	for _, b := range types.Buckets {
		sets[b] = make(map[string]struct{})
	}
	return &Selection{sets: sets}
}

// Toggle adds id to the bucket's set when absent and removes it when present.
// It reports whether the id is selected after the call.
func (s *Selection) Toggle(bucket types.Bucket, id string) (bool, error) {
	if !bucket.Valid() {
		return false, errors.New(errors.CodeBucketInvalid, "unknown bucket").WithDetail(string(bucket))
	}
	if id == "" {
		return false, errors.InvalidParam("record id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.sets[bucket]
	if _, ok := set[id]; ok {
		delete(set, id)
		return false, nil
	}
	set[id] = struct{}{}
	return true, nil
}

// Replace overwrites the bucket's set with ids.
func (s *Selection) Replace(bucket types.Bucket, ids []string) error {
	if !bucket.Valid() {
		return errors.New(errors.CodeBucketInvalid, "unknown bucket").WithDetail(string(bucket))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	s.sets[bucket] = set
	return nil
}

// Clear empties the bucket's set.
func (s *Selection) Clear(bucket types.Bucket) {
	if !bucket.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[bucket] = make(map[string]struct{})
}

// IDs returns the bucket's selected ids in stable sorted order.
func (s *Selection) IDs(bucket types.Bucket) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.sets[bucket]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// View returns the bucket's selection in wire shape.
func (s *Selection) View(bucket types.Bucket) types.SelectionView {
	return types.SelectionView{Bucket: bucket, IDs: s.IDs(bucket)}
}
