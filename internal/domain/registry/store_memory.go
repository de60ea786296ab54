package registry

import (
	"context"
	"fmt"
	"sort"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore returns a process-local PractitionerStore. Entries never
// expire.
func NewMemoryStore() PractitionerStore {
	return &memoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *memoryStore) Insert(_ context.Context, p Practitioner) error {
	if err := s.cache.Add(p.ID, p, gocache.NoExpiration); err != nil {
		return ErrDuplicateID
	}
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (Practitioner, error) {
	v, found := s.cache.Get(id)
	if !found {
		return Practitioner{}, ErrPractitionerNotFound
	}
	p, ok := v.(Practitioner)
	if !ok {
		return Practitioner{}, fmt.Errorf("store entry %q has type %T", id, v)
	}
	return p, nil
}

func (s *memoryStore) List(_ context.Context) ([]Practitioner, error) {
	items := s.cache.Items()
	result := make([]Practitioner, 0, len(items))
	for key, item := range items {
		p, ok := item.Object.(Practitioner)
		if !ok {
			return nil, fmt.Errorf("store entry %q has type %T", key, item.Object)
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return lessDNI(result[i].ID, result[j].ID)
	})
	return result, nil
}

func (s *memoryStore) Len(_ context.Context) int {
	return s.cache.ItemCount()
}

// lessDNI orders digit strings numerically without parsing them, so DNIs of
// any length compare correctly.
func lessDNI(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
