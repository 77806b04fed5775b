package history

import (
	"context"
	"encoding/json"

	"storefront/engine/internal/state"

	log "github.com/sirupsen/logrus"
)

// DefaultLimit caps how many recently viewed products are remembered.
const DefaultLimit = 20

// Store keeps the ordered list of recently viewed product ids,
// most-recent-first, deduplicated and capped. Same persistence policy as
// the cart: restore failures start empty, write failures are swallowed.
type Store struct {
	store      state.Store
	storageKey string
	limit      int
	viewed     []string
}

// NewStore restores the viewed history persisted under storageKey. A
// limit of zero or less falls back to DefaultLimit.
func NewStore(ctx context.Context, store state.Store, storageKey string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Store{
		store:      store,
		storageKey: storageKey,
		limit:      limit,
		viewed:     []string{},
	}

	data, err := store.Get(ctx, storageKey)
	if err != nil {
		if err != state.ErrNotFound {
			log.Warnf("Failed to load viewed history, starting empty: %v", err)
		}
		return s
	}

	var restored []string
	if err := json.Unmarshal(data, &restored); err != nil {
		log.Warnf("Failed to decode viewed history, starting empty: %v", err)
		return s
	}
	if len(restored) > limit {
		restored = restored[:limit]
	}
	s.viewed = restored

	return s
}

// Add records a product view. Re-viewing moves the id to the front
// instead of creating a second entry.
func (s *Store) Add(ctx context.Context, productID string) {
	updated := make([]string, 0, len(s.viewed)+1)
	updated = append(updated, productID)
	for _, id := range s.viewed {
		if id != productID {
			updated = append(updated, id)
		}
	}
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}
	s.viewed = updated

	data, err := json.Marshal(s.viewed)
	if err != nil {
		log.Errorf("Failed to encode viewed history: %v", err)
		return
	}
	if err := s.store.Set(ctx, s.storageKey, data); err != nil {
		log.Errorf("Failed to save viewed history: %v", err)
	}
}

// IDs returns a copy of the viewed ids, most recent first.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.viewed))
	copy(ids, s.viewed)
	return ids
}
