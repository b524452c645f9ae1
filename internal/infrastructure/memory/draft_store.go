package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
)

var _ sales.DraftStore = (*DraftStore)(nil)

type draftEntry struct {
	payload []byte
	version int64
	expires time.Time
}

// DraftStore borradores en memoria con expiración. Serializa en JSON igual que el store Redis,
// así cada Get devuelve una copia independiente.
type DraftStore struct {
	mu    sync.Mutex
	items map[string]draftEntry
	now   func() time.Time
}

// NewDraftStore crea el store. now puede ser nil.
func NewDraftStore(now func() time.Time) *DraftStore {
	if now == nil {
		now = time.Now
	}
	return &DraftStore{items: make(map[string]draftEntry), now: now}
}

// Save guarda el borrador con el TTL dado si nadie lo cambió desde que se leyó.
func (s *DraftStore) Save(_ context.Context, d *sales.Draft, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if e, ok := s.items[d.ID]; ok && s.now().Before(e.expires) {
		current = e.version
	}
	if current != d.Version {
		return domain.ErrDraftConflict
	}
	next := *d
	next.Version++
	payload, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("draft store: serializar: %w", err)
	}
	s.items[d.ID] = draftEntry{payload: payload, version: next.Version, expires: s.now().Add(ttl)}
	d.Version = next.Version
	return nil
}

// Get devuelve (nil, nil) si no existe o expiró.
func (s *DraftStore) Get(_ context.Context, id string) (*sales.Draft, error) {
	s.mu.Lock()
	e, ok := s.items[id]
	if ok && !s.now().Before(e.expires) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var d sales.Draft
	if err := json.Unmarshal(e.payload, &d); err != nil {
		return nil, fmt.Errorf("draft store: deserializar: %w", err)
	}
	return &d, nil
}

// Delete elimina el borrador. No falla si no existe.
func (s *DraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
