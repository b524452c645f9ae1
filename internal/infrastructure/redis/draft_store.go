package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
)

var _ sales.DraftStore = (*DraftStore)(nil)

const draftKeyPrefix = "draft:"

// DraftStore borradores serializados en JSON con TTL nativo de Redis.
type DraftStore struct {
	client goredis.UniversalClient
}

// NewDraftStore construye el store sobre un cliente existente.
func NewDraftStore(client goredis.UniversalClient) *DraftStore {
	return &DraftStore{client: client}
}

// Save guarda el borrador con compare-and-set sobre la versión (WATCH/MULTI/EXEC);
// cada guardado renueva el TTL.
func (s *DraftStore) Save(ctx context.Context, d *sales.Draft, ttl time.Duration) error {
	key := draftKeyPrefix + d.ID
	next := *d
	next.Version++
	payload, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("redis draft: serializar: %w", err)
	}
	err = s.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != d.Version {
			return domain.ErrDraftConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		d.Version = next.Version
		return nil
	case errors.Is(err, goredis.TxFailedErr), errors.Is(err, domain.ErrDraftConflict):
		return domain.ErrDraftConflict
	default:
		return fmt.Errorf("redis draft: set: %w", err)
	}
}

// storedVersion versión guardada bajo key; 0 si no existe.
func storedVersion(ctx context.Context, tx *goredis.Tx, key string) (int64, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("redis draft: deserializar: %w", err)
	}
	return v.Version, nil
}

// Get devuelve (nil, nil) si la clave no existe o expiró.
func (s *DraftStore) Get(ctx context.Context, id string) (*sales.Draft, error) {
	payload, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis draft: get: %w", err)
	}
	var d sales.Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("redis draft: deserializar: %w", err)
	}
	return &d, nil
}

// Delete elimina el borrador. No falla si no existe.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis draft: del: %w", err)
	}
	return nil
}
