package storage

import (
	"context"
	"encoding/json"
	"errors"

	"quorum/pkg/platform/sentinel"
)

// KV is the persistence collaborator: whole JSON documents stored under fixed
// keys. Interface-driven so the in-memory implementation serves tests and the
// Redis implementation serves production without rewiring business code.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// LoadDocument reads the document stored under key into out. A missing or
// undecodable document leaves out untouched and returns nil: callers start
// from their empty default rather than failing on first run or on a corrupt
// store.
func LoadDocument(ctx context.Context, kv KV, key string, out any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}
	// A document that no longer decodes is treated the same as a missing one.
	_ = json.Unmarshal(raw, out)
	return nil
}

// SaveDocument writes v under key as a JSON document, replacing whatever was
// there before. Last writer wins.
func SaveDocument(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}
