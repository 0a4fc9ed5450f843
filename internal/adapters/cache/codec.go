package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
)

// row is the persisted shape of a cache entry; the prediction travels as JSON
type row struct {
	key       string
	bundleID  string
	result    []byte
	cachedAt  int64
	expiresAt int64
}

func encodeEntry(entry *core.CacheEntry) (row, error) {
	data, err := json.Marshal(entry.Result)
	if err != nil {
		return row{}, fmt.Errorf("failed to encode prediction: %w", err)
	}
	return row{
		key:       entry.Key,
		bundleID:  entry.BundleID,
		result:    data,
		cachedAt:  entry.CachedAt.Unix(),
		expiresAt: entry.ExpiresAt.Unix(),
	}, nil
}

func decodeEntry(r row) (*core.CacheEntry, error) {
	entry := &core.CacheEntry{
		Key:       r.key,
		BundleID:  r.bundleID,
		CachedAt:  time.Unix(r.cachedAt, 0),
		ExpiresAt: time.Unix(r.expiresAt, 0),
	}
	if err := json.Unmarshal(r.result, &entry.Result); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return entry, nil
}
