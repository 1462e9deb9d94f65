// Package credentials persists the two API keys the application needs and
// holds them in memory for the process lifetime.
package credentials

import (
	"context"
	"sync"
)

// Fixed storage keys shared by all backends.
const (
	StorageKeyBundestag = "bundestag_api_key"
	StorageKeyGemini    = "gemini_api_key"
)

// Keys are the configured API keys. Empty means not configured.
type Keys struct {
	Bundestag string `toml:"bundestag_api_key"`
	Gemini    string `toml:"gemini_api_key"`
}

// Store reads and writes Keys.
type Store interface {
	Load(ctx context.Context) (Keys, error)
	Save(ctx context.Context, keys Keys) error
}

// Holder is the in-memory copy of the keys, loaded once at startup and
// updated on explicit save. Seed values from the environment fill empty
// stored keys but are never written back.
type Holder struct {
	store Store
	seed  Keys

	mu     sync.RWMutex
	stored Keys
}

// Load reads the store and keeps seed (environment) as fallback.
// Stored values win over seed values.
func Load(ctx context.Context, store Store, seed Keys) (*Holder, error) {
	keys, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Holder{store: store, seed: seed, stored: keys}, nil
}

// Keys returns the effective keys: stored values, else seed values.
func (h *Holder) Keys() Keys {
	h.mu.RLock()
	defer h.mu.RUnlock()
	k := h.stored
	if k.Bundestag == "" {
		k.Bundestag = h.seed.Bundestag
	}
	if k.Gemini == "" {
		k.Gemini = h.seed.Gemini
	}
	return k
}

// Stored returns only the persisted keys.
func (h *Holder) Stored() Keys {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stored
}

func (h *Holder) Bundestag() string { return h.Keys().Bundestag }

func (h *Holder) Gemini() string { return h.Keys().Gemini }

// Save persists keys and makes them current. The in-memory copy only
// changes when the write succeeded.
func (h *Holder) Save(ctx context.Context, keys Keys) error {
	if err := h.store.Save(ctx, keys); err != nil {
		return err
	}
	h.mu.Lock()
	h.stored = keys
	h.mu.Unlock()
	return nil
}

// Mask shortens a key for display.
func Mask(key string) string {
	if key == "" {
		return "(nicht gesetzt)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
