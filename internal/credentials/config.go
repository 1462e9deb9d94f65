package credentials

import (
	"context"
	"fmt"

	pkgredis "github.com/plenarlens/server/pkg/redis"
)

// Config selects the persistence backend.
type Config struct {
	Backend     string `envconfig:"CREDENTIALS_BACKEND" default:"file"`
	File        string `envconfig:"CREDENTIALS_FILE"`
	RedisPrefix string `envconfig:"CREDENTIALS_REDIS_PREFIX" default:"plenar:"`
}

// Open builds the configured Store. The returned close func releases the
// Redis connection when one was opened.
func Open(ctx context.Context, cfg Config, rcfg pkgredis.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case "", "file":
		path := cfg.File
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		return NewFileStore(path), noop, nil
	case "redis":
		rdb, err := rcfg.New(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("open redis credential store: %w", err)
		}
		return NewRedisStore(rdb, cfg.RedisPrefix), rdb.Close, nil
	case "memory":
		return &MemoryStore{}, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
}
