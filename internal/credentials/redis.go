package credentials

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

// RedisStore keeps the keys as plain string values under a prefix.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func (r *RedisStore) Load(ctx context.Context) (Keys, error) {
	vals, err := r.rdb.MGet(ctx, r.key(StorageKeyBundestag), r.key(StorageKeyGemini)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.Error().Err(err).Msg("failed to load credentials from redis")
		return Keys{}, errx.WrapRedis(err)
	}
	var keys Keys
	if len(vals) == 2 {
		keys.Bundestag, _ = vals[0].(string)
		keys.Gemini, _ = vals[1].(string)
	}
	return keys, nil
}

// Save writes both values in one transaction. Empty values delete the key.
func (r *RedisStore) Save(ctx context.Context, keys Keys) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for name, v := range map[string]string{
			StorageKeyBundestag: keys.Bundestag,
			StorageKeyGemini:    keys.Gemini,
		} {
			if v == "" {
				p.Del(ctx, r.key(name))
				continue
			}
			p.Set(ctx, r.key(name), v, 0)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Msg("failed to save credentials to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
