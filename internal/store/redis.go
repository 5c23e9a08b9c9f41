package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront/internal/platform/logger"
)

type redisBackend struct {
	rdb *goredis.Client
	log *logger.Logger
}

func OpenRedis(ctx context.Context, addr string, log *logger.Logger) (Backend, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("missing redis addr")
	}
	if log == nil {
		log = logger.Nop()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisBackend{rdb: rdb, log: log.With("service", "RedisStore")}, nil
}

func redisKey(namespace, key string) string {
	if namespace == "" {
		return "storefront:" + key
	}
	return namespace + ":" + key
}

func (b *redisBackend) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	raw, err := b.rdb.Get(ctx, redisKey(namespace, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b *redisBackend) Put(ctx context.Context, namespace, key string, value []byte) error {
	b.log.Debug("kv set", "key", key, "bytes", len(value))
	return b.rdb.Set(ctx, redisKey(namespace, key), value, 0).Err()
}

func (b *redisBackend) Delete(ctx context.Context, namespace, key string) error {
	return b.rdb.Del(ctx, redisKey(namespace, key)).Err()
}

func (b *redisBackend) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
