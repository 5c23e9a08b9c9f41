package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront/internal/platform/logger"
)

// RedisSink publishes notifications as JSON on a pub/sub channel so another
// process (a page bridge, a kiosk display) can show them.
type RedisSink struct {
	rdb     *goredis.Client
	channel string
	log     *logger.Logger
}

func NewRedisSink(ctx context.Context, addr, channel string, log *logger.Logger) (*RedisSink, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if strings.TrimSpace(channel) == "" {
		channel = "storefront.notifications"
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
	return &RedisSink{rdb: rdb, channel: channel, log: log.With("sink", "redis")}, nil
}

func (s *RedisSink) Notify(ctx context.Context, n Notification) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis sink not initialized")
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, s.channel, raw).Err()
}

// Subscribe forwards published notifications to onMsg until ctx ends.
func (s *RedisSink) Subscribe(ctx context.Context, onMsg func(Notification)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	sub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					s.log.Warn("bad notification payload", "error", err)
					continue
				}
				onMsg(n)
			}
		}
	}()
	return nil
}

func (s *RedisSink) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
