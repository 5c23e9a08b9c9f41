package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/platform/logger"
)

// Open builds a Notifier with the sinks named in cfg plus any extra ones. No
// sinks at all means log only.
func Open(ctx context.Context, cfg config.NotifyConfig, log *logger.Logger, extra ...Sink) (*Notifier, error) {
	sinks := append([]Sink(nil), extra...)
	for _, name := range cfg.Sinks {
		var (
			s   Sink
			err error
		)
		switch name {
		case "log":
			s = NewLogSink(log)
		case "redis":
			s, err = NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisChannel, log)
		case "amqp":
			s, err = NewAMQPSink(cfg.AMQPURL, cfg.AMQPQueue, log)
		default:
			err = fmt.Errorf("unknown notify sink %q", name)
		}
		if err != nil {
			_ = closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == len(extra) {
		sinks = append(sinks, NewLogSink(log))
	}
	return New(log, sinks...), nil
}

func (n *Notifier) Close() error {
	return closeSinks(n.sinks)
}

func closeSinks(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
