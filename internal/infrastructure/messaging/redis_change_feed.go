package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase/interfaces"
	"mecanica_jobs/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisChangeFeed fans job changes out to every API replica through one
// pub/sub channel per job.
type RedisChangeFeed struct {
	rdb    *redis.Client
	prefix string
}

var _ interfaces.IChangeFeed = (*RedisChangeFeed)(nil)

func NewRedisChangeFeed(rdb *redis.Client, prefix string) *RedisChangeFeed {
	return &RedisChangeFeed{rdb: rdb, prefix: prefix}
}

func (f *RedisChangeFeed) channel(jobID string) string {
	return f.prefix + jobID
}

func (f *RedisChangeFeed) Publish(ctx context.Context, change projection.Change) error {
	if f == nil || f.rdb == nil {
		return errors.New("redis change feed not initialized")
	}
	b, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, f.channel(change.JobID), b).Err()
}

func (f *RedisChangeFeed) Subscribe(ctx context.Context, jobID string) (<-chan projection.Change, func(), error) {
	if f == nil || f.rdb == nil {
		return nil, nil, errors.New("redis change feed not initialized")
	}
	sub := f.rdb.Subscribe(ctx, f.channel(jobID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", jobID, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan projection.Change, 8)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change projection.Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logger.Warn(ctx, "[job][feed] dropping malformed change", "channel", msg.Channel, "err", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel, nil
}
