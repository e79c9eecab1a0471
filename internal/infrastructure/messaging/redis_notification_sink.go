package messaging

import (
	"context"
	"errors"
	"strings"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

// RedisNotificationSink appends notifications to a Redis stream read by the
// push delivery service.
type RedisNotificationSink struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

var _ interfaces.INotificationSink = (*RedisNotificationSink)(nil)

func NewRedisNotificationSink(rdb *redis.Client, stream string, maxLen int64) *RedisNotificationSink {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &RedisNotificationSink{rdb: rdb, stream: strings.TrimSpace(stream), maxLen: maxLen}
}

func (s *RedisNotificationSink) Notify(ctx context.Context, n entities.Notification) error {
	if s == nil || s.rdb == nil {
		return errors.New("redis notification sink not initialized")
	}
	if s.stream == "" {
		return errors.New("notification stream key is empty")
	}
	return s.rdb.XAdd(ctx, notificationArgs(s.stream, s.maxLen, n)).Err()
}

func notificationArgs(stream string, maxLen int64, n entities.Notification) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"user_id":     n.UserID,
			"type":        n.Type,
			"title":       n.Title,
			"body":        n.Body,
			"entity_type": n.EntityType,
			"entity_id":   n.EntityID,
		},
	}
}
