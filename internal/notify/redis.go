package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream notifications are appended to.
const DefaultStream = "clinic:notifications"

// RedisStreamNotifier appends notifications to a Redis stream.
type RedisStreamNotifier struct {
	// client is the Redis connection.
	client redis.Cmdable
	// stream is the target stream key.
	stream string
	// maxLen caps the stream length approximately; zero disables trimming.
	maxLen int64
}

// NewRedisStreamNotifier creates a stream notifier. An empty stream name selects DefaultStream.
func NewRedisStreamNotifier(client redis.Cmdable, stream string, maxLen int64) *RedisStreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}

	return &RedisStreamNotifier{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Notify runs XADD with the notification fields.
func (r *RedisStreamNotifier) Notify(ctx context.Context, n Notification) error {
	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"id":         n.ID.String(),
			"account_id": strconv.FormatInt(n.AccountID, 10),
			"category":   n.Category,
			"message":    n.Message,
			"sent_at":    n.SentAt.UTC().Format(time.RFC3339Nano),
		},
	}

	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("append notification to stream %s: %w", r.stream, err)
	}

	return nil
}
