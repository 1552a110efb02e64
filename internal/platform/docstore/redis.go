package docstore

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const changeChannel = "docstore:changes"

// redisNotifier broadcasts key-change events over a Redis pub/sub channel so
// that multiple portal instances sharing one store converge without polling
// each other's writes.
type redisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier connects to Redis at redisURL and verifies connectivity.
func NewRedisNotifier(ctx context.Context, redisURL string) (Notifier, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisNotifier{client: client}, nil
}

func (n *redisNotifier) Publish(ctx context.Context, key string) error {
	return n.client.Publish(ctx, changeChannel, key).Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context) (<-chan string, error) {
	sub := n.client.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", changeChannel, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (n *redisNotifier) Close() error { return n.client.Close() }
