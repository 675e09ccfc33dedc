package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChangeFeed implements core.ChangeFeed over a redis pub/sub channel.
// Messages carry no payload guarantee; any message means "something in the
// task collection changed, refetch everything".
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
}

// NewRedisChangeFeed creates a change feed listening on the given channel.
func NewRedisChangeFeed(client *redis.Client, channel string) *RedisChangeFeed {
	return &RedisChangeFeed{client: client, channel: channel}
}

// Subscribe starts a background listener invoking onChange for every
// published message. The returned function invalidates the subscription;
// after it is called no further callbacks are delivered.
func (f *RedisChangeFeed) Subscribe(ctx context.Context, onChange func()) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	sub := f.client.Subscribe(subCtx, f.channel)
	// Force the subscription to be established before returning so a
	// mutation made right after Subscribe is not missed.
	if _, err := sub.Receive(subCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("subscribing to %s: %w", f.channel, err)
	}

	var once sync.Once
	done := make(chan struct{})

	go func() {
		defer close(done)
		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					// Reconnect after a dropped connection.
					if subCtx.Err() != nil {
						return
					}
					time.Sleep(time.Second)
					sub = f.client.Subscribe(subCtx, f.channel)
					ch = sub.Channel()
					continue
				}
				onChange()
			}
		}
	}()

	unsubscribe := func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
			<-done
		})
	}
	return unsubscribe, nil
}
