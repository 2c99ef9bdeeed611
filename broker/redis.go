package broker

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBroker relays domain events between backend instances over Redis
// pub/sub. Publish is fire-and-forget: a broker failure is logged and the
// event is lost, the originating write has already committed.
type RedisBroker struct {
	client *redis.Client
	origin string
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client, origin: newOrigin()}
}

func newOrigin() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		log.Printf("broker: origin id fallback: %v", err)
	}
	return hex.EncodeToString(b)
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, v any) {
	payload, err := encodeEnvelope(b.origin, v)
	if err != nil {
		log.Printf("broker: encode for %s failed: %v", channel, err)
		return
	}
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("broker: publish to %s failed: %v", channel, err)
	}
}

// Subscribe invokes handler for every message another instance publishes on
// the channel, for the lifetime of the process.
func (b *RedisBroker) Subscribe(channel string, handler func(data []byte)) {
	sub := b.client.Subscribe(context.Background(), channel)

	go func() {
		for msg := range sub.Channel() {
			data, ok, err := decodeEnvelope(b.origin, []byte(msg.Payload))
			if err != nil {
				log.Printf("broker: bad message on %s: %v", channel, err)
				continue
			}
			if !ok {
				continue
			}
			handler(data)
		}
	}()
}
