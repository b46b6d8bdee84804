package pubsub

import (
	"context"
	"time"
)

// Pack is a single message carried by the queue. Key is used for routing and
// partitioning, Msg is the serialized payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type SubscribeHandler func(ctx context.Context, topic string, pack *Pack, t time.Time)

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}

type Subscriber interface {
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
