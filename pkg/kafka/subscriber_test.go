package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/collabtext-lab/backend/pkg/logger"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/require"
)

// failingConsumerGroup always fails its session, as a broker outage does.
type failingConsumerGroup struct {
	sarama.ConsumerGroup

	mutex sync.Mutex
	calls int
}

func (f *failingConsumerGroup) Consume(
	ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler,
) error {
	f.mutex.Lock()
	f.calls++
	f.mutex.Unlock()

	handler.Setup(nil)
	return errors.New("broker is unreachable")
}

func (f *failingConsumerGroup) Close() error {
	return nil
}

func (f *failingConsumerGroup) consumeCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

func Test_subscriber_BacksOffOnConsumeError(t *testing.T) {
	ctx, cancel := context.WithCancel(
		xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE)))
	defer cancel()

	group := &failingConsumerGroup{}
	s := &subscriber{
		groupID: "test-group",
		topics:  []string{"topic"},
		client:  group,
		handler: func(context.Context, string, *pubsub.Pack, time.Time) {},
	}

	s.Subscribe(ctx)
	time.Sleep(300 * time.Millisecond)

	// Without the backoff the loop retries thousands of times in this window.
	require.LessOrEqual(t, group.consumeCalls(), 2)
}
