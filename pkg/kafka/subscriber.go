package kafka

import (
	"context"
	"time"

	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/Shopify/sarama"
)

const retryBackoff = time.Second

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) pubsub.Subscriber {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	// Fresh consumer groups start at the newest offset. Messages published
	// while no instance was subscribed are dropped, not replayed.
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		panic(err)
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}
}

// Subscribe runs the consume loop until ctx is canceled. It returns after the
// first session is ready.
func (s *subscriber) Subscribe(ctx context.Context) {
	consumer := consumerGroupHandler{
		ready: make(chan bool),
		fn:    s.handler,
	}

	go func() {
		for {
			// Consume is called inside a loop because the session ends on
			// every server-side rebalance and must be recreated.
			err := s.client.Consume(ctx, s.topics, &consumer)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Consumer group session failed: %v", err)
			}

			if ctx.Err() != nil {
				return
			}

			// Back off after a failure so an unreachable broker does not
			// turn this loop into a hot spin.
			if err != nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryBackoff):
				}
			}

			consumer.ready = make(chan bool)
		}
	}()

	<-consumer.ready
}

func (s *subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

type consumerGroupHandler struct {
	ready chan bool
	fn    pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		// The message is acknowledged before handling completes. A crash in
		// between loses the message; handlers must tolerate that.
		session.MarkMessage(message, "")
		h.fn(session.Context(), message.Topic, &pubsub.Pack{
			Key: message.Key,
			Msg: message.Value,
		}, message.Timestamp)
	}

	return nil
}
