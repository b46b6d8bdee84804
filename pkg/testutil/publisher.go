package testutil

import (
	"context"
	"sync"

	"github.com/collabtext-lab/backend/pkg/pubsub"
)

// MockPublisher records every published pack. When PublishFunc is set it is
// called instead.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex     sync.Mutex
	published map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.published == nil {
		m.published = make(map[string][]*pubsub.Pack)
	}
	m.published[topic] = append(m.published[topic], pack)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

// Published returns the packs recorded for a topic.
func (m *MockPublisher) Published(topic string) []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.published[topic]
}
