package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/collabtext-lab/backend/internal/domain/relay/event"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_Bridge_PermissionRevoked(t *testing.T) {
	ctx := testutil.MockContext()
	hub := NewHub(NewRegistry())
	bridge := NewBridge(hub)

	revoked := joinedSession(ctx, hub, "doc", "a@x.com")
	other := joinedSession(ctx, hub, "doc", "b@x.com")
	drainEvents(revoked)

	msg, err := json.Marshal(PermissionRevokedMessage{DocumentID: "doc", Email: "a@x.com"})
	require.NoError(t, err)

	bridge.Subscribe(ctx, PermissionRevokedQueue, &pubsub.Pack{
		Key: []byte("doc"),
		Msg: msg,
	}, time.Now())

	events := drainEvents(revoked)
	require.Len(t, events, 1)
	require.Equal(t, &event.PermissionRevokedEvent{Email: "a@x.com"}, events[0])
	require.Empty(t, drainEvents(other))
}

func Test_Bridge_DocumentDeleted(t *testing.T) {
	ctx := testutil.MockContext()
	hub := NewHub(NewRegistry())
	bridge := NewBridge(hub)

	member1 := joinedSession(ctx, hub, "doc", "a@x.com")
	member2 := joinedSession(ctx, hub, "doc", "b@x.com")
	outsider := joinedSession(ctx, hub, "other-doc", "c@x.com")
	drainEvents(member1)

	msg, err := json.Marshal(DocumentDeletedMessage{DocumentID: "doc"})
	require.NoError(t, err)

	bridge.Subscribe(ctx, DocumentDeletedQueue, &pubsub.Pack{
		Key: []byte("doc"),
		Msg: msg,
	}, time.Now())

	for _, session := range []*Session{member1, member2} {
		events := drainEvents(session)
		require.Len(t, events, 1)
		require.Equal(t, &event.DocumentDeletedEvent{DocumentID: "doc"}, events[0])
	}
	require.Empty(t, drainEvents(outsider))
}

func Test_Bridge_RejectsMalformedPayload(t *testing.T) {
	ctx := testutil.MockContext()
	hub := NewHub(NewRegistry())
	bridge := NewBridge(hub)

	member := joinedSession(ctx, hub, "doc", "a@x.com")

	require.Error(t, bridge.handle(ctx, PermissionRevokedQueue,
		&pubsub.Pack{Msg: []byte("not json")}))
	require.Error(t, bridge.handle(ctx, DocumentDeletedQueue,
		&pubsub.Pack{Msg: []byte(`[1,2,3]`)}))
	require.Empty(t, drainEvents(member))
}

func Test_Bridge_RejectsMissingFields(t *testing.T) {
	ctx := testutil.MockContext()
	hub := NewHub(NewRegistry())
	bridge := NewBridge(hub)

	member := joinedSession(ctx, hub, "doc", "a@x.com")

	require.Error(t, bridge.handle(ctx, PermissionRevokedQueue,
		&pubsub.Pack{Msg: []byte(`{"documentId":"doc"}`)}))
	require.Error(t, bridge.handle(ctx, PermissionRevokedQueue,
		&pubsub.Pack{Msg: []byte(`{"email":"a@x.com"}`)}))
	require.Error(t, bridge.handle(ctx, DocumentDeletedQueue,
		&pubsub.Pack{Msg: []byte(`{}`)}))
	require.Empty(t, drainEvents(member))
}

func Test_Bridge_UnexpectedTopic(t *testing.T) {
	ctx := testutil.MockContext()
	bridge := NewBridge(NewHub(NewRegistry()))

	err := bridge.handle(ctx, "SomeOtherQueue", &pubsub.Pack{Msg: []byte(`{}`)})
	require.Error(t, err)
}

func Test_Bridge_UnknownDocumentIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	hub := NewHub(NewRegistry())
	bridge := NewBridge(hub)

	member := joinedSession(ctx, hub, "doc", "a@x.com")

	// Notifications for documents nobody here is viewing are dropped.
	require.NoError(t, bridge.handle(ctx, DocumentDeletedQueue,
		&pubsub.Pack{Msg: []byte(`{"documentId":"unknown-doc"}`)}))
	require.Empty(t, drainEvents(member))
}
