package relay

import (
	"context"

	"github.com/collabtext-lab/backend/internal/domain/relay/event"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/puzpuzpuz/xsync"
)

// Hub fans relay events out to the live sessions of a document group. Every
// delivery is fire-and-forget: a session that cannot accept the event (gone,
// or its queue is full) is dropped and the broadcast continues.
type Hub struct {
	registry *Registry
	sessions *xsync.MapOf[string, *Session]
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		sessions: xsync.NewMapOf[*Session](),
	}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) register(session *Session) {
	h.sessions.Store(session.ID, session)
}

func (h *Hub) unregister(connectionID string) {
	h.sessions.Delete(connectionID)
}

func (h *Hub) push(ctx context.Context, connectionID string, ev event.Event) {
	session, ok := h.sessions.Load(connectionID)
	if !ok {
		return
	}

	if !session.push(ev) {
		// The session's queue is full, it cannot keep up. Dropping it is
		// cheaper than queueing without bound; the client rejoins on
		// reconnect.
		xcontext.Logger(ctx).Warnf("Dropped slow session %s", connectionID)
		session.Close()
	}
}

// BroadcastContent delivers the full document content to every group member
// except the sender. No ordering is applied beyond arrival order.
func (h *Hub) BroadcastContent(ctx context.Context, documentID, content, originID string) {
	ev := &event.DocumentUpdatedEvent{Content: content}
	for _, connectionID := range h.registry.Connections(documentID) {
		if connectionID == originID {
			continue
		}

		h.push(ctx, connectionID, ev)
	}
}

// BroadcastCursor delivers a cursor update to every group member except the
// sender.
func (h *Hub) BroadcastCursor(
	ctx context.Context, documentID, email string, index, length int, originID string,
) {
	ev := &event.CursorPositionEvent{Email: email, Index: index, Length: length}
	for _, connectionID := range h.registry.Connections(documentID) {
		if connectionID == originID {
			continue
		}

		h.push(ctx, connectionID, ev)
	}
}

// BroadcastOnlineUsers pushes the current presence roster to every member of
// the group, sender included.
func (h *Hub) BroadcastOnlineUsers(ctx context.Context, documentID string) {
	ev := &event.OnlineUsersEvent{Emails: h.registry.Emails(documentID)}
	for _, connectionID := range h.registry.Connections(documentID) {
		h.push(ctx, connectionID, ev)
	}
}

// NotifyPermissionRevoked tells the revoked user's connections in the group
// that their access is gone.
func (h *Hub) NotifyPermissionRevoked(ctx context.Context, documentID, email string) {
	ev := &event.PermissionRevokedEvent{Email: email}
	for _, connectionID := range h.registry.ConnectionsOfEmail(documentID, email) {
		h.push(ctx, connectionID, ev)
	}
}

// NotifyDocumentDeleted tells every group member the document is gone. The
// group is terminal afterwards but members are not evicted; their clients
// leave on their own.
func (h *Hub) NotifyDocumentDeleted(ctx context.Context, documentID string) {
	ev := &event.DocumentDeletedEvent{DocumentID: documentID}
	for _, connectionID := range h.registry.Connections(documentID) {
		h.push(ctx, connectionID, ev)
	}
}
