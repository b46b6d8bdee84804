package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/xcontext"
)

// Queue names are part of the deployment contract shared with every producer
// and consumer instance.
const (
	PermissionRevokedQueue = "PermissionRevokedQueue"
	DocumentDeletedQueue   = "DocumentDeletedQueue"
)

type PermissionRevokedMessage struct {
	DocumentID string `json:"documentId"`
	Email      string `json:"email"`
}

type DocumentDeletedMessage struct {
	DocumentID string `json:"documentId"`
}

// PublishPermissionRevoked enqueues a permission-revoked notification for
// every relay instance. Failures surface to the caller: the revoke itself has
// already been persisted, but other clients will not hear about it.
func PublishPermissionRevoked(
	ctx context.Context, publisher pubsub.Publisher, documentID, email string,
) error {
	msg, err := json.Marshal(PermissionRevokedMessage{DocumentID: documentID, Email: email})
	if err != nil {
		return err
	}

	return publisher.Publish(ctx, PermissionRevokedQueue, &pubsub.Pack{
		Key: []byte(documentID),
		Msg: msg,
	})
}

// PublishDocumentDeleted enqueues a document-deleted notification.
func PublishDocumentDeleted(ctx context.Context, publisher pubsub.Publisher, documentID string) error {
	msg, err := json.Marshal(DocumentDeletedMessage{DocumentID: documentID})
	if err != nil {
		return err
	}

	return publisher.Publish(ctx, DocumentDeletedQueue, &pubsub.Pack{
		Key: []byte(documentID),
		Msg: msg,
	})
}

// Bridge consumes notification messages produced by the REST side, possibly
// on another process instance, and replays them to the live connections of
// this instance. Each queue has a fixed schema; malformed payloads are
// rejected explicitly instead of failing at field access.
type Bridge struct {
	hub *Hub
}

func NewBridge(hub *Hub) *Bridge {
	return &Bridge{hub: hub}
}

// Subscribe matches pubsub.SubscribeHandler. A handler error never stops the
// consume loop; the message is already acknowledged and is lost, which is the
// accepted delivery gap of this bridge.
func (b *Bridge) Subscribe(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) {
	if err := b.handle(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot process notification on %s: %v", topic, err)
	}
}

func (b *Bridge) handle(ctx context.Context, topic string, pack *pubsub.Pack) error {
	switch topic {
	case PermissionRevokedQueue:
		var msg PermissionRevokedMessage
		if err := json.Unmarshal(pack.Msg, &msg); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}

		if msg.DocumentID == "" || msg.Email == "" {
			return fmt.Errorf("missing fields in payload %s", pack.Msg)
		}

		b.hub.NotifyPermissionRevoked(ctx, msg.DocumentID, msg.Email)
		return nil

	case DocumentDeletedQueue:
		var msg DocumentDeletedMessage
		if err := json.Unmarshal(pack.Msg, &msg); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}

		if msg.DocumentID == "" {
			return fmt.Errorf("missing document id in payload %s", pack.Msg)
		}

		b.hub.NotifyDocumentDeleted(ctx, msg.DocumentID)
		return nil

	default:
		return fmt.Errorf("unexpected topic %s", topic)
	}
}
