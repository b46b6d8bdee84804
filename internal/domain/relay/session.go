package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/collabtext-lab/backend/internal/domain/relay/event"
	"github.com/collabtext-lab/backend/pkg/ws"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/google/uuid"
)

// Session is one live client connection. A session belongs to at most one
// document group at a time; content and cursor messages are only accepted
// while joined. State transitions all happen on the session's serve goroutine,
// the transport delivers a connection's messages in order.
type Session struct {
	ID string

	hub *Hub
	c   chan event.Event

	done      chan struct{}
	closeOnce sync.Once

	documentID string
	email      string
}

func (h *Hub) NewSession(bufferSize int) *Session {
	session := &Session{
		ID:   uuid.NewString(),
		hub:  h,
		c:    make(chan event.Event, bufferSize),
		done: make(chan struct{}),
	}

	h.register(session)
	return session
}

// push queues ev for delivery. It reports false when the session cannot
// accept it.
func (s *Session) push(ev event.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.c <- ev:
		return true
	default:
		return false
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Serve pumps the session until the client goes away or the session is
// closed. It owns all presence cleanup for the connection.
func (s *Session) Serve(ctx context.Context, client *ws.Client) {
	defer s.disconnect(ctx)

	var seq int64
	for {
		select {
		case <-s.done:
			return

		case ev := <-s.c:
			resp := event.Format(ev, seq)
			seq++

			b, err := json.Marshal(resp)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot marshal event %s: %v", resp.Op, err)
				continue
			}

			if err := client.Write(b); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot write to session %s: %v", s.ID, err)
				return
			}

		case msg, ok := <-client.R:
			if !ok {
				return
			}

			s.handleMessage(ctx, msg)
		}
	}
}

func (s *Session) handleMessage(ctx context.Context, msg []byte) {
	var req event.ClientRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal client request: %v", err)
		return
	}

	switch req.Op {
	case event.JoinDocumentGroupOp:
		var data event.JoinDocumentGroupRequest
		if err := json.Unmarshal(req.Data, &data); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid join request: %v", err)
			return
		}
		s.handleJoin(ctx, data)

	case event.LeaveDocumentGroupOp:
		var data event.LeaveDocumentGroupRequest
		if err := json.Unmarshal(req.Data, &data); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid leave request: %v", err)
			return
		}
		s.handleLeave(ctx, data)

	case event.SendDocumentUpdateOp:
		var data event.SendDocumentUpdateRequest
		if err := json.Unmarshal(req.Data, &data); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid document update: %v", err)
			return
		}
		s.handleDocumentUpdate(ctx, data)

	case event.UpdateCursorPositionOp:
		var data event.UpdateCursorPositionRequest
		if err := json.Unmarshal(req.Data, &data); err != nil {
			xcontext.Logger(ctx).Warnf("Invalid cursor update: %v", err)
			return
		}
		s.handleCursorUpdate(ctx, data)

	default:
		xcontext.Logger(ctx).Debugf("Unknown op %s from session %s", req.Op, s.ID)
	}
}

func (s *Session) handleJoin(ctx context.Context, req event.JoinDocumentGroupRequest) {
	if req.DocumentID == "" || req.Email == "" {
		xcontext.Logger(ctx).Debugf("Session %s sent an empty join", s.ID)
		return
	}

	// Switching documents on a live connection implies leaving the previous
	// group first.
	if s.documentID != "" && s.documentID != req.DocumentID {
		s.hub.registry.Leave(ctx, s.documentID, s.ID)
		s.hub.BroadcastOnlineUsers(ctx, s.documentID)
	}

	s.documentID = req.DocumentID
	s.email = req.Email

	s.hub.registry.Join(ctx, req.DocumentID, s.ID, req.Email)
	s.hub.BroadcastOnlineUsers(ctx, req.DocumentID)
}

func (s *Session) handleLeave(ctx context.Context, req event.LeaveDocumentGroupRequest) {
	if s.documentID == "" || s.documentID != req.DocumentID {
		return
	}

	s.hub.registry.Leave(ctx, req.DocumentID, s.ID)
	s.documentID = ""
	s.email = ""

	s.hub.BroadcastOnlineUsers(ctx, req.DocumentID)
}

func (s *Session) handleDocumentUpdate(ctx context.Context, req event.SendDocumentUpdateRequest) {
	if s.documentID == "" || s.documentID != req.DocumentID {
		xcontext.Logger(ctx).Debugf(
			"Session %s sent content for %s without joining", s.ID, req.DocumentID)
		return
	}

	s.hub.BroadcastContent(ctx, req.DocumentID, req.Content, s.ID)
}

func (s *Session) handleCursorUpdate(ctx context.Context, req event.UpdateCursorPositionRequest) {
	if s.documentID == "" || s.documentID != req.DocumentID {
		return
	}

	if s.hub.registry.UpdateCursor(ctx, req.DocumentID, s.ID, req.Index, req.Length) {
		s.hub.BroadcastCursor(ctx, req.DocumentID, s.email, req.Index, req.Length, s.ID)
	}
}

func (s *Session) disconnect(ctx context.Context) {
	s.Close()
	s.hub.unregister(s.ID)

	for _, documentID := range s.hub.registry.Disconnect(ctx, s.ID) {
		s.hub.BroadcastOnlineUsers(ctx, documentID)
	}
}
