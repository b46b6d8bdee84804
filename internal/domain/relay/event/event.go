package event

import "encoding/json"

// Event is a single relay event. Op returns the wire name the browser client
// subscribes to or invokes.
type Event interface {
	Op() string
}

// ClientRequest is the envelope of a client-to-relay message. Data is decoded
// by the handler of the given op.
type ClientRequest struct {
	Op   string          `json:"o"`
	Data json.RawMessage `json:"d"`
}

// ServerResponse is the envelope of a relay-to-client message. Seq is
// monotonic per session.
type ServerResponse struct {
	Op   string `json:"o"`
	Seq  int64  `json:"s"`
	Data any    `json:"d"`
}

func Format(ev Event, seq int64) *ServerResponse {
	return &ServerResponse{
		Op:   ev.Op(),
		Seq:  seq,
		Data: ev,
	}
}
