package event

// Client-to-relay operations. The op names and payload shapes are part of the
// browser protocol and must not change.
const (
	JoinDocumentGroupOp    = "JoinDocumentGroup"
	LeaveDocumentGroupOp   = "LeaveDocumentGroup"
	SendDocumentUpdateOp   = "SendDocumentUpdate"
	UpdateCursorPositionOp = "UpdateCursorPosition"
)

type JoinDocumentGroupRequest struct {
	DocumentID string `json:"documentId"`
	Email      string `json:"email"`
}

type LeaveDocumentGroupRequest struct {
	DocumentID string `json:"documentId"`
}

type SendDocumentUpdateRequest struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

type UpdateCursorPositionRequest struct {
	DocumentID string `json:"documentId"`
	Index      int    `json:"index"`
	Length     int    `json:"length"`
}

// DOCUMENT UPDATED EVENT
type DocumentUpdatedEvent struct {
	Content string `json:"content"`
}

func (*DocumentUpdatedEvent) Op() string {
	return "ReceiveDocumentUpdate"
}

// CURSOR POSITION EVENT
type CursorPositionEvent struct {
	Email  string `json:"email"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
}

func (*CursorPositionEvent) Op() string {
	return "ReceiveCursorPositionUpdate"
}

// ONLINE USERS EVENT
type OnlineUsersEvent struct {
	Emails []string `json:"emails"`
}

func (*OnlineUsersEvent) Op() string {
	return "UpdateOnlineUsers"
}

// PERMISSION REVOKED EVENT
type PermissionRevokedEvent struct {
	Email string `json:"email"`
}

func (*PermissionRevokedEvent) Op() string {
	return "ReceivePermissionRevoked"
}

// DOCUMENT DELETED EVENT
type DocumentDeletedEvent struct {
	DocumentID string `json:"documentId"`
}

func (*DocumentDeletedEvent) Op() string {
	return "ReceiveDocumentDeleted"
}
