package model

type Permission struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email"`
	CanWrite   bool   `json:"can_write"`
}

type GrantPermissionRequest struct {
	DocumentID string `json:"document_id"`
	Email      string `json:"email"`
	CanWrite   bool   `json:"can_write"`
}

type GrantPermissionResponse struct{}

type RevokePermissionRequest struct {
	DocumentID string `json:"document_id"`
	Email      string `json:"email"`
}

type RevokePermissionResponse struct{}

type GetDocumentPermissionsRequest struct {
	DocumentID string `json:"document_id"`
}

type GetDocumentPermissionsResponse struct {
	Permissions []Permission `json:"permissions"`
}

type GetUserPermissionsRequest struct {
	UserID string `json:"user_id"`
}

type GetUserPermissionsResponse struct {
	Permissions []Permission `json:"permissions"`
}
