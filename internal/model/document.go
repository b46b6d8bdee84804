package model

type Document struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
	LastEditedAt string `json:"last_edited_at"`
}

type CreateDocumentRequest struct {
	Name string `json:"name"`
}

type CreateDocumentResponse struct {
	Document
}

type GetDocumentRequest struct {
	ID string `json:"id"`
}

type GetDocumentResponse struct {
	Document
}

type GetListDocumentRequest struct {
	Search string `json:"search"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetListDocumentResponse struct {
	Documents []Document `json:"documents"`
}

type GetListDocumentByUserRequest struct {
	UserID string `json:"user_id"`
	Search string `json:"search"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetListDocumentByUserResponse struct {
	Documents []Document `json:"documents"`
}

type UpdateDocumentRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type UpdateDocumentResponse struct{}

type DeleteDocumentRequest struct {
	ID string `json:"id"`
}

type DeleteDocumentResponse struct{}
