package domain

import (
	"time"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/internal/model"
)

func convertDocument(doc *entity.Document) model.Document {
	return model.Document{
		ID:           doc.ID,
		Name:         doc.Name,
		Content:      doc.Content,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
		LastEditedAt: doc.LastEditedAt.Format(time.RFC3339),
	}
}

func convertDocuments(docs []entity.Document) []model.Document {
	result := make([]model.Document, 0, len(docs))
	for i := range docs {
		result = append(result, convertDocument(&docs[i]))
	}

	return result
}

func convertPermission(permission *entity.Permission) model.Permission {
	return model.Permission{
		ID:         permission.ID,
		DocumentID: permission.DocumentID,
		UserID:     permission.UserID,
		Email:      permission.Email,
		CanWrite:   permission.CanWrite,
	}
}

func convertPermissions(permissions []entity.Permission) []model.Permission {
	result := make([]model.Permission, 0, len(permissions))
	for i := range permissions {
		result = append(result, convertPermission(&permissions[i]))
	}

	return result
}

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}
