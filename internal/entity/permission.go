package entity

type Permission struct {
	Base

	DocumentID string   `gorm:"index:idx_permission_document_email,unique"`
	Document   Document `gorm:"foreignKey:DocumentID"`

	// UserID is empty when the permission was granted to an email which has
	// not signed up yet.
	UserID string
	Email  string `gorm:"index:idx_permission_document_email,unique"`

	CanWrite bool
}
