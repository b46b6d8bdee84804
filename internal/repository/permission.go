package repository

import (
	"context"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"gorm.io/gorm/clause"
)

type PermissionRepository interface {
	Upsert(ctx context.Context, permission *entity.Permission) error
	Delete(ctx context.Context, documentID, email string) (int64, error)
	GetByDocumentID(ctx context.Context, documentID string) ([]entity.Permission, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Permission, error)
}

type permissionRepository struct{}

func NewPermissionRepository() PermissionRepository {
	return &permissionRepository{}
}

// Upsert grants or refreshes a permission. The (document_id, email) pair is
// unique, a second grant only updates the write flag and user id.
func (r *permissionRepository) Upsert(ctx context.Context, permission *entity.Permission) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "can_write"}),
	}).Create(permission).Error
}

func (r *permissionRepository) Delete(ctx context.Context, documentID, email string) (int64, error) {
	tx := xcontext.DB(ctx).
		Delete(&entity.Permission{}, "document_id=? AND email=?", documentID, email)
	if err := tx.Error; err != nil {
		return 0, err
	}

	return tx.RowsAffected, nil
}

func (r *permissionRepository) GetByDocumentID(
	ctx context.Context, documentID string,
) ([]entity.Permission, error) {
	var result []entity.Permission
	if err := xcontext.DB(ctx).Find(&result, "document_id=?", documentID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *permissionRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.Permission, error) {
	var result []entity.Permission
	if err := xcontext.DB(ctx).Find(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
