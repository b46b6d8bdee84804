package repository

import (
	"context"
	"time"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/pkg/xcontext"
)

type GetListDocumentFilter struct {
	Search string
	Offset int
	Limit  int
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	GetList(ctx context.Context, filter GetListDocumentFilter) ([]entity.Document, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Document, error)
	UpdateContent(ctx context.Context, id, name, content string) error
	DeleteByID(ctx context.Context, id string) error
}

type documentRepository struct{}

func NewDocumentRepository() DocumentRepository {
	return &documentRepository{}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return xcontext.DB(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	var result entity.Document
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *documentRepository) GetList(
	ctx context.Context, filter GetListDocumentFilter,
) ([]entity.Document, error) {
	tx := xcontext.DB(ctx).Model(&entity.Document{})
	if filter.Search != "" {
		tx = tx.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Document
	if err := tx.Order("last_edited_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *documentRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Document, error) {
	var result []entity.Document
	err := xcontext.DB(ctx).
		Where("id IN (?)", ids).
		Order("last_edited_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *documentRepository) UpdateContent(ctx context.Context, id, name, content string) error {
	return xcontext.DB(ctx).
		Model(&entity.Document{}).
		Where("id=?", id).
		Updates(map[string]any{
			"name":           name,
			"content":        content,
			"last_edited_at": time.Now(),
		}).Error
}

func (r *documentRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Document{}, "id=?", id).Error
}
