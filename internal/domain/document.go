package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/collabtext-lab/backend/internal/domain/relay"
	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/internal/model"
	"github.com/collabtext-lab/backend/internal/repository"
	"github.com/collabtext-lab/backend/pkg/errorx"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const documentCacheTTL = 10 * time.Minute

type DocumentDomain interface {
	Create(context.Context, *model.CreateDocumentRequest) (*model.CreateDocumentResponse, error)
	Get(context.Context, *model.GetDocumentRequest) (*model.GetDocumentResponse, error)
	GetList(context.Context, *model.GetListDocumentRequest) (*model.GetListDocumentResponse, error)
	GetListByUser(context.Context, *model.GetListDocumentByUserRequest) (*model.GetListDocumentByUserResponse, error)
	Update(context.Context, *model.UpdateDocumentRequest) (*model.UpdateDocumentResponse, error)
	Delete(context.Context, *model.DeleteDocumentRequest) (*model.DeleteDocumentResponse, error)
}

type documentDomain struct {
	documentRepo   repository.DocumentRepository
	permissionRepo repository.PermissionRepository
	publisher      pubsub.Publisher
	redisClient    *redis.Client
}

func NewDocumentDomain(
	documentRepo repository.DocumentRepository,
	permissionRepo repository.PermissionRepository,
	publisher pubsub.Publisher,
	redisClient *redis.Client,
) *documentDomain {
	return &documentDomain{
		documentRepo:   documentRepo,
		permissionRepo: permissionRepo,
		publisher:      publisher,
		redisClient:    redisClient,
	}
}

func (d *documentDomain) Create(
	ctx context.Context, req *model.CreateDocumentRequest,
) (*model.CreateDocumentResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document name")
	}

	doc := &entity.Document{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         req.Name,
		Content:      "",
		LastEditedAt: time.Now(),
	}

	if err := d.documentRepo.Create(ctx, doc); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create document: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateDocumentResponse{Document: convertDocument(doc)}, nil
}

func (d *documentDomain) Get(
	ctx context.Context, req *model.GetDocumentRequest,
) (*model.GetDocumentResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id")
	}

	if cached := d.loadCache(ctx, req.ID); cached != nil {
		return &model.GetDocumentResponse{Document: *cached}, nil
	}

	doc, err := d.documentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found document")
		}

		xcontext.Logger(ctx).Errorf("Cannot get document: %v", err)
		return nil, errorx.Unknown
	}

	converted := convertDocument(doc)
	d.storeCache(ctx, &converted)

	return &model.GetDocumentResponse{Document: converted}, nil
}

func (d *documentDomain) GetList(
	ctx context.Context, req *model.GetListDocumentRequest,
) (*model.GetListDocumentResponse, error) {
	docs, err := d.documentRepo.GetList(ctx, repository.GetListDocumentFilter{
		Search: req.Search,
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list documents: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetListDocumentResponse{Documents: convertDocuments(docs)}, nil
}

func (d *documentDomain) GetListByUser(
	ctx context.Context, req *model.GetListDocumentByUserRequest,
) (*model.GetListDocumentByUserResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user id")
	}

	permissions, err := d.permissionRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get permissions of user: %v", err)
		return nil, errorx.Unknown
	}

	ids := make([]string, 0, len(permissions))
	for _, p := range permissions {
		ids = append(ids, p.DocumentID)
	}

	docs, err := d.documentRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get permitted documents: %v", err)
		return nil, errorx.Unknown
	}

	search := strings.ToLower(req.Search)
	filtered := []entity.Document{}
	for _, doc := range docs {
		if search == "" || strings.Contains(strings.ToLower(doc.Name), search) {
			filtered = append(filtered, doc)
		}
	}

	if req.Offset > 0 {
		if req.Offset > len(filtered) {
			filtered = nil
		} else {
			filtered = filtered[req.Offset:]
		}
	}

	if req.Limit > 0 && req.Limit < len(filtered) {
		filtered = filtered[:req.Limit]
	}

	return &model.GetListDocumentByUserResponse{Documents: convertDocuments(filtered)}, nil
}

func (d *documentDomain) Update(
	ctx context.Context, req *model.UpdateDocumentRequest,
) (*model.UpdateDocumentResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id")
	}

	if _, err := d.documentRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found document")
		}

		xcontext.Logger(ctx).Errorf("Cannot get document: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.documentRepo.UpdateContent(ctx, req.ID, req.Name, req.Content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update document: %v", err)
		return nil, errorx.Unknown
	}

	d.dropCache(ctx, req.ID)

	return &model.UpdateDocumentResponse{}, nil
}

func (d *documentDomain) Delete(
	ctx context.Context, req *model.DeleteDocumentRequest,
) (*model.DeleteDocumentResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id")
	}

	if err := d.documentRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete document: %v", err)
		return nil, errorx.Unknown
	}

	d.dropCache(ctx, req.ID)

	// The document is gone either way; a failed publish only means live
	// editors will not hear about it, which the caller must know.
	if err := relay.PublishDocumentDeleted(ctx, d.publisher, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish document deleted: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot notify deletion")
	}

	return &model.DeleteDocumentResponse{}, nil
}

func (d *documentDomain) cacheKey(id string) string {
	return "document:" + id
}

// loadCache returns the cached document or nil. The cache is best effort,
// errors only log.
func (d *documentDomain) loadCache(ctx context.Context, id string) *model.Document {
	if d.redisClient == nil {
		return nil
	}

	b, err := d.redisClient.Get(ctx, d.cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot read document cache: %v", err)
		}
		return nil
	}

	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal cached document: %v", err)
		return nil
	}

	return &doc
}

func (d *documentDomain) storeCache(ctx context.Context, doc *model.Document) {
	if d.redisClient == nil {
		return
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return
	}

	if err := d.redisClient.Set(ctx, d.cacheKey(doc.ID), b, documentCacheTTL).Err(); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot write document cache: %v", err)
	}
}

func (d *documentDomain) dropCache(ctx context.Context, id string) {
	if d.redisClient == nil {
		return
	}

	if err := d.redisClient.Del(ctx, d.cacheKey(id)).Err(); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate document cache: %v", err)
	}
}
