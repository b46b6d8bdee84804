package domain

import (
	"context"
	"errors"

	"github.com/collabtext-lab/backend/internal/domain/relay"
	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/internal/model"
	"github.com/collabtext-lab/backend/internal/repository"
	"github.com/collabtext-lab/backend/pkg/errorx"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionDomain interface {
	Grant(context.Context, *model.GrantPermissionRequest) (*model.GrantPermissionResponse, error)
	Revoke(context.Context, *model.RevokePermissionRequest) (*model.RevokePermissionResponse, error)
	GetByDocument(context.Context, *model.GetDocumentPermissionsRequest) (*model.GetDocumentPermissionsResponse, error)
	GetByUser(context.Context, *model.GetUserPermissionsRequest) (*model.GetUserPermissionsResponse, error)
}

type permissionDomain struct {
	permissionRepo repository.PermissionRepository
	documentRepo   repository.DocumentRepository
	userRepo       repository.UserRepository
	publisher      pubsub.Publisher
}

func NewPermissionDomain(
	permissionRepo repository.PermissionRepository,
	documentRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *permissionDomain {
	return &permissionDomain{
		permissionRepo: permissionRepo,
		documentRepo:   documentRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

func (d *permissionDomain) Grant(
	ctx context.Context, req *model.GrantPermissionRequest,
) (*model.GrantPermissionResponse, error) {
	if req.DocumentID == "" || req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id and email")
	}

	if _, err := d.documentRepo.GetByID(ctx, req.DocumentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found document")
		}

		xcontext.Logger(ctx).Errorf("Cannot get document: %v", err)
		return nil, errorx.Unknown
	}

	// The grant still goes through when the email has not signed up yet; the
	// permission binds to the user once they register.
	userID := ""
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		userID = user.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	err = d.permissionRepo.Upsert(ctx, &entity.Permission{
		Base:       entity.Base{ID: uuid.NewString()},
		DocumentID: req.DocumentID,
		UserID:     userID,
		Email:      req.Email,
		CanWrite:   req.CanWrite,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot grant permission: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GrantPermissionResponse{}, nil
}

func (d *permissionDomain) Revoke(
	ctx context.Context, req *model.RevokePermissionRequest,
) (*model.RevokePermissionResponse, error) {
	if req.DocumentID == "" || req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id and email")
	}

	affected, err := d.permissionRepo.Delete(ctx, req.DocumentID, req.Email)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke permission: %v", err)
		return nil, errorx.Unknown
	}

	if affected == 0 {
		return nil, errorx.New(errorx.NotFound, "Not found permission")
	}

	if err := relay.PublishPermissionRevoked(ctx, d.publisher, req.DocumentID, req.Email); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish permission revoked: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot notify revocation")
	}

	return &model.RevokePermissionResponse{}, nil
}

func (d *permissionDomain) GetByDocument(
	ctx context.Context, req *model.GetDocumentPermissionsRequest,
) (*model.GetDocumentPermissionsResponse, error) {
	if req.DocumentID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require document id")
	}

	permissions, err := d.permissionRepo.GetByDocumentID(ctx, req.DocumentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get permissions of document: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetDocumentPermissionsResponse{
		Permissions: convertPermissions(permissions),
	}, nil
}

func (d *permissionDomain) GetByUser(
	ctx context.Context, req *model.GetUserPermissionsRequest,
) (*model.GetUserPermissionsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user id")
	}

	permissions, err := d.permissionRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get permissions of user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserPermissionsResponse{
		Permissions: convertPermissions(permissions),
	}, nil
}
