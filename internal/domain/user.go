package domain

import (
	"context"
	"errors"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/internal/model"
	"github.com/collabtext-lab/backend/internal/repository"
	"github.com/collabtext-lab/backend/pkg/errorx"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDomain interface {
	Create(context.Context, *model.CreateUserRequest) (*model.CreateUserResponse, error)
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) Create(
	ctx context.Context, req *model.CreateUserRequest,
) (*model.CreateUserResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Require email")
	}

	if _, err := d.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This email has already signed up")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing user: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Email: req.Email,
		Name:  req.Name,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateUserResponse{User: convertUser(user)}, nil
}

func (d *userDomain) Get(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Require email")
	}

	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: convertUser(user)}, nil
}
