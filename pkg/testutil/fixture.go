package testutil

import (
	"context"
	"time"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/pkg/xcontext"
)

var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1"},
		Email: "user1@example.com",
		Name:  "First User",
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Email: "user2@example.com",
		Name:  "Second User",
	}

	Document1 = entity.Document{
		Base:         entity.Base{ID: "document1"},
		Name:         "Meeting notes",
		Content:      "hello world",
		LastEditedAt: time.Now(),
	}

	Document2 = entity.Document{
		Base:         entity.Base{ID: "document2"},
		Name:         "Roadmap",
		Content:      "",
		LastEditedAt: time.Now(),
	}

	Permission1 = entity.Permission{
		Base:       entity.Base{ID: "permission1"},
		DocumentID: Document1.ID,
		UserID:     User1.ID,
		Email:      User1.Email,
		CanWrite:   true,
	}

	Permission2 = entity.Permission{
		Base:       entity.Base{ID: "permission2"},
		DocumentID: Document1.ID,
		UserID:     User2.ID,
		Email:      User2.Email,
		CanWrite:   false,
	}
)

// CreateFixtureContext returns a MockContext whose database is preloaded with
// the fixture users, documents, and permissions above.
func CreateFixtureContext() context.Context {
	ctx := MockContext()
	InsertUsers(ctx)
	InsertDocuments(ctx)
	InsertPermissions(ctx)
	return ctx
}

func InsertUsers(ctx context.Context) {
	for _, user := range []entity.User{User1, User2} {
		user := user
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

func InsertDocuments(ctx context.Context) {
	for _, doc := range []entity.Document{Document1, Document2} {
		doc := doc
		if err := xcontext.DB(ctx).Create(&doc).Error; err != nil {
			panic(err)
		}
	}
}

func InsertPermissions(ctx context.Context) {
	for _, permission := range []entity.Permission{Permission1, Permission2} {
		permission := permission
		if err := xcontext.DB(ctx).Create(&permission).Error; err != nil {
			panic(err)
		}
	}
}
