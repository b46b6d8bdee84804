package entity

import (
	"context"

	"github.com/collabtext-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Document{},
		&Permission{},
	)
}
