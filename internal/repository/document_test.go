package repository

import (
	"testing"
	"time"

	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_documentRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	r := NewDocumentRepository()

	older := entity.Document{
		Base:         entity.Base{ID: "older"},
		Name:         "Archive",
		LastEditedAt: time.Now().Add(-time.Hour),
	}
	newer := entity.Document{
		Base:         entity.Base{ID: "newer"},
		Name:         "Active notes",
		LastEditedAt: time.Now(),
	}
	require.NoError(t, r.Create(ctx, &older))
	require.NoError(t, r.Create(ctx, &newer))

	// Most recently edited first.
	docs, err := r.GetList(ctx, GetListDocumentFilter{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "newer", docs[0].ID)
	require.Equal(t, "older", docs[1].ID)

	docs, err = r.GetList(ctx, GetListDocumentFilter{Search: "archive"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "older", docs[0].ID)

	docs, err = r.GetList(ctx, GetListDocumentFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "older", docs[0].ID)
}

func Test_documentRepository_GetByIDs(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	r := NewDocumentRepository()

	docs, err := r.GetByIDs(ctx, []string{
		testutil.Document2.ID, testutil.Document1.ID, "no-such-document",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = r.GetByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func Test_documentRepository_UpdateContent(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	r := NewDocumentRepository()

	before, err := r.GetByID(ctx, testutil.Document1.ID)
	require.NoError(t, err)

	require.NoError(t, r.UpdateContent(ctx, testutil.Document1.ID, "Renamed", "new body"))

	after, err := r.GetByID(ctx, testutil.Document1.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", after.Name)
	require.Equal(t, "new body", after.Content)
	require.True(t, after.LastEditedAt.After(before.LastEditedAt))
}

func Test_documentRepository_DeleteByID(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	r := NewDocumentRepository()

	require.NoError(t, r.DeleteByID(ctx, testutil.Document1.ID))

	_, err := r.GetByID(ctx, testutil.Document1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	docs, err := r.GetList(ctx, GetListDocumentFilter{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, testutil.Document2.ID, docs[0].ID)
}
