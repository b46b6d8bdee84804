package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/collabtext-lab/backend/internal/domain/relay"
	"github.com/collabtext-lab/backend/internal/model"
	"github.com/collabtext-lab/backend/internal/repository"
	"github.com/collabtext-lab/backend/pkg/errorx"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	"github.com/collabtext-lab/backend/pkg/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newDocumentDomainForTest(publisher pubsub.Publisher, redisClient *redis.Client) DocumentDomain {
	return NewDocumentDomain(
		repository.NewDocumentRepository(),
		repository.NewPermissionRepository(),
		publisher,
		redisClient,
	)
}

func Test_documentDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, nil)

	resp, err := d.Create(ctx, &model.CreateDocumentRequest{Name: "Design doc"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "Design doc", resp.Name)
	require.Empty(t, resp.Content)

	got, err := d.Get(ctx, &model.GetDocumentRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "Design doc", got.Name)

	_, err = d.Create(ctx, &model.CreateDocumentRequest{})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Require document name").Error(), err.Error())
}

func Test_documentDomain_Get(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.GetDocumentRequest
		want    string
		wantErr error
	}{
		{
			name: "happy case",
			req:  &model.GetDocumentRequest{ID: testutil.Document1.ID},
			want: testutil.Document1.Content,
		},
		{
			name:    "not found",
			req:     &model.GetDocumentRequest{ID: "no-such-document"},
			wantErr: errorx.New(errorx.NotFound, "Not found document"),
		},
		{
			name:    "empty id",
			req:     &model.GetDocumentRequest{},
			wantErr: errorx.New(errorx.BadRequest, "Require document id"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.CreateFixtureContext()
			d := newDocumentDomainForTest(&testutil.MockPublisher{}, nil)

			got, err := d.Get(ctx, tt.req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.Equal(t, tt.want, got.Content)
			} else {
				require.Error(t, err)
				require.Equal(t, tt.wantErr.Error(), err.Error())
			}
		})
	}
}

func Test_documentDomain_GetUsesCache(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, redisClient)

	// The first read fills the cache.
	got, err := d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document1.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Document1.Content, got.Content)
	require.True(t, mr.Exists("document:"+testutil.Document1.ID))

	// A read with the database bypassed proves the cache serves it.
	documentRepo := repository.NewDocumentRepository()
	require.NoError(t, documentRepo.DeleteByID(ctx, testutil.Document1.ID))
	got, err = d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document1.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Document1.Content, got.Content)
}

func Test_documentDomain_UpdateInvalidatesCache(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, redisClient)

	_, err := d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document1.ID})
	require.NoError(t, err)
	require.True(t, mr.Exists("document:"+testutil.Document1.ID))

	_, err = d.Update(ctx, &model.UpdateDocumentRequest{
		ID:      testutil.Document1.ID,
		Name:    testutil.Document1.Name,
		Content: "updated content",
	})
	require.NoError(t, err)
	require.False(t, mr.Exists("document:"+testutil.Document1.ID))

	got, err := d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document1.ID})
	require.NoError(t, err)
	require.Equal(t, "updated content", got.Content)
}

func Test_documentDomain_Update(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, nil)

	_, err := d.Update(ctx, &model.UpdateDocumentRequest{
		ID: "no-such-document", Content: "anything",
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found document").Error(), err.Error())

	_, err = d.Update(ctx, &model.UpdateDocumentRequest{
		ID:      testutil.Document2.ID,
		Name:    "Roadmap v2",
		Content: "Q3 plans",
	})
	require.NoError(t, err)

	got, err := d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document2.ID})
	require.NoError(t, err)
	require.Equal(t, "Roadmap v2", got.Name)
	require.Equal(t, "Q3 plans", got.Content)
}

func Test_documentDomain_GetList(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, nil)

	resp, err := d.GetList(ctx, &model.GetListDocumentRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 2)

	resp, err = d.GetList(ctx, &model.GetListDocumentRequest{Search: "road"})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	require.Equal(t, testutil.Document2.ID, resp.Documents[0].ID)

	resp, err = d.GetList(ctx, &model.GetListDocumentRequest{Offset: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
}

func Test_documentDomain_GetListByUser(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	d := newDocumentDomainForTest(&testutil.MockPublisher{}, nil)

	// Both fixture users only hold permissions on the first document.
	resp, err := d.GetListByUser(ctx, &model.GetListDocumentByUserRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	require.Equal(t, testutil.Document1.ID, resp.Documents[0].ID)

	resp, err = d.GetListByUser(ctx, &model.GetListDocumentByUserRequest{
		UserID: testutil.User1.ID,
		Search: "meeting",
	})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	require.Equal(t, testutil.Document1.ID, resp.Documents[0].ID)

	// The user holds no permission on the roadmap document.
	resp, err = d.GetListByUser(ctx, &model.GetListDocumentByUserRequest{
		UserID: testutil.User1.ID,
		Search: "roadmap",
	})
	require.NoError(t, err)
	require.Empty(t, resp.Documents)

	resp, err = d.GetListByUser(ctx, &model.GetListDocumentByUserRequest{
		UserID: testutil.User1.ID,
		Offset: 5,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Documents)

	_, err = d.GetListByUser(ctx, &model.GetListDocumentByUserRequest{})
	require.Error(t, err)
}

func Test_documentDomain_Delete(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	publisher := &testutil.MockPublisher{}
	d := newDocumentDomainForTest(publisher, nil)

	_, err := d.Delete(ctx, &model.DeleteDocumentRequest{ID: testutil.Document1.ID})
	require.NoError(t, err)

	_, err = d.Get(ctx, &model.GetDocumentRequest{ID: testutil.Document1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found document").Error(), err.Error())

	published := publisher.Published(relay.DocumentDeletedQueue)
	require.Len(t, published, 1)
	require.Equal(t, []byte(testutil.Document1.ID), published[0].Key)

	var msg relay.DocumentDeletedMessage
	require.NoError(t, json.Unmarshal(published[0].Msg, &msg))
	require.Equal(t, testutil.Document1.ID, msg.DocumentID)
}

func Test_documentDomain_DeletePublishFailure(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	publisher := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker is down")
		},
	}
	d := newDocumentDomainForTest(publisher, nil)

	_, err := d.Delete(ctx, &model.DeleteDocumentRequest{ID: testutil.Document1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.Unavailable, "Cannot notify deletion").Error(), err.Error())
}
