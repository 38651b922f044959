package usecase_test

import (
	"context"
	"testing"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
	"ytcollector/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUseCase_Queries(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store, *video("v1"), *video("v2"),
		comment("c1", "v1", nil), comment("c2", "v1", nil), comment("c3", "v2", nil))
	uc := usecase.NewRecordUseCase(store, 0)
	ctx := context.Background()

	videos, err := uc.ListVideos(ctx, repository.RecordFilter{VideoID: "ignored", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v2", videos[0].ID)

	got, err := uc.GetVideo(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, video("v1").Snippet.Title, got.Snippet.Title)

	_, err = uc.GetVideo(ctx, "missing")
	var notFound *model.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	comments, err := uc.ListComments(ctx, "v1", repository.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	quota, err := uc.GetQuota(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDailyQuota, quota)
}
