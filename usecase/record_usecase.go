package usecase

import (
	"context"
	"time"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
)

// IRecordUseCase answers read-only queries over collected data.
type IRecordUseCase interface {
	ListVideos(ctx context.Context, filter repository.RecordFilter) ([]model.Video, error)
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	ListComments(ctx context.Context, videoID string, filter repository.RecordFilter) ([]model.Comment, error)
	GetQuota(ctx context.Context, date time.Time) (int64, error)
}

// RecordUseCase implements IRecordUseCase. Every call opens its own session.
type RecordUseCase struct {
	store        repository.IRecordStore
	defaultQuota int64
}

func NewRecordUseCase(store repository.IRecordStore, defaultQuota int64) IRecordUseCase {
	if defaultQuota == 0 {
		defaultQuota = model.DefaultDailyQuota
	}
	return &RecordUseCase{store: store, defaultQuota: defaultQuota}
}

func (u *RecordUseCase) ListVideos(ctx context.Context, filter repository.RecordFilter) ([]model.Video, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	filter.VideoID = ""
	recs, err := session.List(ctx, model.TableVideos, filter)
	if err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(recs))
	for _, rec := range recs {
		videos = append(videos, rec.(model.Video))
	}
	return videos, nil
}

// GetVideo fails with *model.NotFoundError when the video was never
// collected.
func (u *RecordUseCase) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	rec, err := session.Get(ctx, model.TableVideos, videoID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &model.NotFoundError{Kind: "video", ID: videoID}
	}
	video := rec.(model.Video)
	return &video, nil
}

func (u *RecordUseCase) ListComments(ctx context.Context, videoID string, filter repository.RecordFilter) ([]model.Comment, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	filter.VideoID = videoID
	recs, err := session.List(ctx, model.TableComments, filter)
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0, len(recs))
	for _, rec := range recs {
		comments = append(comments, rec.(model.Comment))
	}
	return comments, nil
}

// GetQuota returns the stored budget for date, or the configured default
// when no run touched that day.
func (u *RecordUseCase) GetQuota(ctx context.Context, date time.Time) (int64, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	return session.GetQuota(ctx, date, u.defaultQuota)
}
