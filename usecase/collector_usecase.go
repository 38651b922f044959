package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
	"ytcollector/infrastructure/logger"
	"ytcollector/infrastructure/utils"

	"github.com/sirupsen/logrus"
)

// ReplySource selects how replies beyond the inline page are fetched.
type ReplySource string

const (
	// RepliesByParent lists comments scoped by the top-level comment.
	RepliesByParent ReplySource = "parent"
	// RepliesByThread lists comment threads scoped by the thread ID.
	RepliesByThread ReplySource = "thread"
)

// ICollectorUseCase drives the fetch-then-persist pipeline.
type ICollectorUseCase interface {
	Collect(ctx context.Context, urls []string) (*RunReport, error)
}

// VideoFailure is one input that was given up on.
type VideoFailure struct {
	URL     string `json:"url"`
	VideoID string `json:"videoId,omitempty"`
	Error   string `json:"error"`
}

// RunReport summarizes one Collect call.
type RunReport struct {
	Processed   []string       `json:"processed"`
	Skipped     []string       `json:"skipped"`
	Failed      []VideoFailure `json:"failed"`
	Threads     int            `json:"threads"`
	Comments    int            `json:"comments"`
	QuotaStart  int64          `json:"quotaStart"`
	QuotaEnd    int64          `json:"quotaEnd"`
	Interrupted bool           `json:"interrupted"`
}

// CollectorUseCase implements ICollectorUseCase.
type CollectorUseCase struct {
	youtube      repository.IYouTube
	store        repository.IRecordStore
	defaultQuota int64
	replies      ReplySource
	now          func() time.Time
}

func NewCollectorUseCase(youtube repository.IYouTube, store repository.IRecordStore, defaultQuota int64) *CollectorUseCase {
	if defaultQuota == 0 {
		defaultQuota = model.DefaultDailyQuota
	}
	return &CollectorUseCase{
		youtube:      youtube,
		store:        store,
		defaultQuota: defaultQuota,
		replies:      RepliesByParent,
		now:          utils.GetCurrentTime,
	}
}

// WithReplySource switches the reply fetch variant (fluent).
func (u *CollectorUseCase) WithReplySource(src ReplySource) *CollectorUseCase {
	if src != "" {
		u.replies = src
	}
	return u
}

// WithClock overrides the clock that picks the quota day (fluent).
func (u *CollectorUseCase) WithClock(now func() time.Time) *CollectorUseCase {
	u.now = now
	return u
}

// videoCounts tallies what one video added.
type videoCounts struct {
	threads  int
	comments int
}

// Collect processes urls in order, one video at a time. A video-scoped
// failure purges what was stored for that video and moves on; a store
// failure ends the run. Cancelling ctx stops after purging the video in
// flight. Today's quota is written back in every case where the store is
// reachable.
func (u *CollectorUseCase) Collect(ctx context.Context, urls []string) (*RunReport, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	today := u.now()
	start, err := session.GetQuota(ctx, today, u.defaultQuota)
	if err != nil {
		return nil, err
	}
	quota := model.NewQuota(start)
	report := &RunReport{QuotaStart: start}

	runErr := u.collectAll(ctx, session, quota, urls, report)

	report.QuotaEnd = quota.Remaining()
	if err := session.SetQuota(context.WithoutCancel(ctx), today, quota.Remaining()); err != nil {
		return report, errors.Join(runErr, err)
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"processed":   len(report.Processed),
		"skipped":     len(report.Skipped),
		"failed":      len(report.Failed),
		"threads":     report.Threads,
		"comments":    report.Comments,
		"quotaSpent":  quota.Spent(),
		"quota":       quota.Remaining(),
		"interrupted": report.Interrupted,
	}).Info("Collection finished")
	return report, runErr
}

func (u *CollectorUseCase) collectAll(ctx context.Context, session repository.IRecordSession, quota *model.Quota, urls []string, report *RunReport) error {
	for i, rawURL := range urls {
		if ctx.Err() != nil {
			report.Interrupted = true
			return nil
		}
		log := logger.GetLogger().WithFields(logrus.Fields{
			"position": fmt.Sprintf("%d/%d", i+1, len(urls)),
			"url":      rawURL,
		})

		videoID, err := utils.ExtractVideoID(rawURL)
		if err != nil {
			log.WithField("error", err).Warn("Skipping input")
			report.Failed = append(report.Failed, VideoFailure{URL: rawURL, Error: err.Error()})
			continue
		}
		log = log.WithField("videoId", videoID)

		exists, err := session.Exists(ctx, model.TableVideos, videoID)
		if err != nil {
			return err
		}
		if exists {
			log.Info("Video already collected")
			report.Skipped = append(report.Skipped, videoID)
			continue
		}

		log.WithField("quota", quota.Remaining()).Info("Collecting video")
		counts, err := u.collectVideo(ctx, session, quota, videoID)
		if err == nil {
			report.Processed = append(report.Processed, videoID)
			report.Threads += counts.threads
			report.Comments += counts.comments
			log.WithFields(logrus.Fields{
				"threads":  counts.threads,
				"comments": counts.comments,
				"quota":    quota.Remaining(),
			}).Info("Video collected")
			continue
		}

		interrupted := ctx.Err() != nil
		if !interrupted && !model.IsVideoScoped(err) {
			return err
		}
		if perr := session.PurgeVideo(context.WithoutCancel(ctx), videoID); perr != nil {
			return errors.Join(err, perr)
		}
		if interrupted {
			log.Warn("Interrupted, partial video removed")
			report.Interrupted = true
			return nil
		}
		log.WithField("error", err).Error("Video failed, partial rows removed")
		report.Failed = append(report.Failed, VideoFailure{URL: rawURL, VideoID: videoID, Error: err.Error()})
	}
	return nil
}

func (u *CollectorUseCase) collectVideo(ctx context.Context, session repository.IRecordSession, quota *model.Quota, videoID string) (videoCounts, error) {
	var counts videoCounts

	video, err := u.youtube.FetchVideo(ctx, quota, videoID)
	if err != nil {
		return counts, err
	}
	if err := session.Upsert(ctx, *video); err != nil {
		return counts, err
	}

	for thread, err := range u.youtube.FetchCommentThreads(ctx, quota, videoID) {
		if err != nil {
			return counts, err
		}
		if err := u.saveThread(ctx, session, *thread, &counts); err != nil {
			return counts, err
		}
		// Replies fully embedded inline are not refetched; that call would only spend quota.
		if thread.HasMoreReplies() {
			if err := u.collectReplies(ctx, session, quota, *thread, &counts); err != nil {
				return counts, err
			}
		}
		logger.GetLogger().WithFields(logrus.Fields{
			"videoId":  videoID,
			"threads":  counts.threads,
			"comments": counts.comments,
			"quota":    quota.Remaining(),
		}).Info("Thread stored")
	}
	return counts, nil
}

// saveThread stores the top-level comment, the thread row and any inline
// replies.
func (u *CollectorUseCase) saveThread(ctx context.Context, session repository.IRecordSession, thread model.CommentThread, counts *videoCounts) error {
	if err := session.Upsert(ctx, thread.Snippet.TopLevelComment); err != nil {
		return err
	}
	if err := session.Upsert(ctx, thread); err != nil {
		return err
	}
	counts.threads++
	counts.comments++
	for _, reply := range thread.InlineReplies() {
		if err := session.Upsert(ctx, reply); err != nil {
			return err
		}
		counts.comments++
	}
	return nil
}

// collectReplies stores the replies of thread beyond the inline ones. Only
// replies not already embedded are counted.
func (u *CollectorUseCase) collectReplies(ctx context.Context, session repository.IRecordSession, quota *model.Quota, thread model.CommentThread, counts *videoCounts) error {
	parentID := thread.Snippet.TopLevelComment.ID
	seen := make(map[string]struct{}, len(thread.InlineReplies()))
	for _, r := range thread.InlineReplies() {
		seen[r.ID] = struct{}{}
	}
	progress := newPageProgress(quota, parentID)

	save := func(reply model.Comment) error {
		if err := session.Upsert(ctx, reply); err != nil {
			return err
		}
		if _, ok := seen[reply.ID]; !ok {
			seen[reply.ID] = struct{}{}
			counts.comments++
		}
		progress.observe(counts)
		return nil
	}

	if u.replies == RepliesByThread {
		for sub, err := range u.youtube.FetchThreadsByID(ctx, quota, parentID) {
			if err != nil {
				return err
			}
			if err := session.Upsert(ctx, sub.Snippet.TopLevelComment); err != nil {
				return err
			}
			for _, reply := range sub.InlineReplies() {
				if err := save(reply); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for reply, err := range u.youtube.FetchRepliesByParent(ctx, quota, parentID) {
		if err != nil {
			return err
		}
		if err := save(*reply); err != nil {
			return err
		}
	}
	return nil
}

// pageProgress logs one line per reply page. A page shows up as a quota
// spend between two stored replies.
type pageProgress struct {
	quota    *model.Quota
	parentID string
	spent    int64
	page     int
}

func newPageProgress(quota *model.Quota, parentID string) *pageProgress {
	return &pageProgress{quota: quota, parentID: parentID, spent: quota.Spent()}
}

func (p *pageProgress) observe(counts *videoCounts) {
	if p.quota.Spent() == p.spent {
		return
	}
	p.spent = p.quota.Spent()
	p.page++
	logger.GetLogger().WithFields(logrus.Fields{
		"parentId": p.parentID,
		"page":     p.page,
		"comments": counts.comments,
		"quota":    p.quota.Remaining(),
	}).Info("Reply page stored")
}
