package jobs

import (
	"context"
	"time"

	"campusnest/services/logger"
	"campusnest/services/notification"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// StaleCodePurger clears expired email verification codes.
type StaleCodePurger interface {
	PurgeStaleCodes(ctx context.Context) (int64, error)
}

// ModerationDigest counts pending reports and pushes a summary to moderators.
type ModerationDigest interface {
	CountPending(ctx context.Context) (int64, error)
	Notify(message string) error
}

// SearchIndexer rebuilds the housing search index from the database.
type SearchIndexer interface {
	RebuildIndex(ctx context.Context) (int, error)
}

// Jobs wires the scheduled work. Index is optional.
type Jobs struct {
	Codes  StaleCodePurger
	Digest ModerationDigest
	Index  SearchIndexer
	Logger logger.Logger
}

// InitCronJobs registers the nightly jobs and starts the scheduler.
func InitCronJobs(c *cron.Cron, j Jobs) error {
	// 03:00 every day
	if _, err := c.AddFunc("0 3 * * *", j.PurgeCodes); err != nil {
		return err
	}
	// 08:00 every day
	if _, err := c.AddFunc("0 8 * * *", j.SendDigest); err != nil {
		return err
	}
	if j.Index != nil {
		// 04:00 every day
		if _, err := c.AddFunc("0 4 * * *", j.RebuildIndex); err != nil {
			return err
		}
	}

	c.Start()
	j.Logger.Info("Cron jobs initialized successfully")
	return nil
}

func (j Jobs) PurgeCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.Codes.PurgeStaleCodes(ctx)
	if err != nil {
		j.Logger.Error("purge stale verification codes: %v", err)
		return
	}
	j.Logger.Info("purged %d stale verification codes", n)
}

func (j Jobs) SendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.Digest.CountPending(ctx)
	if err != nil {
		j.Logger.Error("count pending reports: %v", err)
		return
	}
	if n == 0 {
		return
	}
	if err := j.Digest.Notify(notification.DigestMessage(n)); err != nil {
		j.Logger.Error("send moderation digest: %v", err)
	}
}

func (j Jobs) RebuildIndex() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.Index.RebuildIndex(ctx)
	if err != nil {
		j.Logger.Error("rebuild housing index: %v", err)
		return
	}
	j.Logger.Info("reindexed %d housings", n)
}
