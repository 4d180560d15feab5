package content

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

// Janitor periodically purges staged files nobody committed.
type Janitor struct {
	cron    *cron.Cron
	service ContentService
	ttl     time.Duration
}

func NewJanitor(service ContentService, schedule string, ttl time.Duration) (*Janitor, error) {
	logger := cron.PrintfLogger(config.Logger)
	j := &Janitor{
		cron:    cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
		service: service,
		ttl:     ttl,
	}

	if _, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return nil, err
	}
	return j, nil
}

// RunOnce purges staged files older than the TTL.
func (j *Janitor) RunOnce(ctx context.Context) int {
	log := config.WithContext(ctx)

	cutoff := time.Now().Add(-j.ttl)
	n, err := j.service.PurgeStaged(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Staged file purge failed")
		return 0
	}
	if n > 0 {
		log.WithField("cutoff", cutoff.Format(time.RFC3339)).Infof("Purged %d staged files", n)
	}
	return n
}

func (j *Janitor) Start() {
	config.Logger.Info("Staged file janitor started")
	j.cron.Start()
}

// Stop waits for a running purge to finish.
func (j *Janitor) Stop() context.Context {
	return j.cron.Stop()
}
