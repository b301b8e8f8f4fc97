// Package scheduler runs background jobs for the blog.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// FeedInvalidator invalidates cached feed pages
type FeedInvalidator interface {
	Invalidate(ctx context.Context)
}

// PublishSweepConfig holds configuration for the scheduled-post sweep
type PublishSweepConfig struct {
	// Schedule is the cron expression for the sweep
	Schedule string
	// JobTimeout is the maximum time a single sweep can run
	JobTimeout time.Duration
}

// DefaultPublishSweepConfig returns the default sweep configuration
func DefaultPublishSweepConfig() PublishSweepConfig {
	return PublishSweepConfig{
		Schedule:   "*/5 * * * *",
		JobTimeout: time.Minute,
	}
}

// PublishSweep watches for scheduled posts whose publication date has
// arrived and drops the cached feed pages so they show up immediately.
//
// Visibility itself never depends on the sweep: listings compare pub_date
// against the current time on every query. The sweep only keeps the cache
// from serving a feed that predates the post.
type PublishSweep struct {
	config    PublishSweepConfig
	postRepo  blog.PostRepository
	feedCache FeedInvalidator
	logger    *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	lastSweep time.Time
}

// NewPublishSweep creates a new publish sweep
func NewPublishSweep(
	config PublishSweepConfig,
	postRepo blog.PostRepository,
	feedCache FeedInvalidator,
	logger *zap.Logger,
) *PublishSweep {
	if config.Schedule == "" {
		config.Schedule = DefaultPublishSweepConfig().Schedule
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultPublishSweepConfig().JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishSweep{
		config:    config,
		postRepo:  postRepo,
		feedCache: feedCache,
		logger:    logger,
		lastSweep: time.Now(),
	}
}

// Start schedules the sweep
func (s *PublishSweep) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.config.Schedule, s.runSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.isRunning = true

	s.logger.Info("Publish sweep started",
		zap.String("schedule", s.config.Schedule),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop stops the sweep and waits for a running job to finish
func (s *PublishSweep) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Publish sweep stopped")
}

func (s *PublishSweep) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	if _, err := s.Sweep(ctx, time.Now()); err != nil {
		s.logger.Error("Publish sweep failed", zap.Error(err))
	}
}

// Sweep checks for posts published since the previous sweep and returns
// how many were found. The feed cache is invalidated only when new posts
// actually crossed the publication boundary.
func (s *PublishSweep) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	since := s.lastSweep
	s.mu.Unlock()

	posts, err := s.postRepo.FindScheduledSince(ctx, since, now)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.lastSweep = now
	s.mu.Unlock()

	if len(posts) == 0 {
		return 0, nil
	}

	for _, post := range posts {
		s.logger.Info("Scheduled post went live",
			zap.String("post_id", post.ID.String()),
			zap.String("title", post.Title),
			zap.Time("pub_date", post.PubDate),
		)
	}

	if s.feedCache != nil {
		s.feedCache.Invalidate(ctx)
	}
	return len(posts), nil
}
