package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DigestSender рассылает учителям напоминания о заявках в статусе Pending
type DigestSender interface {
	SendPendingDigest(ctx context.Context) (int, error)
}

// TokenPurger чистит отозванные токены с истёкшим сроком
type TokenPurger interface {
	PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	digest   DigestSender
	tokens   TokenPurger
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(digest DigestSender, tokens TokenPurger, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		digest:   digest,
		tokens:   tokens,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Background scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Background scheduler cancelled")
			return
		}
	}
}

// tick одна итерация: дайджест и чистка токенов
func (s *Scheduler) tick(ctx context.Context) {
	sent, err := s.digest.SendPendingDigest(ctx)
	if err != nil {
		s.logger.Error("Failed to send pending digest", zap.Error(err))
	} else {
		s.logger.Info("Pending digest sent", zap.Int("teachers", sent))
	}

	purged, err := s.tokens.PurgeRevokedTokens(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to purge revoked tokens", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("Revoked tokens purged", zap.Int64("count", purged))
	}
}
