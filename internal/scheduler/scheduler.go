package scheduler

import (
	"context"
	"time"

	"github.com/autorenta/api/internal/pkg/config"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/repository"
	"github.com/robfig/cron/v3"
)

// statsWarmer пересчитывает и кэширует сводку бронирований
type statsWarmer interface {
	WarmStatsCache(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами по расписанию
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	tokenRepo repository.RefreshTokenRepository
	stats     statsWarmer
	logger    logger.Logger
}

// NewScheduler создает планировщик с точностью до секунд в UTC
func NewScheduler(
	cfg config.SchedulerConfig,
	tokenRepo repository.RefreshTokenRepository,
	stats statsWarmer,
	logger logger.Logger,
) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:      c,
		cfg:       cfg,
		tokenRepo: tokenRepo,
		stats:     stats,
		logger:    logger,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	if _, err := s.cron.AddFunc(s.cfg.TokenCleanup, s.cleanupTokens); err != nil {
		s.logger.Error("Failed to register token cleanup job", map[string]interface{}{
			"error":    err.Error(),
			"schedule": s.cfg.TokenCleanup,
		})
	}

	if _, err := s.cron.AddFunc(s.cfg.StatsCacheWarm, s.warmStatsCache); err != nil {
		s.logger.Error("Failed to register stats cache warm job", map[string]interface{}{
			"error":    err.Error(),
			"schedule": s.cfg.StatsCacheWarm,
		})
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", map[string]interface{}{
		"token_cleanup":    s.cfg.TokenCleanup,
		"stats_cache_warm": s.cfg.StatsCacheWarm,
	})
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущих задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// cleanupTokens удаляет истекшие и отозванные refresh токены
func (s *Scheduler) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		s.logger.Error("Token cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.logger.Debug("Expired refresh tokens cleaned up")
}

// warmStatsCache обновляет кэш сводки бронирований
func (s *Scheduler) warmStatsCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.stats.WarmStatsCache(ctx); err != nil {
		s.logger.Error("Stats cache warm failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.logger.Debug("Reservation stats cache warmed")
}
