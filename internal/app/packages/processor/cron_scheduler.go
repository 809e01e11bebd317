package processor

import (
	"context"

	"bazaar/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SnapshotCache - кеш каталога, вытесняемый по расписанию
type SnapshotCache interface {
	Evict()
}

// RatesCache - кеш курсов валют, вытесняемый по расписанию
type RatesCache interface {
	EvictRates(ctx context.Context) error
}

// CronScheduler владеет cron-задачами вытеснения кешей
// Сами кеши о расписаниях ничего не знают: планировщик внешний
type CronScheduler struct {
	cron          *cron.Cron
	productsCache SnapshotCache
	ratesCache    RatesCache
}

// NewCronScheduler создает планировщик вытеснения кешей
func NewCronScheduler(productsCache SnapshotCache, ratesCache RatesCache) *CronScheduler {
	return &CronScheduler{
		cron:          cron.New(),
		productsCache: productsCache,
		ratesCache:    ratesCache,
	}
}

// Start регистрирует задачи вытеснения и запускает планировщик
// Задачи только вытесняют: повторную загрузку выполнит первый промахнувшийся запрос
func (s *CronScheduler) Start(ctx context.Context, productSchedule, rateSchedule string) error {
	_, err := s.cron.AddFunc(productSchedule, func() {
		logger.Info().Msg("Cron job triggered: evicting product catalog snapshot")
		s.productsCache.Evict()
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(rateSchedule, func() {
		logger.Info().Msg("Cron job triggered: evicting currency rates snapshot")
		if err := s.ratesCache.EvictRates(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to evict currency rates")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().
		Str("product_schedule", productSchedule).
		Str("rate_schedule", rateSchedule).
		Msg("Cron scheduler started")

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
