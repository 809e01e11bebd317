package processor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSnapshotCache считает вытеснения каталога
type fakeSnapshotCache struct {
	mu     sync.Mutex
	evicts int
}

func (f *fakeSnapshotCache) Evict() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicts++
}

func (f *fakeSnapshotCache) evictCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.evicts
}

// fakeRatesCache считает вытеснения курсов
type fakeRatesCache struct {
	mu     sync.Mutex
	evicts int
	err    error
}

func (f *fakeRatesCache) EvictRates(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicts++
	return f.err
}

// ===================== NewCronScheduler Tests =====================

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{}

	// Act
	scheduler := NewCronScheduler(products, rates)

	// Assert
	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{}
	scheduler := NewCronScheduler(products, rates)

	ctx := context.Background()

	// Act - каталог каждые 5 минут, курсы ежедневно по Берлину
	err := scheduler.Start(ctx, "*/5 * * * *", "CRON_TZ=Europe/Berlin 0 17 * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 2) // Обе задачи зарегистрированы

	// Cleanup
	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidProductSchedule(t *testing.T) {
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{}
	scheduler := NewCronScheduler(products, rates)

	// Act
	err := scheduler.Start(context.Background(), "not a schedule", "0 17 * * *")

	// Assert
	assert.Error(t, err)
}

func TestCronScheduler_Start_InvalidRateSchedule(t *testing.T) {
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{}
	scheduler := NewCronScheduler(products, rates)

	// Act
	err := scheduler.Start(context.Background(), "*/5 * * * *", "every day at five")

	// Assert
	assert.Error(t, err)
}

// ===================== Job Tests =====================

func TestCronScheduler_JobsEvictCaches(t *testing.T) {
	// Проверяем сами задачи, не дожидаясь срабатывания по расписанию
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{}
	scheduler := NewCronScheduler(products, rates)

	err := scheduler.Start(context.Background(), "*/5 * * * *", "0 17 * * *")
	assert.NoError(t, err)
	defer scheduler.Stop()

	// Act
	for _, entry := range scheduler.GetEntries() {
		entry.Job.Run()
	}

	// Assert - каждая задача вытеснила свой кеш
	assert.Equal(t, 1, products.evictCount())
	rates.mu.Lock()
	assert.Equal(t, 1, rates.evicts)
	rates.mu.Unlock()
}

func TestCronScheduler_RateEvictionErrorDoesNotPanic(t *testing.T) {
	// Сбой Redis во время вытеснения только логируется
	// Arrange
	products := &fakeSnapshotCache{}
	rates := &fakeRatesCache{err: errors.New("redis connection refused")}
	scheduler := NewCronScheduler(products, rates)

	err := scheduler.Start(context.Background(), "*/5 * * * *", "0 17 * * *")
	assert.NoError(t, err)
	defer scheduler.Stop()

	// Act / Assert
	assert.NotPanics(t, func() {
		for _, entry := range scheduler.GetEntries() {
			entry.Job.Run()
		}
	})
}
