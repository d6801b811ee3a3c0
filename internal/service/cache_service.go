package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talenvo/talenvo-backend/internal/models"
)

// CacheService хранит значения в памяти с TTL и инвалидацией по ключу.
// Используется для агрегатов жалоб: счётчики по целям читаются часто,
// а меняются только при новой жалобе или решении модератора.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService создаёт кэш и запускает фоновую очистку.
func NewCacheService() *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
	}

	go cs.cleanup()

	return cs
}

// Get возвращает значение по ключу, если оно есть и не протухло.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.data, true
}

// Set кладёт значение в кэш с заданным TTL.
func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete удаляет ключ из кэша.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
}

// InvalidateByPrefix удаляет все ключи с указанным префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
		}
	}
}

// InvalidateReportCache сбрасывает агрегаты жалоб по цели.
func (cs *CacheService) InvalidateReportCache(targetType models.TargetType, targetID uuid.UUID) {
	cs.Delete(ReportCountCacheKey(targetType, targetID))
	cs.InvalidateByPrefix("report_counts:")
}

// cleanup периодически выкидывает протухшие записи.
func (cs *CacheService) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cs.mu.Lock()
		now := time.Now()
		for key, entry := range cs.cache {
			if now.After(entry.expiresAt) {
				delete(cs.cache, key)
			}
		}
		cs.mu.Unlock()
	}
}

// ReportCountCacheKey ключ счётчика жалоб по одной цели.
func ReportCountCacheKey(targetType models.TargetType, targetID uuid.UUID) string {
	return "report_count:" + string(targetType) + ":" + targetID.String()
}

// ReportCountsCacheKey ключ группового агрегата жалоб.
func ReportCountsCacheKey() string {
	return "report_counts:all"
}

// GetOrSet возвращает значение из кэша или вычисляет и кэширует его.
func (cs *CacheService) GetOrSet(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func() (interface{}, error),
) (interface{}, error) {
	if value, found := cs.Get(key); found {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}

	cs.Set(key, value, ttl)

	return value, nil
}
