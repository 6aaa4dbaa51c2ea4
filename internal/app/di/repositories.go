package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	marketadapters "findata_backend/internal/feature/marketdata/adapters"
	marketusecase "findata_backend/internal/feature/marketdata/usecase"
	"findata_backend/internal/platform/cache"
)

// NewBarRepository creates the bar store, decorated with Redis caching when a
// client is available. The cache TTL runs until the next market close so a
// day's bars are served from Redis after the first read.
func NewBarRepository(db *gorm.DB, rdb *redis.Client) (marketusecase.BarRepository, marketusecase.BarWriter) {
	repo := marketadapters.NewBarRepository(db)
	if rdb == nil {
		return repo, repo
	}
	ttl := cache.TimeUntilNextMarketClose()
	cached := cache.NewCachingBarRepository(rdb, ttl, repo, repo, "bars")
	return cached, cached
}
