package database

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
)

// InMemoryCacheConfig - настройки bigcache для хранения аренды состояний пользователей.
// Записи маленькие, поэтому шардов и окна меньше чем в DefaultConfig.
func InMemoryCacheConfig(ttl time.Duration, maxSizeMB int) bigcache.Config {
	cnf := bigcache.DefaultConfig(ttl)
	cnf.Shards = 64
	cnf.MaxEntriesInWindow = 10000
	cnf.MaxEntrySize = 64
	cnf.HardMaxCacheSize = maxSizeMB
	cnf.CleanWindow = time.Minute
	if ttl < cnf.CleanWindow {
		cnf.CleanWindow = ttl
	}
	return cnf
}

func ConnectInMemoryCache(ctx context.Context, cnf bigcache.Config) (*bigcache.BigCache, error) {
	return bigcache.New(ctx, cnf)
}
