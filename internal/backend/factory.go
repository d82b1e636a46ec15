package backend

import (
	"context"
	"fmt"
	"log/slog"

	"shoplist/internal/cache"
	applog "shoplist/internal/log"
	"shoplist/internal/storage"
	"shoplist/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	log    *applog.Logger
	logger *slog.Logger
}

// NewFactory creates a new backend factory. Stores and caches it creates get
// loggers for their own components.
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &DefaultFactory{
		log:    logger,
		logger: logger.WithComponent(applog.ComponentBackend).Slog(),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		result = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		lru := cache.NewLRUCache[[]byte](config.CacheSize, config.CacheTTL)
		cacheLog := f.log.WithComponent(applog.ComponentCache).Slog()
		result.Store = storage.NewCachedStore(result.Store, lru, cacheLog)
		f.logger.InfoContext(ctx, "Enabled read cache",
			"size", config.CacheSize,
			"ttl", config.CacheTTL.String())

		inner := result.Cleanup
		result.Cleanup = func() error {
			st := lru.Stats()
			cacheLog.Debug("Read cache closed",
				"hits", st.Hits,
				"misses", st.Misses,
				"evictions", st.Evictions,
				"expired", st.Expired)
			if inner != nil {
				return inner()
			}
			return nil
		}
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath, f.log.WithComponent(applog.ComponentStorage).Slog())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", applog.FieldDBPath, config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Store:   memory.New(),
		Cleanup: nil, // No cleanup needed for memory backend
	}
}
