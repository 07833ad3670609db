package cron

import (
	"context"
	"time"

	"lokai/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCatalogRefresh = "catalog:refresh"

// CatalogRefresher re-reads the approved vendors from the store.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// TaskEnqueuer is the producer side of the queue; *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewClient returns a producer on the queue database.
func NewClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// NewCatalogRefreshTask builds a refresh task. Refreshes carry no payload
// and at most one is queued at a time.
func NewCatalogRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeCatalogRefresh, nil,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Unique(time.Minute),
	)
}

// EnqueueCatalogRefresh queues a refresh and returns the task id.
func EnqueueCatalogRefresh(ctx context.Context, q TaskEnqueuer) (string, error) {
	info, err := q.EnqueueContext(ctx, NewCatalogRefreshTask())
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// InitCatalogWorker runs the async worker in background. The returned
// function stops it.
func InitCatalogWorker(catalog CatalogRefresher, logger *zap.Logger) func() {
	logger = logger.With(zap.String("component", "catalog-worker"))

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCatalogRefresh, handleCatalogRefresh(catalog, logger))

	ctx, cancel := context.WithCancel(context.Background())
	go monitorRedisConnection(ctx, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting catalog worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Start(mux); err != nil {
				logger.Warn("failed to start catalog worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Error("max retry attempts reached, catalog refresh disabled")
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(attempts*2) * time.Second):
				}
				continue
			}
			return
		}
	}()

	return func() {
		cancel()
		srv.Shutdown()
	}
}

func handleCatalogRefresh(catalog CatalogRefresher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		if err := catalog.Refresh(ctx); err != nil {
			logger.Warn("catalog refresh failed", zap.Error(err))
			return err
		}
		logger.Info("catalog refreshed", zap.Duration("took", time.Since(start)))
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to detect
// failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
