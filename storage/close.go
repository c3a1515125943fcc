package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"RollCall/config"
	"RollCall/pkg/logger"
	"RollCall/storage/database"
	"RollCall/storage/mq"
	"RollCall/storage/redis"
)

// Close 优雅关闭所有存储连接，顺序：MQ -> Redis -> Database。
// 先停掉备份事件的投递，再放掉缓存，最后关库。
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Logger.Info("Closing storage connections...")

	if config.Cfg.BackupEnabled {
		if err := mq.Close(ctx); err != nil {
			logger.Logger.Error("Failed to close message queue", zap.Error(err))
		}
	}

	if err := redis.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
	}

	if err := database.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	logger.Logger.Info("All storage connections closed")
}
