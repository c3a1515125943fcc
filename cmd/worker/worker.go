package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"RollCall/config"
	"RollCall/internal/backup"
	"RollCall/internal/queue"
	"RollCall/pkg/logger"
	"RollCall/storage/mq"
)

// 备份 worker：消费签到事件，镜像追加到备份文件。
func main() {
	logger.Init()
	defer logger.Sync()

	if !config.Cfg.BackupEnabled {
		logger.Logger.Fatal("Backup worker started with BACKUP_ENABLED=false")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := mq.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize message queue", zap.Error(err))
	}
	defer func() {
		if err := mq.Close(context.Background()); err != nil {
			logger.Logger.Error("Failed to close message queue", zap.Error(err))
		}
	}()

	sink, err := backup.Open(config.Cfg.BackupFilePath)
	if err != nil {
		logger.Logger.Fatal("Failed to open backup file", zap.Error(err))
	}
	defer sink.Close()

	logger.Logger.Info("Backup worker starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("backup_file", config.Cfg.BackupFilePath),
	)

	if err := queue.ConsumeBackupEvents(ctx, sink); err != nil && !errors.Is(err, context.Canceled) {
		logger.Logger.Error("Backup consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Backup worker shutting down gracefully")
}
