package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"RollCall/internal/repository"
	"RollCall/pkg/logger"
	"RollCall/storage/database"
)

// 一次性维护工具：按昵称前缀删测试数据。核心服务没有删除路径，
// 只有这里能删。
func main() {
	logger.Init()
	defer logger.Sync()

	prefix := flag.String("prefix", "", "nickname prefix to delete (required)")
	dryRun := flag.Bool("dry-run", true, "only report what would be deleted")
	flag.Parse()

	if *prefix == "" {
		logger.Logger.Fatal("cleanup requires -prefix")
	}

	if err := database.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := repository.NewGormStore(database.DB())

	if *dryRun {
		rows, err := store.QueryByNicknamePrefix(ctx, *prefix)
		if err != nil {
			logger.Logger.Fatal("Failed to query records", zap.Error(err))
		}
		logger.Logger.Info("Dry run: matching records",
			zap.String("prefix", *prefix),
			zap.Int("count", len(rows)),
		)
		return
	}

	deleted, err := store.DeleteByNicknamePrefix(ctx, *prefix)
	if err != nil {
		logger.Logger.Fatal("Failed to delete records", zap.Error(err))
	}

	logger.Logger.Info("Cleanup finished",
		zap.String("prefix", *prefix),
		zap.Int64("deleted", deleted),
	)
}
