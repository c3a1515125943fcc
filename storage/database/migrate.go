package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"RollCall/internal/model"
	"RollCall/pkg/logger"
)

// Migrate 运行数据库迁移。出勤记录只追加不改写，
// 历史行里的日期单元格可能还是旧导出格式，迁移不做任何重写。
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	if err := db.AutoMigrate(&model.AttendanceRecord{}); err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
