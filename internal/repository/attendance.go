package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"RollCall/internal/model"
	pkgerrors "RollCall/pkg/errors"
)

// Store 是聚合引擎消费的出勤记录存储契约。
// 读接口返回的行里日期单元格保持原样，归一化在引擎侧做。
// 存储故障以 STORE_UNAVAILABLE 上抛，底层错误挂在 cause 里。
type Store interface {
	// Append 追加一条记录，失败即本次调用的致命错误。
	Append(ctx context.Context, rec *model.AttendanceRecord) error
	// HasAny 判断库里有没有任何记录，空库时聚合直接短路。
	HasAny(ctx context.Context) (bool, error)
	// ScanDated 拉取所有日期单元格非空的行。不在库端按日期过滤，
	// 旧行的日期可能是旧格式文本，等值条件会漏。
	ScanDated(ctx context.Context) ([]model.AttendanceRecord, error)
	// QueryByNicknameKeyAndMonth 按派生键做库端过滤。
	QueryByNicknameKeyAndMonth(ctx context.Context, nicknameKey, monthKey string) ([]model.AttendanceRecord, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Append(ctx context.Context, rec *model.AttendanceRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("append attendance record: %w", err))
	}
	return nil
}

func (s *GormStore) HasAny(ctx context.Context) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("probe attendance records: %w", err))
	}
	return count > 0, nil
}

func (s *GormStore) ScanDated(ctx context.Context) ([]model.AttendanceRecord, error) {
	var rows []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("meeting_date_key <> ''").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("scan attendance records: %w", err))
	}
	return rows, nil
}

func (s *GormStore) QueryByNicknameKeyAndMonth(ctx context.Context, nicknameKey, monthKey string) ([]model.AttendanceRecord, error) {
	var rows []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("nickname_key = ? AND month_key = ?", nicknameKey, monthKey).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("query attendance history: %w", err))
	}
	return rows, nil
}

// QueryByNicknamePrefix 给 cmd/cleanup 的 dry-run 用。
func (s *GormStore) QueryByNicknamePrefix(ctx context.Context, prefix string) ([]model.AttendanceRecord, error) {
	var rows []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("nickname_key LIKE ?", model.NicknameKey(prefix)+"%").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("query by nickname prefix: %w", err))
	}
	return rows, nil
}

// DeleteByNicknamePrefix 按昵称前缀清理记录。核心不删数据，
// 这个入口只给 cmd/cleanup 维护工具用。
func (s *GormStore) DeleteByNicknamePrefix(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, fmt.Errorf("refusing to delete with empty prefix")
	}

	res := s.db.WithContext(ctx).
		Where("nickname_key LIKE ?", model.NicknameKey(prefix)+"%").
		Delete(&model.AttendanceRecord{})
	if res.Error != nil {
		return 0, pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("delete by nickname prefix: %w", res.Error))
	}
	return res.RowsAffected, nil
}
