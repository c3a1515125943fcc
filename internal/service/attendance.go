package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"RollCall/config"
	"RollCall/internal/cache"
	"RollCall/internal/calendar"
	"RollCall/internal/datekey"
	"RollCall/internal/meeting"
	"RollCall/internal/model"
	"RollCall/internal/model/dto"
	"RollCall/internal/queue"
	"RollCall/internal/repository"
	pkgerrors "RollCall/pkg/errors"
	"RollCall/pkg/logger"
	"RollCall/pkg/snowflake"
	"RollCall/storage/database"
)

var (
	attendanceService *AttendanceService
	attendanceOnce    sync.Once
)

// Attendance 返回进程级单例，依赖从配置和 storage 层装配。
func Attendance() *AttendanceService {
	attendanceOnce.Do(func() {
		cfg := config.Cfg
		svc := New(
			repository.NewGormStore(database.DB()),
			cache.NewRedisViewCache(),
			calendar.FromNames(cfg.MeetingWeekdayList()),
			cfg.Location(),
			cfg.ViewCacheTTL(),
		)
		if cfg.BackupEnabled {
			svc = svc.WithBackupPublisher(queue.PublishRecorded)
		}
		attendanceService = svc
	})
	return attendanceService
}

// AttendanceService 承载聚合引擎：按日状态视图、按昵称按月历史视图、
// 以及写路径。依赖全部在构造时注入，方便换假实现测。
type AttendanceService struct {
	store   repository.Store
	cache   cache.ViewCache
	policy  *calendar.Policy
	loc     *time.Location
	ttl     time.Duration
	publish func(rec *model.AttendanceRecord) error
}

func New(store repository.Store, viewCache cache.ViewCache, policy *calendar.Policy, loc *time.Location, ttl time.Duration) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		store:  store,
		cache:  viewCache,
		policy: policy,
		loc:    loc,
		ttl:    ttl,
	}
}

// WithBackupPublisher 挂上备份事件发布函数。发布失败只记日志，
// 备份永远不能拖垮主写入。
func (s *AttendanceService) WithBackupPublisher(publish func(rec *model.AttendanceRecord) error) *AttendanceService {
	s.publish = publish
	return s
}

// ========== 读路径 ==========

// GetStatus 返回某个聚会日的签到视图，先探缓存，未命中才聚合。
func (s *AttendanceService) GetStatus(ctx context.Context, dateKey string) (*dto.StatusView, error) {
	if !datekey.IsValidDateKey(dateKey) {
		return nil, pkgerrors.InvalidDateFormat.WithField("date")
	}

	key := cache.StatusKey(dateKey)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var view dto.StatusView
		if err := json.Unmarshal(payload, &view); err == nil {
			return &view, nil
		}
		// 坏载荷当未命中重算
	}

	view, err := s.computeStatus(ctx, dateKey)
	if err != nil {
		return nil, err
	}

	s.putView(ctx, key, view)
	return view, nil
}

// GetHistory 返回某昵称某月的出勤视图，昵称大小写不敏感。
func (s *AttendanceService) GetHistory(ctx context.Context, nickname, monthKey string) (*dto.HistoryView, error) {
	if nickname == "" {
		return nil, pkgerrors.MissingField.WithField("nickname")
	}
	if !datekey.IsValidMonthKey(monthKey) {
		return nil, pkgerrors.InvalidMonthFormat.WithField("month")
	}

	// 缓存键带原始大小写，不同写法各占一个条目
	key := cache.HistoryKey(nickname, monthKey)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var view dto.HistoryView
		if err := json.Unmarshal(payload, &view); err == nil {
			return &view, nil
		}
	}

	view, err := s.computeHistory(ctx, nickname, monthKey)
	if err != nil {
		return nil, err
	}

	s.putView(ctx, key, view)
	return view, nil
}

// ========== 写路径 ==========

// Record 校验并落一条签到，然后立刻重算当日状态视图并覆盖缓存，
// 让紧跟着的读（通常就在写响应里）拿到新数据，不等 TTL。
// 重复提交不去重：再签一次就是多一行，按最新条目展示。
func (s *AttendanceService) Record(ctx context.Context, req dto.RecordAttendanceRequest) (*dto.RecordAttendanceResponse, error) {
	rec, err := model.NewAttendanceRecord(req.Nickname, req.Team, req.MeetingType, req.MeetingDate, req.ClientTimestampMillis)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to assign record id: %w", err)
	}
	rec.ID = id

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}

	if s.publish != nil {
		if err := s.publish(rec); err != nil {
			logger.Logger.Warn("Backup event publish failed, record is persisted",
				zap.Int64("record_id", rec.ID),
				zap.String("meeting_date", rec.MeetingDateKey),
				zap.Error(err),
			)
		}
	}

	view, err := s.computeStatus(ctx, rec.MeetingDateKey)
	if err != nil {
		return nil, err
	}
	s.putView(ctx, cache.StatusKey(rec.MeetingDateKey), view)

	return &dto.RecordAttendanceResponse{
		Record: &dto.StoredRecordSummary{
			ID:               rec.ID,
			Nickname:         rec.Nickname,
			Team:             rec.Team,
			TeamLabel:        rec.TeamLabel,
			MeetingType:      rec.MeetingType,
			MeetingTypeLabel: rec.MeetingTypeLabel,
			MeetingDate:      rec.MeetingDateKey,
			MonthKey:         rec.MonthKey,
		},
		Status: view,
	}, nil
}

// ========== 聚合 ==========

type sortableItem struct {
	item   dto.AttendanceItem
	millis int64
}

func (s *AttendanceService) computeStatus(ctx context.Context, dateKey string) (*dto.StatusView, error) {
	view := &dto.StatusView{Date: dateKey, Items: []dto.AttendanceItem{}}

	hasAny, err := s.store.HasAny(ctx)
	if err != nil {
		return nil, err
	}
	if !hasAny {
		return view, nil
	}

	// 全量拉回来在引擎侧过滤：旧行日期可能还是旧格式文本，
	// 库端等值条件会把它们漏掉
	rows, err := s.store.ScanDated(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]sortableItem, 0, 16)
	for i := range rows {
		normalized := datekey.Normalize(rows[i].MeetingDateKey, s.loc)
		if normalized == "" || normalized != dateKey {
			continue // 归一失败或别的日子，静默跳过
		}
		kept = append(kept, s.project(&rows[i], normalized))
	}

	sortNewestFirst(kept)
	for _, k := range kept {
		view.Items = append(view.Items, k.item)
	}
	view.Count = len(view.Items)
	return view, nil
}

func (s *AttendanceService) computeHistory(ctx context.Context, nickname, monthKey string) (*dto.HistoryView, error) {
	nicknameKey := model.NicknameKey(nickname)

	rows, err := s.store.QueryByNicknameKeyAndMonth(ctx, nicknameKey, monthKey)
	if err != nil {
		return nil, err
	}

	kept := make([]sortableItem, 0, 16)
	summary := make(map[string]int)
	for i := range rows {
		row := &rows[i]
		if model.NicknameKey(row.Nickname) != nicknameKey {
			continue
		}

		normalized := datekey.Normalize(row.MeetingDateKey, s.loc)
		if normalized == "" || datekey.MonthKey(normalized) != monthKey {
			continue
		}

		kept = append(kept, s.project(row, normalized))

		label := row.MeetingTypeLabel
		if label == "" {
			label = meeting.UnspecifiedLabel
		}
		summary[label]++
	}

	sortNewestFirst(kept)

	view := &dto.HistoryView{
		Nickname:      nickname,
		Month:         monthKey,
		Items:         make([]dto.AttendanceItem, 0, len(kept)),
		SummaryByType: summary,
	}
	for _, k := range kept {
		view.Items = append(view.Items, k.item)
	}
	view.Count = len(view.Items)

	view.TotalPossible = s.policy.EligibleDayCount(monthKey)
	if view.TotalPossible > 0 {
		rate := int(math.Round(float64(view.Count) / float64(view.TotalPossible) * 100))
		if rate > 100 {
			rate = 100
		}
		view.AttendanceRate = rate
	}

	return view, nil
}

// project 把一行投影成视图条目。编码从存储的显示名反查，
// 历史数据对不上就留 null，显示名本身照常输出。
func (s *AttendanceService) project(row *model.AttendanceRecord, normalizedDate string) sortableItem {
	item := dto.AttendanceItem{
		Nickname:         row.Nickname,
		TeamLabel:        row.TeamLabel,
		MeetingTypeLabel: row.MeetingTypeLabel,
		MeetingDate:      normalizedDate,
	}

	if code, ok := meeting.TeamCode(row.TeamLabel); ok {
		item.Team = &code
	}
	if code, ok := meeting.MeetingTypeCode(row.MeetingTypeLabel); ok {
		item.MeetingType = &code
	}

	millis := row.ClientTimestampMillis
	if millis < 0 {
		millis = 0
	}
	if millis > 0 {
		item.CheckedInAt = time.UnixMilli(millis).In(s.loc).Format("15:04:05")
	}

	return sortableItem{item: item, millis: millis}
}

// 时间戳倒序，没有时间戳的当 0 排最后。
func sortNewestFirst(items []sortableItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].millis > items[j].millis
	})
}

func (s *AttendanceService) putView(ctx context.Context, key string, view interface{}) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	s.cache.Put(ctx, key, payload, s.ttl)
}
