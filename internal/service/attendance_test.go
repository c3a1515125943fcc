package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RollCall/internal/cache"
	"RollCall/internal/calendar"
	"RollCall/internal/model"
	"RollCall/internal/model/dto"
	pkgerrors "RollCall/pkg/errors"
	"RollCall/pkg/snowflake"
)

func TestMain(m *testing.M) {
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeStore 内存假存储，行为对齐 repository.Store 契约。
type fakeStore struct {
	rows       []model.AttendanceRecord
	queryCalls int
	scanErr    error
}

func (f *fakeStore) Append(ctx context.Context, rec *model.AttendanceRecord) error {
	f.rows = append(f.rows, *rec)
	return nil
}

func (f *fakeStore) HasAny(ctx context.Context) (bool, error) {
	return len(f.rows) > 0, nil
}

func (f *fakeStore) ScanDated(ctx context.Context) ([]model.AttendanceRecord, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var out []model.AttendanceRecord
	for _, r := range f.rows {
		if r.MeetingDateKey != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) QueryByNicknameKeyAndMonth(ctx context.Context, nicknameKey, monthKey string) ([]model.AttendanceRecord, error) {
	f.queryCalls++
	var out []model.AttendanceRecord
	for _, r := range f.rows {
		if r.NicknameKey == nicknameKey && r.MonthKey == monthKey {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService(store *fakeStore) *AttendanceService {
	return New(store, cache.NewMemoryViewCache(), calendar.Default(), time.UTC, 30*time.Second)
}

func row(nickname, teamLabel, typeLabel, rawDate, monthKey string, millis int64) model.AttendanceRecord {
	return model.AttendanceRecord{
		Nickname:              nickname,
		NicknameKey:           model.NicknameKey(nickname),
		TeamLabel:             teamLabel,
		MeetingTypeLabel:      typeLabel,
		MeetingDateKey:        rawDate,
		MonthKey:              monthKey,
		ClientTimestampMillis: millis,
	}
}

func TestGetStatusOrdersNewestFirst(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("A", "1-team", "Tuesday", "2026/01/06", "2026-01", 100),
		row("B", "2-team", "Tuesday", "2026/01/06", "2026-01", 200),
		row("C", "1-team", "Thursday", "2026/01/08", "2026-01", 300),
	}}
	svc := newTestService(store)

	view, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.NoError(t, err)

	assert.Equal(t, "2026/01/06", view.Date)
	require.Equal(t, 2, view.Count)
	assert.Equal(t, "B", view.Items[0].Nickname)
	assert.Equal(t, "A", view.Items[1].Nickname)

	// 编码从显示名反查回来
	require.NotNil(t, view.Items[0].Team)
	assert.Equal(t, "T2", *view.Items[0].Team)
	require.NotNil(t, view.Items[0].MeetingType)
	assert.Equal(t, "TUE", *view.Items[0].MeetingType)
}

func TestGetStatusMissingTimestampSortsOldest(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("old", "1-team", "Tuesday", "2026/01/06", "2026-01", 0),
		row("new", "2-team", "Tuesday", "2026/01/06", "2026-01", 50),
	}}
	svc := newTestService(store)

	view, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.NoError(t, err)
	require.Equal(t, 2, view.Count)
	assert.Equal(t, "new", view.Items[0].Nickname)
	assert.Equal(t, "old", view.Items[1].Nickname)
	assert.Equal(t, "", view.Items[1].CheckedInAt)
}

func TestGetStatusNormalizesLegacyDates(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("legacy", "1-team", "Tuesday", "2026. 1. 6", "2026-01", 10),
		row("modern", "2-team", "Tuesday", "2026/01/06", "2026-01", 20),
	}}
	svc := newTestService(store)

	view, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	// 旧格式行投影出来的日期也是规范键
	assert.Equal(t, "2026/01/06", view.Items[1].MeetingDate)
}

func TestGetStatusSkipsUnparseableRows(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("good", "1-team", "Tuesday", "2026/01/06", "2026-01", 10),
		row("junk", "1-team", "Tuesday", "N/A", "2026-01", 20),
	}}
	svc := newTestService(store)

	view, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "good", view.Items[0].Nickname)
}

func TestGetStatusEmptyStore(t *testing.T) {
	svc := newTestService(&fakeStore{})

	view, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Count)
	assert.Empty(t, view.Items)
}

func TestGetStatusRejectsBadDateKey(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.GetStatus(context.Background(), "2026-01-06")
	require.Error(t, err)
	detailed, ok := err.(pkgerrors.DetailedDefinition)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.InvalidDateFormat.Code, detailed.Code)
}

func TestGetStatusPropagatesStoreFailure(t *testing.T) {
	store := &fakeStore{
		rows:    []model.AttendanceRecord{row("a", "1-team", "Tuesday", "2026/01/06", "2026-01", 1)},
		scanErr: pkgerrors.StoreUnavailable.WithCause(fmt.Errorf("connection refused")),
	}
	svc := newTestService(store)

	_, err := svc.GetStatus(context.Background(), "2026/01/06")
	require.Error(t, err)

	// 存储故障的错误码原样透传，响应层才能映射成 503
	detailed, ok := err.(pkgerrors.DetailedDefinition)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.StoreUnavailable.Code, detailed.Code)
}

func TestGetHistoryCaseInsensitiveNickname(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("Alice", "1-team", "Tuesday", "2026/01/06", "2026-01", 300),
		row("ALICE", "1-team", "Thursday", "2026/01/08", "2026-01", 200),
		row("alice", "1-team", "Saturday", "2026/01/10", "2026-01", 100),
		row("bob", "2-team", "Tuesday", "2026/01/06", "2026-01", 400),
	}}
	svc := newTestService(store)

	view, err := svc.GetHistory(context.Background(), "alice", "2026-01")
	require.NoError(t, err)

	assert.Equal(t, "alice", view.Nickname)
	assert.Equal(t, "2026-01", view.Month)
	require.Equal(t, 3, view.Count)
	// 倒序：最新时间戳在前
	assert.Equal(t, "Alice", view.Items[0].Nickname)

	require.Len(t, view.SummaryByType, 3)
	assert.Equal(t, 1, view.SummaryByType["Tuesday"])
	assert.Equal(t, 1, view.SummaryByType["Thursday"])
	assert.Equal(t, 1, view.SummaryByType["Saturday"])

	// 2026-01 有 14 个周二/周四/周六
	assert.Equal(t, 14, view.TotalPossible)
	want := int(math.Round(float64(3) / float64(view.TotalPossible) * 100))
	assert.Equal(t, want, view.AttendanceRate)
}

func TestGetHistorySkipsRowsOutsideMonth(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("alice", "1-team", "Tuesday", "2026/01/06", "2026-01", 10),
		// month_key 漂移的历史行：库端过滤放进来，引擎按归一日期再卡一遍
		row("alice", "1-team", "Tuesday", "2026/02/03", "2026-01", 20),
		row("alice", "1-team", "Tuesday", "N/A", "2026-01", 30),
	}}
	svc := newTestService(store)

	view, err := svc.GetHistory(context.Background(), "alice", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}

func TestGetHistoryUnspecifiedTypeBucket(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("alice", "1-team", "", "2026/01/06", "2026-01", 10),
		row("alice", "1-team", "", "2026/01/08", "2026-01", 20),
	}}
	svc := newTestService(store)

	view, err := svc.GetHistory(context.Background(), "alice", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2, view.SummaryByType["unspecified"])
	// 反查不到编码，保持 null
	assert.Nil(t, view.Items[0].MeetingType)
}

func TestGetHistoryRateCappedAt100(t *testing.T) {
	rows := make([]model.AttendanceRecord, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, row("alice", "1-team", "Tuesday", "2026/01/06", "2026-01", int64(i+1)))
	}
	svc := newTestService(&fakeStore{rows: rows})

	view, err := svc.GetHistory(context.Background(), "alice", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 100, view.AttendanceRate)
}

func TestGetHistoryZeroPossibleDays(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("alice", "1-team", "Tuesday", "2026/01/06", "2026-01", 10),
	}}
	svc := New(store, cache.NewMemoryViewCache(), calendar.FromNames(nil), time.UTC, 30*time.Second)

	view, err := svc.GetHistory(context.Background(), "alice", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalPossible)
	assert.Equal(t, 0, view.AttendanceRate)
}

func TestGetHistoryValidation(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.GetHistory(context.Background(), "", "2026-01")
	require.Error(t, err)
	detailed, ok := err.(pkgerrors.DetailedDefinition)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.MissingField.Code, detailed.Code)

	_, err = svc.GetHistory(context.Background(), "alice", "2026/01")
	require.Error(t, err)
	detailed, ok = err.(pkgerrors.DetailedDefinition)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.InvalidMonthFormat.Code, detailed.Code)
}

func TestGetHistoryCacheKeyKeepsCasing(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("alice", "1-team", "Tuesday", "2026/01/06", "2026-01", 10),
	}}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.GetHistory(ctx, "alice", "2026-01")
	require.NoError(t, err)
	_, err = svc.GetHistory(ctx, "ALICE", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2, store.queryCalls)

	// 同一写法第二次命中缓存，不再查库
	_, err = svc.GetHistory(ctx, "alice", "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2, store.queryCalls)
}

func TestRecordThenStatusIsFresh(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	result, err := svc.Record(ctx, dto.RecordAttendanceRequest{
		Nickname:              "Alice",
		Team:                  "T1",
		MeetingType:           "TUE",
		MeetingDate:           "2026/01/06",
		ClientTimestampMillis: 1000,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Record)
	assert.NotZero(t, result.Record.ID)
	assert.Equal(t, "1-team", result.Record.TeamLabel)
	assert.Equal(t, "2026-01", result.Record.MonthKey)

	// 写响应里直接带当日最新视图
	require.NotNil(t, result.Status)
	assert.Equal(t, 1, result.Status.Count)
	assert.Equal(t, "Alice", result.Status.Items[0].Nickname)

	// 写路径已经把缓存刷新过：清空假存储后读仍能拿到刚写的记录
	store.rows = nil
	view, err := svc.GetStatus(ctx, "2026/01/06")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "Alice", view.Items[0].Nickname)
}

func TestRecordValidationErrors(t *testing.T) {
	svc := newTestService(&fakeStore{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.RecordAttendanceRequest
		code string
	}{
		{"missing nickname", dto.RecordAttendanceRequest{Team: "T1", MeetingType: "TUE", MeetingDate: "2026/01/06"}, pkgerrors.MissingField.Code},
		{"bad date", dto.RecordAttendanceRequest{Nickname: "a", Team: "T1", MeetingType: "TUE", MeetingDate: "2026-01-06"}, pkgerrors.InvalidDateFormat.Code},
		{"bad team", dto.RecordAttendanceRequest{Nickname: "a", Team: "T7", MeetingType: "TUE", MeetingDate: "2026/01/06"}, pkgerrors.InvalidTeamCode.Code},
		{"bad meeting type", dto.RecordAttendanceRequest{Nickname: "a", Team: "T1", MeetingType: "SUN", MeetingDate: "2026/01/06"}, pkgerrors.InvalidMeetingType.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.req)
			require.Error(t, err)
			detailed, ok := err.(pkgerrors.DetailedDefinition)
			require.True(t, ok)
			assert.Equal(t, tc.code, detailed.Code)
		})
	}
}

func TestRecordAllowsDuplicates(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	req := dto.RecordAttendanceRequest{
		Nickname: "Alice", Team: "T1", MeetingType: "TUE",
		MeetingDate: "2026/01/06", ClientTimestampMillis: 1000,
	}

	_, err := svc.Record(ctx, req)
	require.NoError(t, err)

	req.ClientTimestampMillis = 2000
	result, err := svc.Record(ctx, req)
	require.NoError(t, err)

	// 重复签到不去重，最新一条排最前
	assert.Equal(t, 2, result.Status.Count)
	assert.Len(t, store.rows, 2)
}

func TestGetStatusCorruptCachePayloadRecomputes(t *testing.T) {
	store := &fakeStore{rows: []model.AttendanceRecord{
		row("a", "1-team", "Tuesday", "2026/01/06", "2026-01", 10),
	}}
	mem := cache.NewMemoryViewCache()
	svc := New(store, mem, calendar.Default(), time.UTC, 30*time.Second)
	ctx := context.Background()

	// 坏载荷当未命中，正常重算
	mem.Put(ctx, cache.StatusKey("2026/01/06"), []byte("{not json"), 30*time.Second)

	view, err := svc.GetStatus(ctx, "2026/01/06")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}
