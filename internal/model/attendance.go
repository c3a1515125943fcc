package model

import (
	"strings"
	"time"

	"RollCall/internal/datekey"
	"RollCall/internal/meeting"
	pkgerrors "RollCall/pkg/errors"
)

// AttendanceRecord 一条签到记录，建好后不可变，核心里没有更新/删除路径。
// MeetingDateKey 存的是原始日期单元格：新行是规范 YYYY/MM/DD，
// 从旧表迁入的行可能还是 "YYYY. M. D" 文本，读取侧统一走归一化。
type AttendanceRecord struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Nickname    string `gorm:"size:64;not null" json:"nickname"`
	NicknameKey string `gorm:"size:64;not null;index:idx_attendance_nickname_month" json:"-"`

	Team             string `gorm:"size:8;not null" json:"team"`
	TeamLabel        string `gorm:"size:32;not null" json:"team_label"`
	MeetingType      string `gorm:"size:8;not null" json:"meeting_type"`
	MeetingTypeLabel string `gorm:"size:32;not null" json:"meeting_type_label"`

	MeetingDateKey string `gorm:"size:16;not null;index" json:"meeting_date"`
	MonthKey       string `gorm:"size:8;not null;index:idx_attendance_nickname_month" json:"month_key"`

	// 客户端侧的写入时间戳，毫秒。服务端 CreatedAt 才是权威写入时间，
	// 但同步返回里拿不到库端精度，排序用这个字段。
	ClientTimestampMillis int64 `json:"client_timestamp_millis"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// NicknameKey 是大小写不敏感查询用的键，永远由显示昵称推导。
func NicknameKey(nickname string) string {
	return strings.ToLower(nickname)
}

// NewAttendanceRecord 是唯一的派生字段计算点：nickname_key、month_key
// 和两个显示名都在这里从权威输入推出来，别处不准再算一遍。
func NewAttendanceRecord(nickname, teamCode, meetingTypeCode, dateKey string, clientMillis int64) (*AttendanceRecord, error) {
	if nickname == "" {
		return nil, pkgerrors.MissingField.WithField("nickname")
	}
	if teamCode == "" {
		return nil, pkgerrors.MissingField.WithField("team")
	}
	if meetingTypeCode == "" {
		return nil, pkgerrors.MissingField.WithField("meeting_type")
	}
	if dateKey == "" {
		return nil, pkgerrors.MissingField.WithField("meeting_date")
	}

	if !datekey.IsValidDate(dateKey) {
		return nil, pkgerrors.InvalidDateFormat.WithField("meeting_date")
	}

	teamLabel, ok := meeting.TeamLabel(teamCode)
	if !ok {
		return nil, pkgerrors.InvalidTeamCode.WithDetails(map[string]interface{}{
			"field": "team",
			"value": teamCode,
		})
	}

	meetingTypeLabel, ok := meeting.MeetingTypeLabel(meetingTypeCode)
	if !ok {
		return nil, pkgerrors.InvalidMeetingType.WithDetails(map[string]interface{}{
			"field": "meeting_type",
			"value": meetingTypeCode,
		})
	}

	if clientMillis <= 0 {
		clientMillis = time.Now().UnixMilli()
	}

	return &AttendanceRecord{
		Nickname:              nickname,
		NicknameKey:           NicknameKey(nickname),
		Team:                  teamCode,
		TeamLabel:             teamLabel,
		MeetingType:           meetingTypeCode,
		MeetingTypeLabel:      meetingTypeLabel,
		MeetingDateKey:        dateKey,
		MonthKey:              datekey.MonthKey(dateKey),
		ClientTimestampMillis: clientMillis,
	}, nil
}
