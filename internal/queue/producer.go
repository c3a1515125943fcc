package queue

import (
	"time"

	"RollCall/internal/model"
	"RollCall/storage/mq"
)

// PublishRecorded 把一条已落库的签到推进备份管道。
// 调用方（写路径）把错误当非致命处理。
func PublishRecorded(rec *model.AttendanceRecord) error {
	msg := RecordBackupMessage{
		RecordID:         rec.ID,
		Nickname:         rec.Nickname,
		TeamLabel:        rec.TeamLabel,
		MeetingTypeLabel: rec.MeetingTypeLabel,
		MeetingDate:      rec.MeetingDateKey,
		MonthKey:         rec.MonthKey,
		RecordedAt:       time.Now(),
	}

	return mq.PublishMessage(mq.ExchangeAttendance, mq.RoutingKeyRecorded, msg)
}
