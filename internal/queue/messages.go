package queue

import "time"

// RecordBackupMessage 是写路径发出的备份事件，worker 侧消费后
// 追加到备份文件。载荷带齐显示名，备份不依赖当前编码表。
type RecordBackupMessage struct {
	RecordID         int64     `json:"record_id"`
	Nickname         string    `json:"nickname"`
	TeamLabel        string    `json:"team_label"`
	MeetingTypeLabel string    `json:"meeting_type_label"`
	MeetingDate      string    `json:"meeting_date"`
	MonthKey         string    `json:"month_key"`
	RecordedAt       time.Time `json:"recorded_at"`
}
