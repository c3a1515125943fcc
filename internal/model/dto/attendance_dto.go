package dto

// ========== Attendance 相关 DTO ==========

// RecordAttendanceRequest 签到请求。
type RecordAttendanceRequest struct {
	Nickname              string `json:"nickname"`
	Team                  string `json:"team"`
	MeetingType           string `json:"meeting_type"`
	MeetingDate           string `json:"meeting_date"` // YYYY/MM/DD
	ClientTimestampMillis int64  `json:"client_timestamp_millis,omitempty"`
}

// AttendanceItem 视图里的单条记录投影。
// Team/MeetingType 是从显示名反查出来的编码，历史数据对不上时为 null。
type AttendanceItem struct {
	Nickname         string  `json:"nickname"`
	Team             *string `json:"team"`
	TeamLabel        string  `json:"team_label"`
	MeetingType      *string `json:"meeting_type"`
	MeetingTypeLabel string  `json:"meeting_type_label"`
	MeetingDate      string  `json:"meeting_date"`
	CheckedInAt      string  `json:"checked_in_at"` // 本地时刻 HH:MM:SS，没有时间戳时为空
}

// StatusView 某个聚会日的签到视图，按时间戳倒序。
type StatusView struct {
	Date  string           `json:"date"`
	Count int              `json:"count"`
	Items []AttendanceItem `json:"items"`
}

// HistoryView 某昵称某月的出勤视图。
type HistoryView struct {
	Nickname       string           `json:"nickname"`
	Month          string           `json:"month"`
	Count          int              `json:"count"`
	Items          []AttendanceItem `json:"items"`
	SummaryByType  map[string]int   `json:"summary_by_type"`
	TotalPossible  int              `json:"total_possible"`
	AttendanceRate int              `json:"attendance_rate"` // 0~100
}

// StoredRecordSummary 写入成功后回显的记录摘要。
type StoredRecordSummary struct {
	ID               int64  `json:"id"`
	Nickname         string `json:"nickname"`
	Team             string `json:"team"`
	TeamLabel        string `json:"team_label"`
	MeetingType      string `json:"meeting_type"`
	MeetingTypeLabel string `json:"meeting_type_label"`
	MeetingDate      string `json:"meeting_date"`
	MonthKey         string `json:"month_key"`
}

// RecordAttendanceResponse 写路径响应：记录摘要 + 当日最新状态视图。
type RecordAttendanceResponse struct {
	Record *StoredRecordSummary `json:"record"`
	Status *StatusView          `json:"status"`
}
