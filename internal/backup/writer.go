package backup

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"
)

// Writer 把签到记录追加写进 CSV 备份文件，是原来表格镜像的替代。
// 只追加，不回读也不改写。
type Writer struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer
}

// Row 是备份文件里的一行。
type Row struct {
	RecordID         int64
	Nickname         string
	TeamLabel        string
	MeetingTypeLabel string
	MeetingDate      string
	MonthKey         string
	RecordedAt       time.Time
}

func Open(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}

	return &Writer{
		file: file,
		csv:  csv.NewWriter(file),
	}, nil
}

// Append 追加一行并立刻刷盘，备份文件宁可慢不能丢。
func (w *Writer) Append(row Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := []string{
		fmt.Sprintf("%d", row.RecordID),
		row.Nickname,
		row.TeamLabel,
		row.MeetingTypeLabel,
		row.MeetingDate,
		row.MonthKey,
		row.RecordedAt.Format(time.RFC3339),
	}

	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write backup row: %w", err)
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush backup row: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	return w.file.Close()
}
