package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"RollCall/internal/backup"
	"RollCall/storage/mq"
)

// ConsumeBackupEvents 阻塞消费备份队列，把事件逐条写进备份文件。
// 写入失败返回错误让消息 requeue。
func ConsumeBackupEvents(ctx context.Context, sink *backup.Writer) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueBackup,
		ConsumerTag:   "attendance-backup-worker",
		PrefetchCount: 16,
		Handler: func(body []byte) error {
			var msg RecordBackupMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				return fmt.Errorf("failed to decode backup message: %w", err)
			}
			return sink.Append(backup.Row{
				RecordID:         msg.RecordID,
				Nickname:         msg.Nickname,
				TeamLabel:        msg.TeamLabel,
				MeetingTypeLabel: msg.MeetingTypeLabel,
				MeetingDate:      msg.MeetingDate,
				MonthKey:         msg.MonthKey,
				RecordedAt:       msg.RecordedAt,
			})
		},
	})
}
