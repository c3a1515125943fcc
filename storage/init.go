package storage

import (
	"RollCall/config"
	"RollCall/storage/database"
	"RollCall/storage/mq"
	"RollCall/storage/redis"
)

// 统一 init storage 层。MQ 只在备份开启时建连。

func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if config.Cfg.BackupEnabled {
		if err := mq.Init(); err != nil {
			return err
		}
	}

	return nil
}
