package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once

	errInvalidNodeID  = errors.New("snowflake machine/datacenter id must be 0~31")
	errNotInitialized = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 || dataCenterID < 0 || dataCenterID > 31 {
			initErr = errInvalidNodeID
			return
		}
		// 高 5 位 datacenter，低 5 位 machine
		nodeID := (dataCenterID << 5) | machineID

		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			initErr = err
		}
	})

	return initErr
}

// NextID 生成一个记录 ID。
func NextID() (int64, error) {
	if node == nil {
		return 0, errNotInitialized
	}

	return node.Generate().Int64(), nil
}
