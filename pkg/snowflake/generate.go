package snowflake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// 不同业务对象的 ID 前缀
const (
	PrefixCheckIn = "ck"
	PrefixMessage = "msg"
)

var (
	node *snowflake.Node
	once sync.Once

	errInvalidMachineID    = errors.New("invalid snowflake machine id")
	errInvalidDataCenterID = errors.New("invalid snowflake datacenter id")
	errGeneratorUninitial  = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 {
			initErr = errInvalidMachineID
			return
		}
		if dataCenterID < 0 || dataCenterID > 31 {
			initErr = errInvalidDataCenterID
			return
		}
		nodeID := (dataCenterID << 5) | machineID // datacenterID 和 machineID 都是 0~31

		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			initErr = err
			return
		}
	})

	return initErr
}

func NextID() (int64, error) {
	if node == nil {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}

// NextPrefixed 生成带前缀的字符串 ID，例如 ck1790000000000000000。
// snowflake 按生成时间递增，字符串 ID 在同一节点内保持时间顺序。
func NextPrefixed(prefix string) (string, error) {
	id, err := NextID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", prefix, id), nil
}
