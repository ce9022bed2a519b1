package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NodeIDFromEnv returns the snowflake node id from SNOWFLAKE_NODE, or 1.
func NodeIDFromEnv() int64 {
	nodeID, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		return 1
	}
	return nodeID
}

// NewSnowflakeID returns the next snowflake ID from the process-wide node.
// The node is created on first use from SNOWFLAKE_NODE; an out of range
// value falls back to node 1.
func NewSnowflakeID() int64 {
	nodeOnce.Do(func() {
		n, err := snowflake.NewNode(NodeIDFromEnv())
		if err != nil {
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	return node.Generate().Int64()
}
