package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultEpoch is the reference time of generated Snowflake IDs.
var DefaultEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// snowflake.Epoch is process-wide, so it is written once.
var epochOnce sync.Once

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

type snowflakeOptions struct {
	node    int64
	hasNode bool
	epoch   time.Time
}

// SnowflakeOption configures NewSnowflake.
type SnowflakeOption func(*snowflakeOptions)

// WithNode pins the node ID (0..1023) instead of picking a random one.
func WithNode(node int64) SnowflakeOption {
	return func(o *snowflakeOptions) {
		o.node = node
		o.hasNode = true
	}
}

// WithEpoch overrides DefaultEpoch. Only the first generator created in the
// process decides the epoch.
func WithEpoch(epoch time.Time) SnowflakeOption {
	return func(o *snowflakeOptions) {
		o.epoch = epoch
	}
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & (1<<snowflake.NodeBits - 1), nil
}

// NewSnowflake constructs a Snowflake generator.
func NewSnowflake(opts ...SnowflakeOption) (*Snowflake, error) {
	o := snowflakeOptions{epoch: DefaultEpoch}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.hasNode {
		id, err := generateRandomNodeID()
		if err != nil {
			return nil, err
		}
		o.node = id
	}

	epochOnce.Do(func() {
		snowflake.Epoch = o.epoch.UnixMilli()
	})

	node, err := snowflake.NewNode(o.node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// CreatedAt returns the time encoded in an ID produced by Generate.
func CreatedAt(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}
