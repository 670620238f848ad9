// Package snowflake provides the platform.IDGenerator used across the
// system. Generated IDs are time-ordered, so ascending key order in the
// store matches insertion order.
package snowflake

import (
	"math/rand"
	"sync"
	"time"

	"github.com/plantops/factoryd/kit/platform"
)

const (
	epoch      = 1491696000000 // April 2017, in milliseconds
	serverBits = 10
	seqBits    = 12
	serverMax  = 1 << serverBits
	seqMask    = (1 << seqBits) - 1
)

// IDGenerator generates unique, roughly time-sortable IDs.
type IDGenerator struct {
	mu        sync.Mutex
	machineID uint64
	lastTime  int64
	seq       uint64
}

// NewIDGenerator returns an IDGenerator with a random machine ID.
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithMachineID(rand.Intn(serverMax))
}

// NewIDGeneratorWithMachineID returns an IDGenerator using the low 10
// bits of machineID.
func NewIDGeneratorWithMachineID(machineID int) *IDGenerator {
	return &IDGenerator{
		machineID: uint64(machineID) & (serverMax - 1),
	}
}

var _ platform.IDGenerator = (*IDGenerator)(nil)

// ID returns the next platform.ID. It never returns the invalid zero ID.
func (g *IDGenerator) ID() platform.ID {
	var id platform.ID
	for !id.Valid() {
		id = platform.ID(g.next())
	}
	return id
}

func (g *IDGenerator) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli() - epoch
	if now < g.lastTime {
		now = g.lastTime
	}

	if now == g.lastTime {
		g.seq = (g.seq + 1) & seqMask
		if g.seq == 0 {
			// sequence exhausted for this millisecond
			for now <= g.lastTime {
				now = time.Now().UnixMilli() - epoch
			}
		}
	} else {
		g.seq = 0
	}
	g.lastTime = now

	return uint64(now)<<(serverBits+seqBits) | g.machineID<<seqBits | g.seq
}
