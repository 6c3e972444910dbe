// Package idgen provides ID generators for simulation runs and artifacts.
//
// Scheduling ids inside the engine are plain monotonic integers and are not
// generated here; this package names things that outlive a run, such as
// trace databases.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator produces unique string IDs.
type Generator interface {
	Generate() string
}

// NewSequential returns a generator that emits "1", "2", "3", ... . Use it
// when runs must be reproducible.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewXID returns a generator backed by globally unique xids. IDs are unique
// across processes but not deterministic.
func NewXID() Generator {
	return xidGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.next, 1)
	return strconv.FormatUint(n, 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
