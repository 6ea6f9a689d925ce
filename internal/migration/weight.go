package migration

import (
	"math"
	"math/bits"

	"nicks/internal/structures"
)

// Weight is the abstract cost charged for storage access.
type Weight uint64

type CostAccountant interface {
	ReadsWrites(reads, writes uint64) Weight
	Reads(reads uint64) Weight
}

// DbWeight charges a fixed weight per read and per write.
type DbWeight struct {
	Read  uint64
	Write uint64
}

func NewDbWeight(conf *structures.Config) CostAccountant {
	return &DbWeight{Read: conf.Migration.Weight.Read, Write: conf.Migration.Weight.Write}
}

func (w *DbWeight) ReadsWrites(reads, writes uint64) Weight {
	return Weight(saturatingAdd(saturatingMul(reads, w.Read), saturatingMul(writes, w.Write)))
}

func (w *DbWeight) Reads(reads uint64) Weight {
	return Weight(saturatingMul(reads, w.Read))
}

func saturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
