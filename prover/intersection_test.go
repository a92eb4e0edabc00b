package prover

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"zkpsi/psi-prover/encoding"
)

func encodeAll(values []uint64) []big.Int {
	result := make([]big.Int, len(values))
	for i, v := range values {
		result[i] = encoding.EncodeInt(v)
	}
	return result
}

func TestIntersectionCount(t *testing.T) {
	testCases := []struct {
		name     string
		setA     []big.Int
		setB     []big.Int
		expected uint32
	}{
		{"disjoint sets", elements(1, 2, 3), elements(4, 5, 6), 0},
		{"partial overlap", elements(1, 2, 3), elements(3, 4), 1},
		{"full overlap in different order", elements(1, 2), elements(2, 1), 2},
		{"duplicates in set A score per position", elements(7, 7), elements(7), 2},
		{"duplicates in set B score once", elements(7), elements(7, 7), 1},
		{"empty set A", nil, elements(1), 0},
		{"empty set B", elements(1), nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IntersectionCount(tc.setA, tc.setB))
		})
	}
}

func TestIntersectionCountProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("count never exceeds the size of set A", prop.ForAll(
		func(a []uint64, b []uint64) bool {
			count := IntersectionCount(encodeAll(a), encodeAll(b))
			return count <= uint32(len(a))
		},
		gen.SliceOf(gen.UInt64()),
		gen.SliceOf(gen.UInt64()),
	))

	properties.Property("a set intersected with itself scores every position", prop.ForAll(
		func(values []uint64) bool {
			set := encodeAll(values)
			return IntersectionCount(set, set) == uint32(len(set))
		},
		gen.SliceOf(gen.UInt64()),
	))

	properties.Property("distinct values split into halves never intersect", prop.ForAll(
		func(values []uint64) bool {
			seen := make(map[uint64]bool)
			distinct := make([]uint64, 0, len(values))
			for _, v := range values {
				if !seen[v] {
					seen[v] = true
					distinct = append(distinct, v)
				}
			}
			half := len(distinct) / 2
			return IntersectionCount(encodeAll(distinct[:half]), encodeAll(distinct[half:])) == 0
		},
		gen.SliceOf(gen.UInt64()),
	))

	properties.Property("order of set B does not change the count", prop.ForAll(
		func(a []uint64, b []uint64) bool {
			setA := encodeAll(a)
			setB := encodeAll(b)
			reversed := make([]big.Int, len(setB))
			for i, v := range setB {
				reversed[len(setB)-1-i] = v
			}
			return IntersectionCount(setA, setB) == IntersectionCount(setA, reversed)
		},
		gen.SliceOf(gen.UInt64()),
		gen.SliceOf(gen.UInt64()),
	))

	properties.Property("planted parameters carry their true cardinality", prop.ForAll(
		func(rawASize int, rawBSize int, rawCount int) bool {
			setASize := uint32(rawASize)
			setBSize := uint32(rawBSize)
			maxCount := setASize
			if setBSize < maxCount {
				maxCount = setBSize
			}
			intersectionSize := uint32(rawCount) % (maxCount + 1)

			params, err := BuildTestParameters(setASize, setBSize, intersectionSize)
			if err != nil {
				return false
			}
			return IntersectionCount(params.SetA, params.SetB) == intersectionSize
		},
		gen.IntRange(1, 16),
		gen.IntRange(1, 16),
		gen.IntRange(0, 16),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
