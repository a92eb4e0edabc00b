package prover

import (
	"fmt"
	"math/big"
	"math/rand"

	"zkpsi/psi-prover/encoding"
)

func randomDistinctUint64s(count int) []uint64 {
	seen := make(map[uint64]bool, count)
	values := make([]uint64, 0, count)
	for len(values) < count {
		v := rand.Uint64()
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

func shuffleElements(elements []big.Int) {
	rand.Shuffle(len(elements), func(i, j int) {
		elements[i], elements[j] = elements[j], elements[i]
	})
}

// BuildTestParameters constructs a parameter set for the given shape with
// exactly intersectionSize elements planted in both sets. All raw values are
// distinct, so the planted overlap is the true intersection cardinality.
func BuildTestParameters(setASize uint32, setBSize uint32, intersectionSize uint32) (*PsiParameters, error) {
	if err := ValidateSizes(setASize, setBSize); err != nil {
		return nil, err
	}
	if intersectionSize > setASize || intersectionSize > setBSize {
		return nil, fmt.Errorf("intersection size %d exceeds set sizes %d/%d", intersectionSize, setASize, setBSize)
	}

	total := int(setASize) + int(setBSize) - int(intersectionSize)
	raw := randomDistinctUint64s(total)

	shared := raw[:intersectionSize]
	onlyA := raw[intersectionSize:setASize]
	onlyB := raw[setASize:]

	setA := make([]big.Int, 0, setASize)
	setB := make([]big.Int, 0, setBSize)
	for _, v := range shared {
		element := encoding.EncodeInt(v)
		setA = append(setA, element)
		setB = append(setB, element)
	}
	for _, v := range onlyA {
		setA = append(setA, encoding.EncodeInt(v))
	}
	for _, v := range onlyB {
		setB = append(setB, encoding.EncodeInt(v))
	}

	shuffleElements(setA)
	shuffleElements(setB)

	return &PsiParameters{
		SetA:             setA,
		SetB:             setB,
		IntersectionSize: intersectionSize,
	}, nil
}
