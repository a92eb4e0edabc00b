package prover

import (
	"github.com/consensys/gnark/frontend"
	"github.com/reilabs/gnark-lean-extractor/v3/abstractor"
)

type PsiCircuit struct {
	// public inputs
	IntersectionSize frontend.Variable `gnark:",public"`

	// private inputs
	SetA []frontend.Variable `gnark:"input"`
	SetB []frontend.Variable `gnark:"input"`

	SetASize uint32
	SetBSize uint32
}

func (circuit *PsiCircuit) Define(api frontend.API) error {
	total := abstractor.Call(api, IntersectionTally{
		SetA: circuit.SetA,
		SetB: circuit.SetB,
	})
	api.AssertIsEqual(circuit.IntersectionSize, total)
	return nil
}

// MatchRow produces the match indicator for one (a, b) pair. IsZero
// witnesses the inverse of the difference, so the indicator is forced in
// both directions: 1 exactly when the values are equal, 0 exactly when they
// differ. Matched masks the indicator once the a element has already scored
// against an earlier b.
type MatchRow struct {
	A       frontend.Variable
	B       frontend.Variable
	Matched frontend.Variable
}

func (gadget MatchRow) DefineGadget(api frontend.API) interface{} {
	eq := api.IsZero(api.Sub(gadget.A, gadget.B))
	fresh := api.Mul(eq, api.Sub(1, gadget.Matched))
	api.AssertIsBoolean(fresh)
	return fresh
}

// IntersectionTally walks the cross product of the two sets in row-major
// order, setA outer and setB inner, so the indicator of the pair (i, j)
// lives at row i*len(setB)+j. Each setA element contributes at most one
// indicator thanks to the per-element Matched chain, which makes the total
// equal to the number of setA elements with at least one partner in setB.
type IntersectionTally struct {
	SetA []frontend.Variable
	SetB []frontend.Variable
}

func (gadget IntersectionTally) DefineGadget(api frontend.API) interface{} {
	rows := len(gadget.SetA) * len(gadget.SetB)
	matchBits := make([]frontend.Variable, 0, rows)

	// Per-row indicators first. The comparisons carry no cross-row
	// dependency beyond the Matched mask within one setA block.
	for i := range gadget.SetA {
		matched := frontend.Variable(0)
		for j := range gadget.SetB {
			fresh := abstractor.Call(api, MatchRow{
				A:       gadget.SetA[i],
				B:       gadget.SetB[j],
				Matched: matched,
			})
			matched = api.Add(matched, fresh)
			matchBits = append(matchBits, fresh)
		}
	}

	// Then one sequential scan folds the indicators into the running sum.
	return abstractor.Call(api, RunningSum{MatchBits: matchBits})
}

// RunningSum chains sum_k = sum_{k-1} + bit_k over the row-major match
// bits; the first row's sum is its own bit.
type RunningSum struct {
	MatchBits []frontend.Variable
}

func (gadget RunningSum) DefineGadget(api frontend.API) interface{} {
	sum := gadget.MatchBits[0]
	for _, bit := range gadget.MatchBits[1:] {
		sum = api.Add(sum, bit)
	}
	return sum
}

func InitPsiCircuit(setASize uint32, setBSize uint32) PsiCircuit {
	return PsiCircuit{
		SetA:     make([]frontend.Variable, setASize),
		SetB:     make([]frontend.Variable, setBSize),
		SetASize: setASize,
		SetBSize: setBSize,
	}
}
