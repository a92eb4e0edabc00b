package prover

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"
)

func elements(values ...int64) []big.Int {
	result := make([]big.Int, len(values))
	for i, v := range values {
		result[i] = *big.NewInt(v)
	}
	return result
}

func solvePsi(t *testing.T, params *PsiParameters) error {
	t.Helper()
	circuit := InitPsiCircuit(params.SetASize(), params.SetBSize())
	witness, err := params.CreateWitness()
	if err != nil {
		t.Fatalf("Error creating witness: %v", err)
	}
	return test.IsSolved(&circuit, witness, ecc.BN254.ScalarField())
}

func TestPsiCircuit(t *testing.T) {
	assert := test.NewAssert(t)

	t.Run("Planted intersection across shapes", func(t *testing.T) {
		testCases := []struct {
			setASize         uint32
			setBSize         uint32
			intersectionSize uint32
		}{
			{2, 2, 0},
			{2, 2, 1},
			{2, 2, 2},
			{3, 5, 2},
			{8, 8, 5},
		}

		for _, tc := range testCases {
			params, err := BuildTestParameters(tc.setASize, tc.setBSize, tc.intersectionSize)
			assert.NoError(err)
			assert.NoError(solvePsi(t, params))
		}
	})

	t.Run("Single element match", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(5),
			SetB:             elements(5),
			IntersectionSize: 1,
		}
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Partial overlap", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(1, 2, 3, 4),
			SetB:             elements(2, 3, 5, 6),
			IntersectionSize: 2,
		}
		assert.Equal(uint32(2), IntersectionCount(params.SetA, params.SetB))
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Disjoint sets", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(1, 2, 3),
			SetB:             elements(4, 5, 6),
			IntersectionSize: 0,
		}
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Identical sets in different order", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(10, 20, 30),
			SetB:             elements(30, 10, 20),
			IntersectionSize: 3,
		}
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Duplicates in set A each score once", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(7, 7, 1),
			SetB:             elements(9, 7),
			IntersectionSize: 2,
		}
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Duplicates in set B do not inflate the count", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(7, 1),
			SetB:             elements(7, 7, 7),
			IntersectionSize: 1,
		}
		assert.NoError(solvePsi(t, params))
	})

	t.Run("Overstated count does not solve", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(1, 2),
			SetB:             elements(2, 3),
			IntersectionSize: 2,
		}
		assert.Error(solvePsi(t, params))
	})

	t.Run("Understated count does not solve", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(1, 2),
			SetB:             elements(2, 3),
			IntersectionSize: 0,
		}
		assert.Error(solvePsi(t, params))
	})

	t.Run("Count above both set sizes does not solve", func(t *testing.T) {
		params := &PsiParameters{
			SetA:             elements(1, 2),
			SetB:             elements(1, 2),
			IntersectionSize: 5,
		}
		assert.Error(solvePsi(t, params))
	})

	t.Run("Planted count matches the plain scan", func(t *testing.T) {
		params, err := BuildTestParameters(6, 6, 3)
		assert.NoError(err)
		assert.Equal(uint32(3), IntersectionCount(params.SetA, params.SetB))
	})
}

func TestPsiCircuitGroth16(t *testing.T) {
	assert := test.NewAssert(t)

	circuit := InitPsiCircuit(2, 2)

	validParams := &PsiParameters{
		SetA:             elements(11, 12),
		SetB:             elements(12, 13),
		IntersectionSize: 1,
	}
	validWitness, err := validParams.CreateWitness()
	assert.NoError(err)
	assert.ProverSucceeded(&circuit, validWitness, test.WithBackends(backend.GROTH16), test.WithCurves(ecc.BN254), test.NoSerialization())

	invalidParams := &PsiParameters{
		SetA:             elements(11, 12),
		SetB:             elements(12, 13),
		IntersectionSize: 2,
	}
	invalidWitness, err := invalidParams.CreateWitness()
	assert.NoError(err)
	assert.ProverFailed(&circuit, invalidWitness, test.WithBackends(backend.GROTH16), test.WithCurves(ecc.BN254), test.NoSerialization())
}
