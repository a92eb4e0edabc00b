package prover

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/reilabs/gnark-lean-extractor/v3/extractor"
)

// ExtractLean emits the intersection circuit as Lean definitions for formal
// verification of the gadget semantics.
func ExtractLean(setASize uint32, setBSize uint32) (string, error) {
	if err := ValidateSizes(setASize, setBSize); err != nil {
		return "", err
	}

	circuit := InitPsiCircuit(setASize, setBSize)
	return extractor.ExtractCircuits("PsiProver", ecc.BN254, &circuit)
}
