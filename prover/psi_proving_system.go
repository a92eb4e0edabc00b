package prover

import (
	"fmt"
	"math/big"

	"zkpsi/psi-prover/logging"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// MaxSetSize bounds both sets. A full instance compares
// MaxSetSize * MaxSetSize pairs.
const MaxSetSize = 32

type Proof struct {
	Proof groth16.Proof
}

type ProvingSystem struct {
	SetASize         uint32
	SetBSize         uint32
	ProvingKey       groth16.ProvingKey
	VerifyingKey     groth16.VerifyingKey
	ConstraintSystem constraint.ConstraintSystem
}

// PsiParameters is one circuit instance: the two encoded sets and the
// declared intersection size. The parameters hold their own copies of the
// sets and are never mutated after construction.
type PsiParameters struct {
	SetA             []big.Int
	SetB             []big.Int
	IntersectionSize uint32
}

func (p *PsiParameters) SetASize() uint32 {
	return uint32(len(p.SetA))
}

func (p *PsiParameters) SetBSize() uint32 {
	return uint32(len(p.SetB))
}

func (p *PsiParameters) ValidateShape(setASize uint32, setBSize uint32) error {
	if p.SetASize() != setASize {
		return fmt.Errorf("wrong size of set A: %d", p.SetASize())
	}
	if p.SetBSize() != setBSize {
		return fmt.Errorf("wrong size of set B: %d", p.SetBSize())
	}
	return nil
}

// ValidateSizes rejects empty and oversized sets. An empty set would leave
// the circuit with zero rows and nothing bound to the public output, so
// construction refuses it up front.
func ValidateSizes(setASize uint32, setBSize uint32) error {
	if setASize == 0 || setBSize == 0 {
		return fmt.Errorf("sets must not be empty")
	}
	if setASize > MaxSetSize || setBSize > MaxSetSize {
		return fmt.Errorf("set sizes %dx%d exceed the maximum of %d", setASize, setBSize, MaxSetSize)
	}
	return nil
}

// CreateWitness builds the fully assigned circuit for these parameters.
// Re-running it on the same parameters yields identical assignments.
func (p *PsiParameters) CreateWitness() (*PsiCircuit, error) {
	if err := ValidateSizes(p.SetASize(), p.SetBSize()); err != nil {
		return nil, err
	}

	setA := make([]frontend.Variable, p.SetASize())
	setB := make([]frontend.Variable, p.SetBSize())
	for i := range p.SetA {
		setA[i] = p.SetA[i]
	}
	for i := range p.SetB {
		setB[i] = p.SetB[i]
	}

	return &PsiCircuit{
		IntersectionSize: p.IntersectionSize,
		SetA:             setA,
		SetB:             setB,
		SetASize:         p.SetASize(),
		SetBSize:         p.SetBSize(),
	}, nil
}

func R1CSPsi(setASize uint32, setBSize uint32) (constraint.ConstraintSystem, error) {
	if err := ValidateSizes(setASize, setBSize); err != nil {
		return nil, err
	}
	circuit := InitPsiCircuit(setASize, setBSize)
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
}

func SetupPsi(setASize uint32, setBSize uint32) (*ProvingSystem, error) {
	ccs, err := R1CSPsi(setASize, setBSize)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &ProvingSystem{setASize, setBSize, pk, vk, ccs}, nil
}

// ImportPsiSetup assembles a proving system from keys produced by an
// external ceremony. The constraint system is recompiled locally.
func ImportPsiSetup(setASize uint32, setBSize uint32, pkPath string, vkPath string) (*ProvingSystem, error) {
	ccs, err := R1CSPsi(setASize, setBSize)
	if err != nil {
		return nil, err
	}

	pk, err := LoadProvingKey(pkPath)
	if err != nil {
		return nil, err
	}

	vk, err := LoadVerifyingKey(vkPath)
	if err != nil {
		return nil, err
	}

	return &ProvingSystem{setASize, setBSize, pk, vk, ccs}, nil
}

func (ps *ProvingSystem) ProvePsi(params *PsiParameters) (*Proof, error) {
	if err := params.ValidateShape(ps.SetASize, ps.SetBSize); err != nil {
		return nil, err
	}

	assignment, err := params.CreateWitness()
	if err != nil {
		return nil, err
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}

	logging.Logger().Info().
		Uint32("setASize", ps.SetASize).
		Uint32("setBSize", ps.SetBSize).
		Uint32("intersectionSize", params.IntersectionSize).
		Msg("Proving intersection size")
	proof, err := groth16.Prove(ps.ConstraintSystem, ps.ProvingKey, witness)
	if err != nil {
		return nil, err
	}

	return &Proof{proof}, nil
}

func (ps *ProvingSystem) VerifyPsi(intersectionSize uint32, proof *Proof) error {
	publicAssignment := PsiCircuit{
		IntersectionSize: intersectionSize,
	}
	witness, err := frontend.NewWitness(&publicAssignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}
	return groth16.Verify(proof.Proof, ps.VerifyingKey, witness)
}
