package benchmark

import (
	"fmt"
	"time"

	"zkpsi/psi-prover/logging"
	"zkpsi/psi-prover/prover"
)

// Result captures circuit size and end-to-end timings for one shape.
type Result struct {
	SetASize    uint32
	SetBSize    uint32
	Constraints int
	SetupTime   time.Duration
	ProveTime   time.Duration
	VerifyTime  time.Duration
}

// RunShape runs setup once for the shape, then proves and verifies planted
// test data runs times. Prove and verify timings are per-run averages.
func RunShape(setASize uint32, setBSize uint32, runs int) (Result, error) {
	result := Result{SetASize: setASize, SetBSize: setBSize}
	if runs < 1 {
		return result, fmt.Errorf("runs must be positive, got %d", runs)
	}

	start := time.Now()
	system, err := prover.SetupPsi(setASize, setBSize)
	if err != nil {
		return result, err
	}
	result.SetupTime = time.Since(start)
	result.Constraints = system.ConstraintSystem.GetNbConstraints()

	intersectionSize := setASize / 2
	if setBSize < setASize {
		intersectionSize = setBSize / 2
	}
	params, err := prover.BuildTestParameters(setASize, setBSize, intersectionSize)
	if err != nil {
		return result, err
	}

	var proveTotal, verifyTotal time.Duration
	for i := 0; i < runs; i++ {
		start = time.Now()
		proof, err := system.ProvePsi(params)
		if err != nil {
			return result, err
		}
		proveTotal += time.Since(start)

		start = time.Now()
		err = system.VerifyPsi(intersectionSize, proof)
		if err != nil {
			return result, err
		}
		verifyTotal += time.Since(start)
	}
	result.ProveTime = proveTotal / time.Duration(runs)
	result.VerifyTime = verifyTotal / time.Duration(runs)

	logging.Logger().Info().
		Uint32("setASize", setASize).
		Uint32("setBSize", setBSize).
		Int("constraints", result.Constraints).
		Int("runs", runs).
		Dur("setup", result.SetupTime).
		Dur("prove", result.ProveTime).
		Dur("verify", result.VerifyTime).
		Msg("benchmarked shape")

	return result, nil
}

// Run benchmarks every shape in order.
func Run(shapes []prover.Shape, runs int) ([]Result, error) {
	results := make([]Result, 0, len(shapes))
	for _, shape := range shapes {
		result, err := RunShape(shape.SetASize, shape.SetBSize, runs)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
