package prover

import (
	"bytes"
	"fmt"
	"os"

	"zkpsi/psi-prover/logging"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	gnarkio "github.com/consensys/gnark/io"
)

// Shape is one provisioned circuit size pair.
type Shape struct {
	SetASize uint32
	SetBSize uint32
}

// DefaultShapes lists the sizes the setup scripts provision and the server
// loads when no explicit shape list is configured.
func DefaultShapes() []Shape {
	return []Shape{
		{SetASize: 4, SetBSize: 4},
		{SetASize: 8, SetBSize: 8},
		{SetASize: 16, SetBSize: 16},
		{SetASize: 32, SetBSize: 32},
	}
}

func KeyFilePath(keysDir string, shape Shape) string {
	return fmt.Sprintf("%spsi_%d_%d.key", keysDir, shape.SetASize, shape.SetBSize)
}

func GetKeys(keysDir string, shapes []Shape) []string {
	var keys []string
	for _, shape := range shapes {
		keys = append(keys, KeyFilePath(keysDir, shape))
	}
	return keys
}

func LoadKeys(keysDir string, shapes []Shape) ([]*ProvingSystem, error) {
	var systems []*ProvingSystem

	for _, key := range GetKeys(keysDir, shapes) {
		logging.Logger().Info().Msg("Reading proving system from file " + key + "...")
		system, err := ReadSystemFromFile(key)
		if err != nil {
			return nil, err
		}
		systems = append(systems, system)
		logging.Logger().Info().
			Uint32("setASize", system.SetASize).
			Uint32("setBSize", system.SetBSize).
			Msg("Read ProvingSystem")
	}
	return systems, nil
}

func LoadProvingKey(filepath string) (pk groth16.ProvingKey, err error) {
	logging.Logger().Info().Msg("start reading proving key")
	pk = groth16.NewProvingKey(ecc.BN254)
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	_, err = pk.ReadFrom(f)
	if err != nil {
		return pk, fmt.Errorf("read file error")
	}
	err = f.Close()
	if err != nil {
		return nil, err
	}
	return pk, nil
}

func LoadVerifyingKey(filepath string) (verifyingKey groth16.VerifyingKey, err error) {
	logging.Logger().Info().Msg("start reading verifying key")
	verifyingKey = groth16.NewVerifyingKey(ecc.BN254)
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	_, err = verifyingKey.ReadFrom(f)
	if err != nil {
		return verifyingKey, fmt.Errorf("read file error")
	}
	err = f.Close()
	if err != nil {
		return nil, err
	}

	return verifyingKey, nil
}

// WriteProvingSystem writes the system to path and, when pathVkey is not
// empty, the raw verifying key next to it for external verifiers.
func WriteProvingSystem(system *ProvingSystem, path string, pathVkey string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	written, err := system.WriteTo(file)
	if err != nil {
		return err
	}

	logging.Logger().Info().Int64("bytesWritten", written).Msg("Proving system written to file")

	if pathVkey == "" {
		return nil
	}

	var buf bytes.Buffer
	_, err = system.VerifyingKey.(gnarkio.WriterRawTo).WriteRawTo(&buf)
	if err != nil {
		return err
	}

	err = os.WriteFile(pathVkey, buf.Bytes(), 0644)
	if err != nil {
		return err
	}
	logging.Logger().Info().Str("file", pathVkey).Int("bytes", buf.Len()).Msg("Verifying key written to file")
	return nil
}
