package encoding

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
)

// Text bytes are split into 31-byte limbs so every limb is canonical.
const textChunkBytes = 31

// EncodeTextPoseidon folds the UTF-8 bytes of the string through the
// Poseidon permutation. The accumulator starts from the byte length, which
// pins down the chunk boundaries: two strings of different length can never
// produce the same limb sequence, and within a known-length chunk leading
// zero bytes are unambiguous.
func EncodeTextPoseidon(value string) (big.Int, error) {
	data := []byte(value)
	acc := big.NewInt(int64(len(data)))
	if len(data) == 0 {
		digest, err := poseidon.Hash([]*big.Int{acc})
		if err != nil {
			return big.Int{}, err
		}
		return *digest, nil
	}
	for start := 0; start < len(data); start += textChunkBytes {
		end := start + textChunkBytes
		if end > len(data) {
			end = len(data)
		}
		limb := new(big.Int).SetBytes(data[start:end])
		digest, err := poseidon.Hash([]*big.Int{acc, limb})
		if err != nil {
			return big.Int{}, err
		}
		acc = digest
	}
	return *acc, nil
}
