package encoding

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/blake2b"
)

// Text hash names accepted by NewEncoder.
const (
	HashBlake2b  = "blake2b"
	HashPoseidon = "poseidon"
)

// Encoder maps raw values into the scalar field. Integers always go through
// blake2b; the text hash is selectable so callers that want a SNARK-friendly
// text digest can opt into poseidon. Both variants are pure functions, so the
// choice only has to be consistent across the two sets of one instance.
type Encoder struct {
	textHash string
}

func NewEncoder(textHash string) (*Encoder, error) {
	if textHash != HashBlake2b && textHash != HashPoseidon {
		return nil, fmt.Errorf("unknown text hash: %s", textHash)
	}
	return &Encoder{textHash: textHash}, nil
}

func DefaultEncoder() *Encoder {
	return &Encoder{textHash: HashBlake2b}
}

func (e *Encoder) Value(v Value) (big.Int, error) {
	switch v.Kind {
	case KindInteger:
		return EncodeInt(v.Int), nil
	case KindText:
		if e.textHash == HashPoseidon {
			return EncodeTextPoseidon(v.Text)
		}
		return EncodeText(v.Text), nil
	}
	return big.Int{}, fmt.Errorf("unknown value kind: %d", v.Kind)
}

func (e *Encoder) Set(values []Value) ([]big.Int, error) {
	elements := make([]big.Int, len(values))
	for i, v := range values {
		element, err := e.Value(v)
		if err != nil {
			return nil, err
		}
		elements[i] = element
	}
	return elements, nil
}

// EncodeInt hashes the fixed-width little-endian encoding of the integer, so
// the integer 123 and the text "123" land on different field elements.
func EncodeInt(value uint64) big.Int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	return reduceDigest(blake2b.Sum256(buf[:]))
}

// EncodeText hashes the UTF-8 bytes of the string.
func EncodeText(value string) big.Int {
	return reduceDigest(blake2b.Sum256([]byte(value)))
}

// reduceDigest interprets the first 31 digest bytes as a big-endian integer.
// The value stays below 2^248 and the BN254 scalar modulus is larger, so it
// is always canonical; the zero fallback makes the out-of-range case a fixed
// constant rather than an error, keeping the mapping total and deterministic.
func reduceDigest(digest [32]byte) big.Int {
	var element big.Int
	element.SetBytes(digest[:31])
	if element.Cmp(fr.Modulus()) >= 0 {
		element.SetUint64(0)
	}
	return element
}

// The count public input travels between the prover and verifier files as a
// fixed-width 8-byte little-endian integer.
func PublicCountBytes(count uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], count)
	return buf[:]
}

func ReadPublicCount(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("public input must be 8 bytes, got %d", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}
