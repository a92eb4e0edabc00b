package prover

import "math/big"

// IntersectionCount returns the number of elements of setA that have at
// least one equal element in setB. Scanning of setB stops at the first
// match, so an element of setA scores at most once no matter how many
// duplicates setB holds. This cleartext count is what the circuit forces the
// declared public value to equal.
func IntersectionCount(setA []big.Int, setB []big.Int) uint32 {
	var count uint32
	for i := range setA {
		for j := range setB {
			if setA[i].Cmp(&setB[j]) == 0 {
				count++
				break
			}
		}
	}
	return count
}
