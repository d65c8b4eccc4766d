package ecmath

import "golang.org/x/crypto/sha3"

const (
	SeedSize       = 32
	CommitmentSize = 32
)

// Keccak256 hashes the concatenation of chunks with the legacy (pre-NIST)
// keccak padding.
func Keccak256(chunks ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// ComputeCommitment binds a player to a shuffle seed: keccak256(seed).
func ComputeCommitment(seed [SeedSize]byte) [CommitmentSize]byte {
	return Keccak256(seed[:])
}

// VerifyCommitment reports whether the revealed seed matches a previously
// published commitment.
func VerifyCommitment(commitment [CommitmentSize]byte, seed [SeedSize]byte) bool {
	return ComputeCommitment(seed) == commitment
}

// DeriveValue computes the k-th seed-derived pseudo-random value,
// keccak256(seed || k). Fifty-two of these per seed feed the randomness
// accumulator in place of transmitting the raw vector.
func DeriveValue(seed [SeedSize]byte, k uint8) [32]byte {
	return Keccak256(seed[:], []byte{k})
}
