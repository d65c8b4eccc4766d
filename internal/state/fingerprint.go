package state

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Fingerprint hashes every record of a game into a 32-byte digest. Records
// are visited in lexical key order and length-prefixed, so the digest is a
// stable commitment to the full game state: two stores holding the same
// records produce the same fingerprint regardless of write order.
func Fingerprint(store Store, gameID string) ([32]byte, error) {
	h := blake3.New()
	var lenBuf [8]byte

	write := func(key string, value []byte) {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(key)))
		h.Write(lenBuf[:])
		h.Write([]byte(key))
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(value)))
		h.Write(lenBuf[:])
		h.Write(value)
	}

	for _, key := range []string{
		configKey(gameID), stateKey(gameID), deckKey(gameID),
		accKey(gameID), communityKey(gameID), playerListKey(gameID),
	} {
		v, found, err := store.Get(key)
		if err != nil {
			return [32]byte{}, err
		}
		if found {
			write(key, v)
		}
	}
	err := store.Iterate(playerPrefix(gameID), func(key string, value []byte) bool {
		write(key, value)
		return false
	})
	if err != nil {
		return [32]byte{}, err
	}

	var out [32]byte
	h.Sum(out[:0])
	return out, nil
}
