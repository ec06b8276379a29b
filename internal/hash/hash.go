// Package hash reimplements the two-stream CRC hash the original engine
// computes with a pair of interleaved hardware crc32q instructions. Go has
// no exposed 64-bit CRC intrinsic, so this package runs two independent
// 32-bit Castagnoli CRC streams over alternating 8-byte words and packs them
// into a 64-bit result the same way the original packs its two crc32q
// accumulators: high stream in the upper 32 bits, low stream in the lower.
package hash

import (
	"encoding/binary"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Hash64 is the package's default byte-string hash, exposed as a package
// variable so callers who already have their own 64-bit hash (hardware CRC,
// SipHash, whatever) can substitute it wholesale; spec.md explicitly allows
// any 64-bit hash with good bit diffusion. The engine itself takes
// already-computed uint64 keys and does not call it.
var Hash64 = defaultHash64

// defaultHash64 mirrors tdb_hash_calc: walk the key in 8-byte words, folding
// alternating words into two independent CRC32 accumulators, then handle
// the trailing partial word a byte at a time. The even-indexed words feed
// crc0, the odd-indexed words feed crc1, matching the original's interleave.
func defaultHash64(key []byte) uint64 {
	var crc0, crc1 uint32
	n := (len(key) >> 3) &^ 1 // largest even number of 8-byte words

	for i := 0; i < n; i += 2 {
		crc0 = crc32Word(crc0, key[i*8:i*8+8])
		crc1 = crc32Word(crc1, key[(i+1)*8:(i+1)*8+8])
	}

	rest := key[n*8:]
	if len(rest) >= 8 {
		crc0 = crc32Word(crc0, rest[:8])
		rest = rest[8:]
	}
	for _, b := range rest {
		crc1 = crc32.Update(crc1, castagnoli, []byte{b})
	}

	return uint64(crc1)<<32 | uint64(crc0)
}

// crc32Word folds one 8-byte word into an accumulator as two 4-byte
// Castagnoli updates, approximating a single 64-bit crc32q step with two
// 32-bit ones since hash/crc32 only exposes the 32-bit table form.
func crc32Word(crc uint32, word []byte) uint32 {
	crc = crc32.Update(crc, castagnoli, word[:4])
	crc = crc32.Update(crc, castagnoli, word[4:8])
	return crc
}

// Uint64 hashes a native uint64 key by encoding it little-endian first; a
// convenience for callers whose keys are already integers rather than byte
// strings.
func Uint64(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return Hash64(buf[:])
}
