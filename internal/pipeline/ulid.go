package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// ULID generator for job ids: 26-character Crockford Base32 strings with
// a 48-bit millisecond timestamp prefix and 80 random bits, monotonic
// within one millisecond.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a fresh ULID string.
func NewULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Embed sequence in bytes 6-7 to ensure uniqueness within same ms.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 encodes 128 bits as 26 Crockford Base32 characters by
// reading the byte array as a big-endian bit stream, most significant
// 3 bits first.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	bitPos := -2 // 128 bits into 26 5-bit groups leaves the top group 3 bits wide
	for i := range out {
		var v byte
		for j := 0; j < 5; j++ {
			v <<= 1
			pos := bitPos + j
			if pos >= 0 && b[pos/8]&(1<<(7-pos%8)) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
		bitPos += 5
	}
	return string(out[:])
}
