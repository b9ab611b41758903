package checksum

import (
	"encoding/binary"
	"encoding/hex"
	"errors"

	"github.com/zeebo/xxh3"
)

// FingerprintSize is the length of a Fingerprint in bytes.
const FingerprintSize = 16

// ErrBadFingerprint is returned when parsing a malformed fingerprint string.
var ErrBadFingerprint = errors.New("checksum: malformed fingerprint")

// Fingerprint is a 128-bit XXH3 content identity.
// Unlike the CRC it is used as a key, so it is wide enough that accidental
// collisions between chunks can be ignored. It is not a cryptographic hash.
type Fingerprint [FingerprintSize]byte

// NewFingerprint computes the XXH3-128 fingerprint of data.
func NewFingerprint(data []byte) Fingerprint {
	h := xxh3.Hash128(data)
	var f Fingerprint
	binary.BigEndian.PutUint64(f[:8], h.Hi)
	binary.BigEndian.PutUint64(f[8:], h.Lo)
	return f
}

// String returns the fingerprint as 32 lowercase hex digits.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint parses the output of Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	if hex.DecodedLen(len(s)) != FingerprintSize {
		return f, ErrBadFingerprint
	}
	if _, err := hex.Decode(f[:], []byte(s)); err != nil {
		return f, ErrBadFingerprint
	}
	return f, nil
}
