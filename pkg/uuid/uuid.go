// Package uuid provides UUID v7 generation.
// UUID v7 is sortable by timestamp (better for database indexes than v4).
package uuid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// UUID represents a UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a new UUID v7 as per RFC 9562:
// 48 bits of millisecond UNIX timestamp, then version/variant bits,
// with the remainder filled from crypto/rand.
func NewV7() UUID {
	var uuid UUID

	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(uuid[6:])

	// Version 7 in the high nibble of byte 6, RFC 4122 variant in byte 8.
	uuid[6] = 0x70 | (uuid[6] & 0x0f)
	uuid[8] = 0x80 | (uuid[8] & 0x3f)

	return uuid
}

// NewString is shorthand for NewV7().String().
func NewString() string {
	return NewV7().String()
}

// String returns the UUID in standard form: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
