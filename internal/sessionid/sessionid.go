// Package sessionid generates sortable session identifiers: UUIDv7
// encoded as 26 characters of Crockford base32.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns a fresh session id. Ids sort by creation time.
func New() string {
	var uuid [16]byte

	// 48-bit millisecond timestamp, then random tail
	now := time.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(now >> (40 - 8*i))
	}
	if _, err := rand.Read(uuid[6:]); err != nil {
		panic("sessionid: " + err.Error())
	}

	// version 7, variant 10
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return encode(uuid)
}

// Validate checks that an id is a well-formed session id
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("session id must be 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session id first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}

// encode packs 128 bits into 26 base32 characters, 5 bits per character
func encode(data [16]byte) string {
	var b strings.Builder
	b.Grow(26)
	for i := 0; i < 26; i++ {
		bit := i * 5
		idx, off := bit/8, bit%8

		var v byte
		if off <= 3 {
			v = (data[idx] >> (3 - off)) & 0x1f
		} else {
			v = (data[idx] << (off - 3)) & 0x1f
			if idx+1 < 16 {
				v |= data[idx+1] >> (11 - off)
			}
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}
