package utils

import (
	"crypto/md5"
	"fmt"
)

// HashString returns the hex md5 of the input. Used as a cache key for
// dataset snapshots; not a security primitive.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// HashBytes is HashString for raw payloads.
func HashBytes(input []byte) string {
	hash := md5.Sum(input)
	return fmt.Sprintf("%x", hash)
}
