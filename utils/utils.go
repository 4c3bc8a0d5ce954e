// Package utils provides utility functions for the application.
package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// ParseUUID parses a public identifier from a path or query parameter.
func ParseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("empty uuid")
	}
	return uuid.Parse(s)
}

// RandomString draws n symbols from alphabet using crypto/rand.
// Bytes outside the largest multiple of len(alphabet) are rejected to keep the
// distribution uniform.
func RandomString(alphabet string, n int) (string, error) {
	if len(alphabet) == 0 || len(alphabet) > 256 || n <= 0 {
		return "", fmt.Errorf("invalid random string parameters")
	}
	limit := 256 - (256 % len(alphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
