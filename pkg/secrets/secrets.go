// Package secrets hashes and verifies the administration password. Hashes
// use PBKDF2-SHA256 in a self-describing modular-crypt string so iteration
// counts can change without invalidating stored hashes.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	prefix     = "$pbkdf2-sha256$"
	iterations = 10000
	saltLen    = 16
	keyLen     = 32
)

var encoding = base64.RawStdEncoding

// HashPassword derives a hash of plain with a fresh random salt and returns
// it encoded as "$pbkdf2-sha256$<iterations>$<salt>$<key>".
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("secrets: generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
	return prefix + strconv.Itoa(iterations) + "$" + encoding.EncodeToString(salt) + "$" + encoding.EncodeToString(key), nil
}

// VerifyPassword reports whether plain matches the encoded hash. The salt and
// iteration count come from the hash itself; the comparison is constant-time.
func VerifyPassword(encoded, plain string) (bool, error) {
	rest, ok := strings.CutPrefix(encoded, prefix)
	if !ok {
		return false, fmt.Errorf("secrets: unsupported hash format")
	}
	parts := strings.Split(rest, "$")
	if len(parts) != 3 {
		return false, fmt.Errorf("secrets: malformed hash")
	}
	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds <= 0 {
		return false, fmt.Errorf("secrets: malformed iteration count")
	}
	salt, err := encoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("secrets: malformed salt: %w", err)
	}
	want, err := encoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("secrets: malformed key: %w", err)
	}
	got := pbkdf2.Key([]byte(plain), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
