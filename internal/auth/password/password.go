// Package password implements the credential hashing scheme: PBKDF2-SHA256
// with a per-password random salt, stored as a self-describing PHC string
// ($pbkdf2-sha256$i=<iterations>,l=<length>$<salt>$<digest>).
package password

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
	algorithmID       = "pbkdf2-sha256"
	defaultIterations = 600000
	saltLength        = 16
	keyLength         = 32
)

// PHC strings carry unpadded standard base64.
var b64 = base64.StdEncoding.WithPadding(base64.NoPadding)

// Hash derives a PHC-encoded hash for the given password with a fresh random
// salt.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	return encode(password, salt, defaultIterations), nil
}

// Verify re-derives the hash using the parameters embedded in encodedHash and
// compares digests in constant time. A malformed stored hash yields false,
// never an error, so it is indistinguishable from a wrong password.
func Verify(password, encodedHash string) bool {
	salt, digest, iterations, ok := decode(encodedHash)
	if !ok {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(derived, digest) == 1
}

func encode(password string, salt []byte, iterations int) string {
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return fmt.Sprintf("$%s$i=%d,l=%d$%s$%s",
		algorithmID, iterations, keyLength, b64.EncodeToString(salt), b64.EncodeToString(key))
}

func decode(encodedHash string) (salt, digest []byte, iterations int, ok bool) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != algorithmID {
		return nil, nil, 0, false
	}

	for _, param := range strings.Split(parts[2], ",") {
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			return nil, nil, 0, false
		}

		switch kv[0] {
		case "i":
			n, err := strconv.Atoi(kv[1])
			if err != nil || n < 1 {
				return nil, nil, 0, false
			}
			iterations = n
		case "l":
			// Output length is implied by the digest; accepted for
			// compatibility with hashes that carry it.
		default:
			return nil, nil, 0, false
		}
	}
	if iterations == 0 {
		return nil, nil, 0, false
	}

	var err error
	if salt, err = b64.DecodeString(parts[3]); err != nil || len(salt) == 0 {
		return nil, nil, 0, false
	}
	if digest, err = b64.DecodeString(parts[4]); err != nil || len(digest) == 0 {
		return nil, nil, 0, false
	}

	return salt, digest, iterations, true
}
