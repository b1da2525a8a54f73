// Package password hashes and verifies user credentials.
//
// New digests use the configured algorithm; Verify recognises both bcrypt and
// argon2id digests so stored hashes keep working after the algorithm changes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	DefaultBcryptCost = 10
)

// Argon2id parameters
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Hasher is the one-way credential hasher used by the user service.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) bool
	// DummyHash returns a valid digest of an unknown secret, for spending the
	// same work on paths where no stored hash exists.
	DummyHash() string
}

// Service implements Hasher.
type Service struct {
	algorithm  string
	bcryptCost int
	dummy      string
}

// New returns a Service producing digests with algorithm.
func New(algorithm string, bcryptCost int) (*Service, error) {
	switch algorithm {
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, bcryptCost)
		}
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}

	s := &Service{algorithm: algorithm, bcryptCost: bcryptCost}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate dummy secret: %w", err)
	}
	dummy, err := s.Hash(base64.RawStdEncoding.EncodeToString(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy secret: %w", err)
	}
	s.dummy = dummy

	return s, nil
}

// Hash returns a salted digest of plaintext.
func (s *Service) Hash(plaintext string) (string, error) {
	if s.algorithm == AlgorithmArgon2id {
		return hashArgon2id(plaintext)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches encodedHash. Malformed digests
// never match.
func (s *Service) Verify(plaintext, encodedHash string) bool {
	if strings.HasPrefix(encodedHash, "$argon2id$") {
		return verifyArgon2id(encodedHash, plaintext)
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(plaintext)) == nil
}

func (s *Service) DummyHash() string {
	return s.dummy
}

func hashArgon2id(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(plaintext), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=3,p=4$salt$hash
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(encodedHash, plaintext string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(decodedHash) == 0 {
		return false
	}

	inputHash := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(decodedHash))) // #nosec G115

	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1
}
