package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/quadworks/storefront/pkg/config"
)

var ErrPasswordMismatch = errors.New("password does not match")

// Hasher hashes and verifies passwords with argon2id. The encoded form
// embeds the parameters so they can change without invalidating stored
// hashes.
type Hasher struct {
	memoryKB    uint32
	time        uint32
	parallelism uint8
	saltLen     int
	keyLen      uint32
}

func NewHasher(cfg config.PasswordConfig) (*Hasher, error) {
	if cfg.ArgonMemoryKB <= 0 || cfg.ArgonTime <= 0 || cfg.ArgonParallelism <= 0 {
		return nil, fmt.Errorf("argon2 parameters must be positive")
	}
	if cfg.ArgonSaltLen < 8 || cfg.ArgonKeyLen < 16 {
		return nil, fmt.Errorf("argon2 salt/key lengths too small")
	}
	return &Hasher{
		memoryKB:    uint32(cfg.ArgonMemoryKB),
		time:        uint32(cfg.ArgonTime),
		parallelism: uint8(cfg.ArgonParallelism),
		saltLen:     cfg.ArgonSaltLen,
		keyLen:      uint32(cfg.ArgonKeyLen),
	}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}

	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memoryKB, h.parallelism, h.keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memoryKB,
		h.time,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify checks password against an encoded hash, returning
// ErrPasswordMismatch when it does not match.
func (h *Hasher) Verify(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return fmt.Errorf("malformed password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("malformed password hash version: %w", err)
	}
	if version != argon2.Version {
		return fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memoryKB, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKB, &timeCost, &parallelism); err != nil {
		return fmt.Errorf("malformed password hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("malformed password hash salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("malformed password hash key: %w", err)
	}

	actual := argon2.IDKey([]byte(password), salt, timeCost, memoryKB, parallelism, uint32(len(expected)))
	if subtle.ConstantTimeCompare(expected, actual) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
