package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// DefaultArgon2Memory is the memory cost in KiB (64 MiB).
	DefaultArgon2Memory uint32 = 64 * 1024
	// DefaultArgon2Time is the number of passes over memory.
	DefaultArgon2Time uint32 = 3
	// DefaultArgon2Threads is the degree of parallelism.
	DefaultArgon2Threads uint8 = 2
	// DefaultArgon2KeyLen is the derived key length in bytes.
	DefaultArgon2KeyLen uint32 = 32
	// DefaultArgon2SaltLen is the random salt length in bytes.
	DefaultArgon2SaltLen uint32 = 16
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

// Argon2Options configures an [Argon2idHasher]. Every value except SaltLen is
// encoded into the output, so a hash stays verifiable after the options change.
type Argon2Options struct {
	Memory  uint32 // KiB, at least 8*Threads
	Time    uint32 // at least 1
	Threads uint8  // at least 1
	KeyLen  uint32 // at least 4
	SaltLen uint32 // at least 8
}

// DefaultArgon2Options returns the recommended Argon2id parameters.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func (o Argon2Options) validate() error {
	switch {
	case o.Time < 1:
		return fmt.Errorf("%w: argon2id time %d must be >= 1", ErrInvalidOption, o.Time)
	case o.Threads < 1:
		return fmt.Errorf("%w: argon2id threads %d must be >= 1", ErrInvalidOption, o.Threads)
	case o.Memory < 8*uint32(o.Threads):
		return fmt.Errorf("%w: argon2id memory %d KiB must be >= 8*threads", ErrInvalidOption, o.Memory)
	case o.KeyLen < 4:
		return fmt.Errorf("%w: argon2id key length %d must be >= 4", ErrInvalidOption, o.KeyLen)
	case o.SaltLen < 8:
		return fmt.Errorf("%w: argon2id salt length %d must be >= 8", ErrInvalidOption, o.SaltLen)
	}
	return nil
}

// Argon2idHasher hashes passwords with Argon2id (RFC 9106) and encodes the
// result as a PHC string:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Salt and key use unpadded standard base64.
//
// Argon2id is memory-hard, which makes GPU and ASIC attacks far more
// expensive than against bcrypt, and it has no input length limit.
//
// # Thread safety
//
// Argon2idHasher is immutable after construction and safe for concurrent use.
type Argon2idHasher struct {
	opts Argon2Options
}

// NewArgon2idHasher validates opts and returns an Argon2idHasher.
func NewArgon2idHasher(opts Argon2Options) (*Argon2idHasher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{opts: opts}, nil
}

// Driver returns [DriverArgon2id].
func (h *Argon2idHasher) Driver() DriverName { return DriverArgon2id }

// Options returns the configured parameters.
func (h *Argon2idHasher) Options() Argon2Options { return h.opts }

// Make derives an Argon2id key from password and a fresh random salt.
func (h *Argon2idHasher) Make(password []byte) (string, error) {
	salt := make([]byte, h.opts.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hashing: argon2id: generate salt: %w", err)
	}
	key := argon2.IDKey(password, salt, h.opts.Time, h.opts.Memory, h.opts.Threads, h.opts.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.opts.Memory, h.opts.Time, h.opts.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Check recomputes the key with the parameters stored in hash and compares
// in constant time.
func (h *Argon2idHasher) Check(password []byte, hash string) (bool, error) {
	p, err := parseArgon2id(hash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey(password, p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// Info reports the parameters stored in an Argon2id hash.
//
// Returned [HashInfo].Params:
//   - "version" → int
//   - "memory"  → uint32 (KiB)
//   - "time"    → uint32
//   - "threads" → uint8
//   - "key_len" → uint32
func (h *Argon2idHasher) Info(hash string) (HashInfo, error) {
	p, err := parseArgon2id(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: DriverArgon2id,
		Params: map[string]any{
			"version": p.version,
			"memory":  p.memory,
			"time":    p.time,
			"threads": p.threads,
			"key_len": uint32(len(p.key)),
		},
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PHC string parsing
// ──────────────────────────────────────────────────────────────────────────────

// argon2idHash holds the fields decoded from a PHC string.
type argon2idHash struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// parseArgon2id decodes an Argon2id PHC string. The key length is implied by
// the decoded key.
func parseArgon2id(encoded string) (*argon2idHash, error) {
	if d, ok := DetectDriver(encoded); !ok || d != DriverArgon2id {
		return nil, fmt.Errorf("%w: not an argon2id hash", ErrAlgorithmMismatch)
	}
	// "", "argon2id", "v=..", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 5 segments, got %d", ErrInvalidHash, len(parts)-1)
	}

	var p argon2idHash
	if _, err := fmt.Sscanf(parts[2], "v=%d", &p.version); err != nil {
		return nil, fmt.Errorf("%w: version segment %q", ErrInvalidHash, parts[2])
	}
	if p.version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidHash, p.version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("%w: parameter segment %q", ErrInvalidHash, parts[3])
	}
	if p.time < 1 || p.threads < 1 {
		return nil, fmt.Errorf("%w: parameter segment %q", ErrInvalidHash, parts[3])
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}
	if len(p.key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidHash)
	}
	return &p, nil
}
