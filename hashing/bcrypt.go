package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used when none is configured.
	// Cost 12 takes roughly 250 ms on a current server CPU.
	DefaultBcryptCost = 12

	// MaxBcryptPasswordLen is the number of password bytes bcrypt reads.
	MaxBcryptPasswordLen = 72

	// BcryptEncodedLen is the length of a Modular Crypt Format bcrypt hash:
	// "$2a$" + two cost digits + "$" + 22 salt chars + 31 digest chars.
	BcryptEncodedLen = 60
)

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the logarithmic work factor, in [bcrypt.MinCost, bcrypt.MaxCost].
	Cost int
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost].
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost}
}

// BcryptHasher hashes passwords with bcrypt. The 16-byte salt is generated
// and embedded by the bcrypt implementation itself, so callers never handle
// salts.
//
// # When to use bcrypt vs Argon2id
//
// bcrypt has the widest ecosystem support: web servers, databases and
// config formats that accept a password hash almost always accept "$2a$"
// or "$2b$". Prefer [Argon2idHasher] when the consumer supports it, or when
// passwords may exceed [MaxBcryptPasswordLen] bytes.
//
// # Thread safety
//
// BcryptHasher is immutable after construction and safe for concurrent use.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a BcryptHasher, or [ErrInvalidOption] when the
// cost is out of range.
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d not in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: opts.Cost}, nil
}

// Driver returns [DriverBcrypt].
func (h *BcryptHasher) Driver() DriverName { return DriverBcrypt }

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Make returns the bcrypt hash of password.
//
// Passwords longer than [MaxBcryptPasswordLen] bytes are rejected with
// [ErrPasswordTooLong]; bcrypt would otherwise ignore the excess bytes.
func (h *BcryptHasher) Make(password []byte) (string, error) {
	if len(password) > MaxBcryptPasswordLen {
		return "", fmt.Errorf("%w: bcrypt accepts at most %d bytes, got %d",
			ErrPasswordTooLong, MaxBcryptPasswordLen, len(password))
	}
	hash, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: %w", err)
	}
	return string(hash), nil
}

// Check compares password with a bcrypt hash in constant time.
func (h *BcryptHasher) Check(password []byte, hash string) (bool, error) {
	if d, ok := DetectDriver(hash); !ok || d != DriverBcrypt {
		return false, fmt.Errorf("%w: not a bcrypt hash", ErrAlgorithmMismatch)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, fmt.Errorf("%w: %v", ErrPasswordTooLong, err)
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// Info reports the cost stored in a bcrypt hash.
//
// Returned [HashInfo].Params:
//   - "cost" → int
func (h *BcryptHasher) Info(hash string) (HashInfo, error) {
	if d, ok := DetectDriver(hash); !ok || d != DriverBcrypt {
		return HashInfo{}, fmt.Errorf("%w: not a bcrypt hash", ErrAlgorithmMismatch)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return HashInfo{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return HashInfo{
		Driver: DriverBcrypt,
		Params: map[string]any{"cost": cost},
	}, nil
}

// ValidBcryptEncoding reports whether hash has a bcrypt prefix, the standard
// encoded length and a readable cost.
func ValidBcryptEncoding(hash string) bool {
	if d, ok := DetectDriver(hash); !ok || d != DriverBcrypt {
		return false
	}
	if len(hash) != BcryptEncodedLen {
		return false
	}
	_, err := bcrypt.Cost([]byte(hash))
	return err == nil
}
