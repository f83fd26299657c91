package hashing

import "strings"

// DriverName identifies a hashing algorithm.
type DriverName string

const (
	// DriverBcrypt selects [BcryptHasher].
	DriverBcrypt DriverName = "bcrypt"
	// DriverArgon2id selects [Argon2idHasher].
	DriverArgon2id DriverName = "argon2id"
)

// Hasher is implemented by every password-hashing driver.
//
// Callers depend on the interface, not on a concrete driver, so the
// algorithm can be chosen at run time from a flag or config file.
//
// # Thread safety
//
// Implementations must be safe for concurrent use by multiple goroutines.
// Both built-in drivers are immutable after construction.
//
// # Password bytes
//
// The password is taken as []byte and hashed exactly as given. Drivers
// must not normalise, trim or re-encode it.
type Hasher interface {
	// Make hashes password with a freshly generated salt and returns the
	// self-describing encoded hash. Two calls with the same password return
	// different hashes.
	Make(password []byte) (string, error)

	// Check reports whether password matches hash. A mismatch is (false, nil);
	// an error means hash could not be read.
	Check(password []byte, hash string) (bool, error)

	// Info extracts the parameters encoded in hash without verifying it.
	Info(hash string) (HashInfo, error)

	// Driver returns the name of the algorithm.
	Driver() DriverName
}

// HashInfo carries metadata parsed from an encoded hash.
type HashInfo struct {
	// Driver is the algorithm that produced the hash.
	Driver DriverName

	// Params holds the algorithm-specific parameters read from the hash.
	//
	// For bcrypt:
	//   - "cost" → int
	//
	// For Argon2id:
	//   - "version" → int (Argon2 version, 19)
	//   - "memory"  → uint32 (KiB)
	//   - "time"    → uint32 (iterations)
	//   - "threads" → uint8 (degree of parallelism)
	//   - "key_len" → uint32 (derived key length in bytes)
	Params map[string]any
}

// DetectDriver guesses the driver that produced hash from its prefix. It does
// not validate the rest of the string.
//
// The second return value is false when the prefix is not recognised.
func DetectDriver(hash string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return DriverArgon2id, true
	case strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2y$"):
		return DriverBcrypt, true
	default:
		return "", false
	}
}
