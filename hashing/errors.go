package hashing

import "errors"

// Sentinel errors returned by hashing operations. Compare with [errors.Is].
var (
	// ErrInvalidHash is returned when a hash string cannot be parsed.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrInvalidOption is returned by constructors given an out-of-range
	// parameter, e.g. a bcrypt cost above 31.
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrUnknownDriver is returned by [Registry.Lookup] and [Registry.Verify]
	// when no hasher is registered under the requested name.
	ErrUnknownDriver = errors.New("hashing: unknown driver")

	// ErrNilHasher is returned by [Registry.Register] for a nil [Hasher].
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrAlgorithmMismatch is returned when a hash was produced by a
	// different algorithm than the hasher asked to read it.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different algorithm")

	// ErrPasswordTooLong is returned by [BcryptHasher.Make] when the password
	// exceeds [MaxBcryptPasswordLen] bytes.
	ErrPasswordTooLong = errors.New("hashing: password too long")
)
