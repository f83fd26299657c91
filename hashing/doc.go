// Package hashing derives salted, adaptive password hashes.
//
// The central abstraction is the [Hasher] interface. Two drivers ship with
// this package:
//
//   - [BcryptHasher]: bcrypt, Modular Crypt Format output ("$2a$12$...").
//   - [Argon2idHasher]: Argon2id, PHC string output ("$argon2id$v=19$...").
//
// A [Registry] maps [DriverName] values to hashers so a caller can select
// a driver by name (from a flag or a config file) and verify any hash it
// produced without knowing in advance which driver made it.
//
// # Quick start
//
//	h, err := hashing.NewBcryptHasher(hashing.DefaultBcryptOptions())
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := h.Make([]byte("my-secret-password"))
//	ok, _ := h.Check([]byte("my-secret-password"), hash) // true
//
// # Input length
//
// bcrypt only ever reads the first 72 bytes of its input. Rather than hashing
// a silently truncated password, [BcryptHasher.Make] rejects longer input with
// [ErrPasswordTooLong]. Use [Argon2idHasher] when longer passwords must be
// accepted.
//
// Passwords are hashed byte-for-byte: no Unicode normalisation, trimming or
// re-encoding is applied.
package hashing
