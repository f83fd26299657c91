// Package export writes a hash to a text file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is used when no output path is given.
const DefaultFilename = "hashed_password.txt"

// FileMode is the permission used when the output file is created.
const FileMode os.FileMode = 0o600

// WriteError reports a failure to persist a hash. Err is the underlying
// OS error, so errors.Is(err, fs.ErrPermission) works through it.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("export: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ToFile creates or truncates path and writes hash followed by a single
// newline. It returns the absolute path of the written file. The file is
// closed on every return path; a failed close is reported as a *WriteError.
func ToFile(hash, path string) (abs string, err error) {
	if path == "" {
		path = DefaultFilename
	}
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", &WriteError{Op: "resolve", Path: path, Err: err}
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return "", &WriteError{Op: "open", Path: abs, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			abs, err = "", &WriteError{Op: "close", Path: abs, Err: cerr}
		}
	}()

	if _, err = f.WriteString(hash + "\n"); err != nil {
		return "", &WriteError{Op: "write", Path: abs, Err: err}
	}
	return abs, nil
}
