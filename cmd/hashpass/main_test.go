package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/hashpass/hashing"
	"github.com/hasbyte1/hashpass/internal/prompt"
)

// stdinFile returns a regular file holding input, standing in for a
// non-interactive stdin.
func stdinFile(t *testing.T, input string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func runCmd(t *testing.T, input string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, stdinFile(t, input), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_ExportsWithFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, out, _ := runCmd(t, "Str0ngP@ssw0rd!\ny\n", "-cost", "4", "-o", "admin.hash")
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(filepath.Join(dir, "admin.hash"))
	require.NoError(t, err)
	hash := strings.TrimSuffix(string(data), "\n")
	assert.True(t, hashing.ValidBcryptEncoding(hash))
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Str0ngP@ssw0rd!")))
	assert.Contains(t, out, hash)
	assert.NotContains(t, out, "Str0ngP@ssw0rd!")
}

func TestRun_EchoWarningStaysOffStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, stderr := runCmd(t, "hunter2\nn\n", "-cost", "4")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, prompt.EchoWarning)
	assert.NotContains(t, out, prompt.EchoWarning)
}

func TestRun_Argon2idFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := "driver: argon2id\nargon2id:\n  memory: 64\n  time: 1\n  threads: 1\n"
	require.NoError(t, os.WriteFile("hashpass.yaml", []byte(cfg), 0o600))

	code, out, _ := runCmd(t, "secret\nn\n", "-config", "hashpass.yaml")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "$argon2id$v=19$m=64,t=1,p=1$")
	assert.NoFileExists(t, "hashed_password.txt")
}

func TestRun_EmptyPasswordExitsCleanly(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, _ := runCmd(t, "\n", "-cost", "4")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Password cannot be empty")
}

func TestRun_EndOfInputIsCancellation(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, _ := runCmd(t, "", "-cost", "4")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Operation cancelled by user.")
}

func TestRun_OverlongPasswordFails(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, stderr := runCmd(t, strings.Repeat("p", 73)+"\n", "-cost", "4")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out, "Failed to hash the password")
	assert.Contains(t, stderr, "no hash produced")
}

func TestRun_DebugLogsGoToStderr(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, stderr := runCmd(t, "hunter2\nn\n", "-cost", "4", "-log-level", "debug")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "hash computed")
	assert.Contains(t, stderr, "cost=4")
	assert.NotContains(t, stderr, "hunter2")
	assert.NotContains(t, out, "level=")
}

func TestRun_UsageErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":      {"-bogus"},
		"positional arg":    {"extra"},
		"bad driver":        {"-driver", "md5"},
		"cost out of range": {"-cost", "40"},
		"missing config":    {"-config", "/nonexistent/hashpass.yaml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, out, stderr := runCmd(t, "pw\n", args...)
			assert.Equal(t, exitUsage, code)
			assert.NotEmpty(t, stderr)
			assert.Empty(t, out)
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCmd(t, "", "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "-driver")
}
