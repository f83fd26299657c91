// Package cli runs the interactive hash-generation flow:
//
//	AwaitingPassword -> Hashing -> DisplayingResult -> AwaitingExportChoice -> {Exporting | Done}
//
// with EarlyExit on an empty password and Cancelled on interrupt.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/hashpass/hashing"
	"github.com/hasbyte1/hashpass/internal/export"
	"github.com/hasbyte1/hashpass/internal/prompt"
)

// Prompts shown to the user.
const (
	PasswordPrompt = "Enter the password you want to hash: "
	ExportPrompt   = "\n💾 Do you want to export this hash to a text file? (y/n): "
)

// Outcome is the terminal state of a run.
type Outcome int

const (
	OutcomeDone         Outcome = iota // hash shown, export declined
	OutcomeExported                    // hash shown and written to a file
	OutcomeExportFailed                // hash shown, writing the file failed
	OutcomeEarlyExit                   // empty password, nothing hashed
	OutcomeCancelled                   // interrupted
	OutcomeFailed                      // hashing or input failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeExported:
		return "exported"
	case OutcomeExportFailed:
		return "export_failed"
	case OutcomeEarlyExit:
		return "early_exit"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Prompter reads user input. *prompt.Prompter implements it.
type Prompter interface {
	Password(ctx context.Context, label string) ([]byte, error)
	Confirm(ctx context.Context, question string) (bool, error)
}

// ExportFunc writes hash to path and returns the absolute path written.
type ExportFunc func(hash, path string) (string, error)

// Options wires an App. Out, Prompter and Hasher are required.
type Options struct {
	Out      io.Writer
	Prompter Prompter
	Hasher   hashing.Hasher
	Export   ExportFunc         // defaults to export.ToFile
	Output   string             // defaults to export.DefaultFilename
	Logger   logrus.FieldLogger // defaults to a discarding logger
}

// App runs one pass of the flow.
type App struct {
	out    io.Writer
	prompt Prompter
	hasher hashing.Hasher
	export ExportFunc
	output string
	log    logrus.FieldLogger
}

// New validates opts and returns an App.
func New(opts Options) (*App, error) {
	switch {
	case opts.Out == nil:
		return nil, errors.New("cli: nil output writer")
	case opts.Prompter == nil:
		return nil, errors.New("cli: nil prompter")
	case opts.Hasher == nil:
		return nil, errors.New("cli: nil hasher")
	}
	a := &App{
		out:    opts.Out,
		prompt: opts.Prompter,
		hasher: opts.Hasher,
		export: opts.Export,
		output: opts.Output,
		log:    opts.Logger,
	}
	if a.export == nil {
		a.export = export.ToFile
	}
	if a.output == "" {
		a.output = export.DefaultFilename
	}
	if a.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		a.log = l
	}
	return a, nil
}

// Run executes the flow once. Every expected ending, including an empty
// password, an interrupt and a failed export, is reported on the output
// writer and returned as an Outcome with a nil error. An error is returned
// only when no hash could be produced.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	fmt.Fprintf(a.out, "🔐 %s Password Hash Generator\n\n", driverTitle(a.hasher.Driver()))

	pw, err := a.prompt.Password(ctx, PasswordPrompt)
	switch {
	case errors.Is(err, prompt.ErrEmptyInput):
		fmt.Fprintln(a.out, "⚠️ Password cannot be empty. Exiting.")
		a.log.Debug("empty password, nothing to hash")
		return OutcomeEarlyExit, nil
	case errors.Is(err, prompt.ErrCancelled):
		return a.cancelled("password"), nil
	case err != nil:
		fmt.Fprintf(a.out, "\n❌ Failed to read the password: %v\n", err)
		return OutcomeFailed, fmt.Errorf("cli: read password: %w", err)
	}

	start := time.Now()
	hash, err := a.hasher.Make(pw)
	clear(pw)
	if err != nil {
		fmt.Fprintf(a.out, "\n❌ Failed to hash the password: %v\n", err)
		return OutcomeFailed, fmt.Errorf("cli: hash password: %w", err)
	}
	if ctx.Err() != nil {
		return a.cancelled("hashing"), nil
	}
	a.logHash(hash, time.Since(start))

	fmt.Fprintf(a.out, "\n🔑 Your %s hashed password:\n\n", a.hasher.Driver())
	fmt.Fprintln(a.out, hash)

	yes, err := a.prompt.Confirm(ctx, ExportPrompt)
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		return a.cancelled("export choice"), nil
	case err != nil:
		fmt.Fprintf(a.out, "\n❌ Failed to read the answer: %v\n", err)
		return OutcomeFailed, fmt.Errorf("cli: read export choice: %w", err)
	case !yes:
		fmt.Fprintln(a.out, "\n✅ No file created. You're all set!")
		return OutcomeDone, nil
	}

	path, err := a.export(hash, a.output)
	if err != nil {
		fmt.Fprintf(a.out, "\n❌ Failed to save the file: %v\n", err)
		a.log.WithError(err).WithField("path", a.output).Warn("export failed")
		return OutcomeExportFailed, nil
	}
	fmt.Fprintf(a.out, "\n✅ Hash successfully saved to: %s\n", path)
	a.log.WithField("path", path).Info("hash exported")
	return OutcomeExported, nil
}

func (a *App) cancelled(stage string) Outcome {
	fmt.Fprintln(a.out, "\n⛔ Operation cancelled by user.")
	a.log.WithField("stage", stage).Info("cancelled")
	return OutcomeCancelled
}

func (a *App) logHash(hash string, took time.Duration) {
	fields := logrus.Fields{
		"driver":   a.hasher.Driver(),
		"duration": took.Round(time.Millisecond),
	}
	info, err := a.hasher.Info(hash)
	if err != nil {
		a.log.WithError(err).Warn("cannot read back generated hash")
		return
	}
	for k, v := range info.Params {
		fields[k] = v
	}
	a.log.WithFields(fields).Debug("hash computed")
}

func driverTitle(d hashing.DriverName) string {
	switch d {
	case hashing.DriverBcrypt:
		return "Bcrypt"
	case hashing.DriverArgon2id:
		return "Argon2id"
	default:
		return string(d)
	}
}
