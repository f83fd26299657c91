// Command hashpass prompts for a password, prints its salted adaptive hash
// and optionally writes the hash to a file.
//
// Usage:
//
//	hashpass [-config file.yaml] [-driver bcrypt|argon2id] [-cost n] [-o path] [-log-level level]
//
// With no arguments it hashes with bcrypt at cost 12 and offers to export to
// hashed_password.txt in the current directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hasbyte1/hashpass/hashing"
	"github.com/hasbyte1/hashpass/internal/cli"
	"github.com/hasbyte1/hashpass/internal/config"
	"github.com/hasbyte1/hashpass/internal/prompt"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hashpass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a YAML config file")
		driver     = fs.String("driver", "", "hashing algorithm: bcrypt or argon2id (default bcrypt)")
		cost       = fs.Int("cost", 0, "bcrypt work factor, 4-31 (default 12)")
		output     = fs.String("o", "", "export file path (default hashed_password.txt)")
		logLevel   = fs.String("log-level", "", "diagnostic log level on stderr: debug, info, warn, error (default warn)")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "hashpass: unexpected arguments %q\n", fs.Args())
		fs.Usage()
		return exitUsage
	}

	// Only explicitly set flags override the config file.
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			overrides["driver"] = *driver
		case "cost":
			overrides["bcrypt.cost"] = *cost
		case "o":
			overrides["output"] = *output
		case "log-level":
			overrides["log_level"] = *logLevel
		}
	})

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "hashpass: %v\n", err)
		return exitUsage
	}
	log := newLogger(stderr, cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"config": *configPath,
		"driver": cfg.Driver,
		"output": cfg.Output,
	}).Debug("configuration resolved")

	registry, err := hashing.NewDefaultRegistry(cfg.BcryptOptions(), cfg.Argon2Options())
	if err != nil {
		fmt.Fprintf(stderr, "hashpass: %v\n", err)
		return exitUsage
	}
	hasher, err := registry.Lookup(hashing.DriverName(cfg.Driver))
	if err != nil {
		fmt.Fprintf(stderr, "hashpass: %v (available: %v)\n", err, registry.Names())
		return exitUsage
	}

	p := prompt.New(stdin, stdout,
		prompt.WithTerminal(int(stdin.Fd())),
		prompt.WithDiagnostics(stderr),
	)
	app, err := cli.New(cli.Options{
		Out:      stdout,
		Prompter: p,
		Hasher:   hasher,
		Output:   cfg.Output,
		Logger:   log,
	})
	if err != nil {
		fmt.Fprintf(stderr, "hashpass: %v\n", err)
		return exitFailed
	}

	outcome, err := app.Run(ctx)
	log.WithField("outcome", outcome).Debug("finished")
	if err != nil {
		log.WithError(err).Error("no hash produced")
		return exitFailed
	}
	return exitOK
}

func newLogger(w io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}
