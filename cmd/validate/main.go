// File: cmd/validate/main.go
//
// validate checks a JSON file of candidate subscriptions offline and prints
// one result line per record. Exit status is 0 when every record is valid,
// 1 when any record is rejected and 2 on usage or input errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/domain/validation"
	"subscription-tracker/internal/infra/api"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/usecase"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "-", "JSON file with one subscription object or an array of them (- for stdin)")
	nowFlag := fs.String("now", "", "evaluate temporal rules at this RFC3339 instant instead of the current time")
	workers := fs.Int("workers", 4, "number of validation workers")
	verbose := fs.Bool("v", false, "log batch progress to stderr")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	lvl := "warn"
	if *verbose {
		lvl = "debug"
	}
	logger := logging.NewWithWriter(stderr, config.LogConfig{Level: lvl, Format: "console"}, false)

	var opts []validation.Option
	if *nowFlag != "" {
		now, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -now %q: %v\n", *nowFlag, err)
			return exitUsage
		}
		opts = append(opts, validation.WithClock(func() time.Time { return now }))
	}

	raw, err := readInput(*inPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return exitUsage
	}
	records, err := api.SplitRecords(raw)
	if err != nil {
		fmt.Fprintf(stderr, "parse input: %v\n", err)
		return exitUsage
	}

	// Offline: no repository or transaction manager is needed for validation.
	uc := usecase.NewSubscriptionUseCase(nil, nil, validation.New(opts...), logger)
	items := api.ValidateRecords(ctx, uc, records, *workers)

	code := exitOK
	enc := json.NewEncoder(stdout)
	for _, r := range items {
		if !r.Valid {
			code = exitInvalid
		}
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(stderr, "write output: %v\n", err)
			return exitUsage
		}
	}
	return code
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
