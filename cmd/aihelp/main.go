package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/aihelp/internal/infrastructure/cli"
)

func main() {
	// .env must be loaded before anything reads the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, container, err := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose(os.Args[1:], os.Getenv)})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	container.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isVerbose is decided before flag parsing because the logger is built first.
// It reads --debug the way the flag parser will: the last occurrence wins and
// --debug=<bool> is honoured. AIHELP_DEBUG applies when the flag is absent.
func isVerbose(args []string, getenv func(string) string) bool {
	verbose, seen := false, false
	for _, arg := range args {
		if arg == "--" {
			break
		}
		switch {
		case arg == "--debug":
			verbose, seen = true, true
		case strings.HasPrefix(arg, "--debug="):
			v, err := strconv.ParseBool(strings.TrimPrefix(arg, "--debug="))
			verbose, seen = err == nil && v, true
		}
	}
	if seen {
		return verbose
	}
	v, err := strconv.ParseBool(getenv("AIHELP_DEBUG"))
	return err == nil && v
}
