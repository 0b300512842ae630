package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fleetingdev/fleeting/internal/cli"
	ferrors "github.com/fleetingdev/fleeting/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != 130 {
			fmt.Fprintln(os.Stderr, "Error:", ferrors.UserMessage(err))
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	err := root.ExecuteContext(ctx)
	if cerr := c.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("flush telemetry: %w", cerr)
	}
	return err
}

// exitCode maps err to the process exit status: 130 on interrupt, 2 for
// invalid input or configuration, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	case strings.HasPrefix(string(ferrors.GetCode(err)), "INVALID_"):
		return 2
	default:
		return 1
	}
}
