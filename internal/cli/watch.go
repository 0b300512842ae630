package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/buildinfo"
	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/httputil"
	"github.com/fleetingdev/fleeting/pkg/integrations"
	"github.com/fleetingdev/fleeting/pkg/refresh"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		every     time.Duration
		immediate bool
	)
	cmd := &cobra.Command{
		Use:   "watch <url>",
		Short: "Re-fetch a URL on an interval and print each response",
		Example: `  fleeting watch http://localhost:5000/status --every 30s
  fleeting watch https://example.com/fragment --every 1m --immediate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateURL(args[0]); err != nil {
				return err
			}
			gh := c.cfg.GitHub
			client := integrations.NewClient(integrations.Options{
				Headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
				Timeout:  gh.timeout(),
				Attempts: gh.Retries,
				Gate:     httputil.NewGate(gh.RequestsPerSecond),
			})
			poller := &refresh.Poller{
				URL:       args[0],
				Interval:  every,
				Client:    client,
				Sink:      refreshPrinter(cmd.OutOrStdout(), time.Now),
				Immediate: immediate,
				Logger:    loggerFromContext(cmd.Context()),
			}
			printInfo("Watching %s every %s", StyleHighlight.Render(args[0]), every)
			return poller.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&every, "every", 30*time.Second, "refresh interval")
	cmd.Flags().BoolVar(&immediate, "immediate", false, "fetch once before the first interval elapses")
	return cmd
}

// refreshPrinter returns a sink writing each body under a timestamp header.
func refreshPrinter(w io.Writer, now func() time.Time) refresh.Sink {
	return func(body string) {
		fmt.Fprintln(w, StyleDim.Render("── "+now().Format("15:04:05")+" ──"))
		fmt.Fprintln(w, body)
	}
}
