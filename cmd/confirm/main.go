package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arar/internal/confirm"
	"arar/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL  string
		interval time.Duration
		attempts int
		timeout  time.Duration
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "confirm SESSION_ID",
		Short: "Resolve a checkout confirmation against a running storefront",
		Long: `Polls GET /api/checkout/status/{session_id} the way the confirmation
page does and prints every phase change. Exits non-zero only when the
session expired.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := "production"
			if verbose {
				env = "development"
			}
			log, err := logging.New(env)
			if err != nil {
				return err
			}
			defer log.Sync()

			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			p := confirm.NewPoller(confirm.NewClient(baseURL, timeout), log)
			p.Interval = interval
			p.MaxAttempts = attempts

			final := p.Run(cmd.Context(), sessionID, func(s confirm.State) {
				fmt.Fprintf(out, "%-10s attempt=%d/%d shown=%s ref=%s\n",
					s.Phase, s.Attempt, s.MaxAttempts, s.Phase.Display(), s.OrderReference)
			})
			log.Debug("confirmation finished", zap.String("phase", string(final.Phase)))
			if !final.Done() {
				return cmd.Context().Err()
			}
			if final.Phase == confirm.PhaseExpired {
				return fmt.Errorf("checkout session %s expired", sessionID)
			}
			return nil
		},
	}
	cmd.SilenceUsage = true
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8001", "Storefront backend base URL")
	cmd.Flags().DurationVar(&interval, "interval", confirm.DefaultInterval, "Delay between status queries")
	cmd.Flags().IntVar(&attempts, "attempts", confirm.DefaultMaxAttempts, "Status queries before giving up")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request HTTP timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every query")
	return cmd
}
