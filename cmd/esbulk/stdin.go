package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-esbulk/pkg/source"
)

func newStdinCommand(cfgPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "stdin",
		Short: "Index newline-delimited JSON records from stdin or a file",
		Example: `  cat records.ndjson | esbulk stdin -c esbulk.yaml
  esbulk stdin --file records.ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var in io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return errors.Wrap(err, "open input")
				}
				defer f.Close()
				in = f
			}

			a, err := bootstrap(ctx, *cfgPath)
			if err != nil {
				return err
			}

			return a.run(ctx, func(ctx context.Context) error {
				n, err := source.ReadNDJSON(ctx, in, a.writer)
				a.logger.Info("input drained", zap.Int("records", n))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read records from file instead of stdin")

	return cmd
}
