package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/server"
	"github.com/mesh-intelligence/storefront/pkg/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the product API over HTTP",
		Long: "Serve attaches the SQLite backend in the data directory and exposes\n" +
			"/products, /healthz and /metrics until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.config.GetString(cfgKeyListen)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, cmd, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: "+defaultListen+")")
	return cmd
}

func (a *app) runServe(ctx context.Context, cmd *cobra.Command, listen string) error {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}

	cupboard, err := sqlite.Open(dataDir)
	if err != nil {
		return sysError("attach backend: %w", err)
	}
	defer cupboard.Detach()

	table, err := cupboard.GetTable(types.TableProducts)
	if err != nil {
		return sysError("get products table: %w", err)
	}

	l, err := net.Listen("tcp", listen)
	if err != nil {
		return userError("listen on %s: %w", listen, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", dataDir, l.Addr())
	a.logger.Info("serve", zap.String("data_dir", dataDir), zap.String("addr", l.Addr().String()))

	if err := server.New(table, a.logger).Run(ctx, l); err != nil {
		return sysError("%w", err)
	}
	return nil
}
