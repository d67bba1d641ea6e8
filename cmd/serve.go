package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/server"
)

type serveRunner struct {
	app  *app.App
	addr string
}

func NewServeCmd(application *app.App) *cobra.Command {
	runner := &serveRunner{app: application}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server, the metrics endpoint and the notification
dispatcher until interrupted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Run()
		},
	}

	cmd.Flags().StringVar(&runner.addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (r *serveRunner) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := r.addr
	if addr == "" {
		addr = r.app.Config.Server.Addr
	}

	if r.app.Metrics != nil {
		metricsServer := r.app.Metrics.StartServer(r.app.Config.Metrics.Addr)
		defer metricsServer.Close()
		pterm.Info.Printf("Metrics listening on %s\n", r.app.Config.Metrics.Addr)
	}

	if r.app.Dispatcher != nil {
		r.app.Dispatcher.Start(ctx)
		pterm.Info.Println("Notification dispatcher started")
	}

	api := server.New(r.app.Service, r.app.Engine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- api.Listen(addr)
	}()

	pterm.Success.Printf("bankd listening on %s\n", addr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
		pterm.Info.Println("Shutting down...")
		if err := api.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
