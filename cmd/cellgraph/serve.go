package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conterra/cellgraph/pkg/cell"
	"github.com/conterra/cellgraph/pkg/inspect"
	"github.com/conterra/cellgraph/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graph stats and Prometheus metrics over HTTP",
		Long: `Starts an HTTP server exposing /statz, /metrics, and /healthz,
and drives a small demo graph so the counters move.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	metrics.Register()

	// A clock cell keeps the counters moving so the endpoints show live data.
	clock := cell.New(time.Now())
	second := cell.Derive(func() int { return clock.Get().Second() })
	w := cell.Watch(func() { _ = second.Get() })
	defer w.Destroy()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case t := <-ticker.C:
				clock.Set(t)
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	srv := &http.Server{
		Addr:    addr,
		Handler: inspect.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
