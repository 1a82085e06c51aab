package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/statekit-go/statekit/internal/config"
	"github.com/statekit-go/statekit/internal/errors"
	"github.com/statekit-go/statekit/pkg/devtools"
	"github.com/statekit-go/statekit/pkg/middleware"
	"github.com/statekit-go/statekit/pkg/statekit"
)

func demoCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a demo registry with a live devtools server",
		Long: `Run a demo registry and serve its state over HTTP.

The demo registers a counter and a todo list, updates them on a
ticker, and exposes:

  • GET /api/models       model ids
  • GET /api/models/{id}  one model's committed state
  • GET /api/snapshot     all state, restorable via re-registration
  • GET /metrics          Prometheus metrics
  • GET /ws               websocket change feed

Examples:
  statekit demo
  statekit demo --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (default from statekit.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from statekit.json)")

	return cmd
}

// todoState is the demo todo list model.
type todoState struct {
	Items []string `json:"items"`
	Done  int      `json:"done"`
}

func runDemo(port int, host string) error {
	// Use the project config when present, defaults otherwise.
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		cfg = config.New()
	}
	if port > 0 {
		cfg.Devtools.Port = port
	}
	if host != "" {
		cfg.Devtools.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	reg := statekit.New(
		statekit.WithLogger(logger),
		statekit.WithMiddleware(
			middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)),
			middleware.OpenTelemetry(),
		),
	)

	counter := statekit.MustRegister(reg, "counter", 0)
	todos := statekit.MustRegister(reg, "todos", todoState{})

	unsub, err := reg.OnChange("counter", func(cur, prev any) {
		logger.Info("counter changed", "current", cur, "previous", prev)
	})
	if err != nil {
		return err
	}
	defer unsub()

	srv := devtools.NewServer(reg, devtools.WithLogger(logger))
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.DevtoolsAddress(),
		Handler: srv.Handler(),
	}

	printBanner()
	fmt.Println("  demo")
	fmt.Println()
	success("Devtools server on %s", cfg.DevtoolsURL())
	info("Press Ctrl+C to stop")
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.New("E301").Wrap(err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go driveDemo(ctx, counter, todos)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\n\n  Shutting down...")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

// driveDemo mutates the demo models on a ticker until ctx is canceled.
func driveDemo(ctx context.Context, counter *statekit.Handle[int], todos *statekit.Handle[todoState]) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n++
		_ = counter.Update(func(draft *int, ctx *statekit.Ctx) error {
			*draft++
			ctx.Notify()
			return nil
		})

		item := fmt.Sprintf("task %d", n)
		_ = todos.Update(func(draft *todoState, ctx *statekit.Ctx) error {
			draft.Items = append(draft.Items, item)
			if len(draft.Items) > 5 {
				draft.Items = draft.Items[1:]
				draft.Done++
			}
			ctx.Notify()
			return nil
		})
	}
}
