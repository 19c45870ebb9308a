package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todo-ai/app/config"
	"todo-ai/app/controllers"
	"todo-ai/app/observability"
	"todo-ai/app/routes"
	"todo-ai/app/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd.Flags(), map[string]string{
				"server.host": "host",
				"server.port": "port",
				"log.level":   "log-level",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v, configPath)
		},
	}
	serveCmd.Flags().String("host", "", "listen host")
	serveCmd.Flags().Int("port", 0, "listen port")
	serveCmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")

	root := &cobra.Command{
		Use:          "todo-ai",
		Short:        "In-memory task list with prompt-driven task generation",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	root.AddCommand(serveCmd, &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownAll calls every Shutdown in order and joins their errors.
func shutdownAll(ctx context.Context, steps ...shutdowner) error {
	var errs []error
	for _, s := range steps {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// bindFlags binds viper keys to the named flags.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

func serve(ctx context.Context, v *viper.Viper, configPath string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		return err
	}

	// Initialize the service layer
	taskService := services.NewTaskService()
	expander := services.NewKeywordExpander(cfg.GenerateDelay)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.MustNewMetrics(registry, taskService.Count)

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskService, expander, metrics, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes.NewHandler(taskController, metrics, registry, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		// Spans are flushed even when the server does not drain cleanly.
		return shutdownAll(shutdownCtx, srv, tracing)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
