package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/toastd/internal/archive"
	"github.com/vango-dev/toastd/internal/config"
	"github.com/vango-dev/toastd/internal/relay"
	"github.com/vango-dev/toastd/pkg/middleware"
	"github.com/vango-dev/toastd/pkg/server"
	"github.com/vango-dev/toastd/pkg/toast"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notification server",
		Long: `Run the HTTP/WebSocket server.

Configuration is read from toastd.json (or --config) and then
overridden by TOASTD_* environment variables, including any set in .env.

Examples:
  toastd serve
  toastd serve --config /etc/toastd.json
  TOASTD_SERVER_ADDRESS=:9000 toastd serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to toastd.json")

	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if cfg.Path() != "" {
		logger.Info("config loaded", "path", cfg.Path())
	}

	center := toast.Init(cfg.ToastConfig(), toast.WithLogger(logger.With("component", "toast")))

	down := &shutdown{timeout: cfg.ShutdownTimeout(), logger: logger}
	defer down.run(toast.Teardown)

	var opts []server.Option
	opts = append(opts, server.WithLogger(logger))

	if cfg.Tracing.Enabled {
		opts = append(opts, server.WithMiddleware(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != cfg.Metrics.Path
			}),
		)))
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.NewMetrics(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		down.unsubscribe = append(down.unsubscribe, center.Subscribe(m))
		opts = append(opts,
			server.WithMiddleware(m.Handler),
			server.WithMetricsHandler(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
	}

	if cfg.Archive.Bucket != "" {
		a, err := startArchive(ctx, cfg, logger)
		if err != nil {
			return err
		}
		down.archive = a
		down.unsubscribe = append(down.unsubscribe, center.Subscribe(a))
	}

	if cfg.Relay.RedisURL != "" {
		client, err := relay.Connect(ctx, cfg.Relay.RedisURL, 3, 2*time.Second)
		if err != nil {
			return err
		}
		defer client.Close()

		rl := relay.New(client, cfg.Relay.Channel, center, relay.WithLogger(logger))
		go func() {
			if err := rl.Run(ctx); err != nil {
				logger.Error("relay stopped", "error", err)
			}
		}()
	}

	srv := server.New(center, &server.Config{
		Address:         cfg.Server.Address,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, opts...)

	return srv.Run(ctx)
}

// shutdown stops what runServe started. The center closes first so its
// shutdown removals still reach the observers, then the observers are
// released and the archive is flushed.
type shutdown struct {
	unsubscribe []func()
	archive     *archive.Archiver
	timeout     time.Duration
	logger      *slog.Logger
}

func (s *shutdown) run(closeCenter func()) {
	closeCenter()
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.archive.Close(ctx); err != nil {
		s.logger.Error("archive close failed", "error", err)
	}
}

func startArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*archive.Archiver, error) {
	client, err := archive.NewS3Client(ctx, archive.S3Config{
		Region:         cfg.Archive.Region,
		Endpoint:       cfg.Archive.Endpoint,
		AccessKeyID:    cfg.Archive.AccessKeyID,
		SecretKey:      cfg.Archive.SecretAccessKey,
		ForcePathStyle: cfg.Archive.ForcePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return archive.New(client, archive.Config{
		Bucket:        cfg.Archive.Bucket,
		Prefix:        cfg.Archive.Prefix,
		BatchSize:     cfg.Archive.BatchSize,
		FlushInterval: cfg.FlushInterval(),
		QueueSize:     cfg.Archive.QueueSize,
	}, archive.WithLogger(logger))
}
