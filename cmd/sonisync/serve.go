package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/sonisync"
	sonihttp "github.com/aretw0/sonisync/pkg/adapters/http"
	"github.com/aretw0/sonisync/pkg/adapters/memory"
	redisadapter "github.com/aretw0/sonisync/pkg/adapters/redis"
	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/observability"
	"github.com/aretw0/sonisync/pkg/persistence/middleware"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/aretw0/sonisync/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chart host",
	Long: `Hosts charts in memory behind a JSON API. Every request drives the chart
through its lifecycle hooks and responds with the engine operations it caused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Addr = addr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engines := memory.NewFactory()
		pluginOpts := []sonisync.Option{
			sonisync.WithEngineFactory(engines.New),
			sonisync.WithLogger(logger),
			sonisync.WithAppend(cfg.Append),
			sonisync.WithLifecycleHooks(metrics.Hooks()),
			sonisync.WithLifecycleHooks(observability.LogHooks(logger)),
		}
		serial := session.NewSerializer(session.WithLogger(logger))
		var apiOpts []sonihttp.Option

		if cfg.Redis.Addr != "" {
			store := redisadapter.New(cfg.Redis.Addr, redisadapter.WithPrefix(cfg.Redis.Prefix), redisadapter.WithTTL(cfg.Redis.TTL))
			defer store.Client().Close()
			if err := store.Client().Ping(cmd.Context()).Err(); err != nil {
				return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
			}
			snapshots, err := decorate(store, cfg.Redis)
			if err != nil {
				return err
			}
			pluginOpts = append(pluginOpts, sonisync.WithSnapshotStore(snapshots))
			apiOpts = append(apiOpts, sonihttp.WithSnapshotStore(snapshots))
			serial = session.NewSerializer(
				session.WithLogger(logger),
				session.WithLocker(redisadapter.NewLocker(store.Client(), cfg.Redis.Prefix)),
			)
			logger.Info("redis snapshot store enabled", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		}

		plugin := sonisync.New(pluginOpts...)
		api := sonihttp.NewServer(plugin, engines, append(apiOpts,
			sonihttp.WithSerializer(serial),
			sonihttp.WithLogger(logger),
			sonihttp.WithPluginOptions(config.Options{Lang: cfg.Lang}),
		)...)

		router := chi.NewRouter()
		router.Handle(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		router.Mount("/", api.Handler())

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting sonisync server", "addr", srv.Addr, "metrics", cfg.MetricsPath)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			logger.Info("sonisync server stopped")
			return nil
		}
	},
}

// decorate wraps the snapshot store with label masking and encryption at rest.
func decorate(store ports.SnapshotStore, cfg config.RedisConfig) (ports.SnapshotStore, error) {
	var mws []middleware.Middleware
	if len(cfg.MaskLabels) > 0 {
		mask, err := middleware.NewLabelMaskMiddleware(cfg.MaskLabels)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mask)
	}
	if cfg.EncryptionKey != "" {
		active, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("encryption_key: %w", err)
		}
		enc := middleware.EncryptionConfig{ActiveKey: active}
		for i, k := range cfg.FallbackKeys {
			key, err := base64.StdEncoding.DecodeString(k)
			if err != nil {
				return nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		encrypt, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, encrypt)
	}
	return middleware.Chain(store, mws...), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on; overrides the config file")
}
