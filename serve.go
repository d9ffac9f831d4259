package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "github.com/Keoroanthony/go-inventory/configs"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/db"
	"github.com/Keoroanthony/go-inventory/internal/handlers"
	"github.com/Keoroanthony/go-inventory/internal/metrics"
	"github.com/Keoroanthony/go-inventory/internal/notifier"
	"github.com/Keoroanthony/go-inventory/internal/services"
	"github.com/Keoroanthony/go-inventory/internal/store"
	"github.com/Keoroanthony/go-inventory/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until SIGINT or SIGTERM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	tp, err := tracing.Setup(cfg.Tracing, cfg.Log.Service, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer_shutdown_error", zap.Error(err))
		}
	}()

	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	st := store.New(gdb)

	sinks, closeSinks, err := buildSinks(ctx, cfg.Notify, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	dispatcher := notifier.NewDispatcher(log, cfg.Notify.QueueSize, cfg.Notify.Timeout, sinks...)
	dispatcher.Start()

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := auth.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	h := handlers.New(handlers.Options{
		Customers:    services.NewCustomerService(st, auth.NewPasswordHasher(cfg.Auth.BcryptCost)),
		Items:        services.NewItemService(st),
		Orders:       services.NewOrderService(st, dispatcher, m, cfg.Orders.LockTimeout),
		Tokens:       tokens,
		Admin:        auth.AdminCredentials{Username: cfg.Auth.AdminUsername, Password: cfg.Auth.AdminPassword},
		TokenTTL:     cfg.Auth.TokenTTL,
		CookieSecure: cfg.Auth.CookieSecure,
		Ping:         st.Ping,
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.NewRouter(h, log, m, cfg.RateLimit),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http_server_start", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("http_server_error", zap.Error(runErr))
		}
	}

	// Deferred closers run after this tail: the dispatcher drains before the
	// sinks and the database go away.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		log.Info("http_server_stopped")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("notifier_stop_timeout", zap.Error(err))
	}
	return runErr
}

// buildSinks creates the enabled notification sinks. The returned func
// releases broker connections.
func buildSinks(ctx context.Context, cfg config.NotifyConfig, log *zap.Logger) ([]notifier.Sink, func(), error) {
	var (
		sinks   []notifier.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if cfg.Log {
		sinks = append(sinks, notifier.NewLogSink(log))
	}
	if cfg.AMQP.Enabled {
		broker, err := notifier.NewAMQPSink(cfg.AMQP)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, broker)
		closers = append(closers, broker.Close)
	}
	if cfg.Email.Enabled {
		email, err := notifier.NewEmailSink(ctx, cfg.Email)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, email)
	}
	if cfg.Webhook.Enabled {
		webhook, err := notifier.NewWebhookSink(cfg.Webhook, nil)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, webhook)
	}
	return sinks, closeAll, nil
}
