package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/hadeerens/ember-bloom-menu/internal/catalog"
	"github.com/hadeerens/ember-bloom-menu/internal/checkout"
	"github.com/hadeerens/ember-bloom-menu/internal/config"
	"github.com/hadeerens/ember-bloom-menu/internal/content"
	"github.com/hadeerens/ember-bloom-menu/internal/i18n"
	mw "github.com/hadeerens/ember-bloom-menu/internal/middleware"
	"github.com/hadeerens/ember-bloom-menu/internal/observability"
	"github.com/hadeerens/ember-bloom-menu/internal/secrets"
	"github.com/hadeerens/ember-bloom-menu/internal/waiter"
	"github.com/hadeerens/ember-bloom-menu/public"
)

// app bundles the long lived dependencies shared by every handler.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	catalog  *catalog.Catalog
	content  *content.Library
	checkout checkout.Formatter
	waiter   *waiter.Service
	metrics  *observability.Metrics
	sessions *mw.Sessions
	views    *views
}

func main() {
	var (
		envFile  string
		tmplPath string
	)
	flag.StringVar(&envFile, "env-file", ".env", "dotenv file, empty to disable")
	flag.StringVar(&tmplPath, "templates", "", "read templates from this directory and reparse on every request")
	flag.Parse()

	env, err := config.EnvironmentValues([]string{"MENU_ENV", "MENU_SECRETS_PROJECT", "MENU_SECRETS_FALLBACK_FILE"}, config.WithEnvFile(envFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read environment: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(strings.ToLower(env["MENU_ENV"]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := newSecretFetcher(ctx, logger, env)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithEnvFile(envFile),
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := run(ctx, cfg, logger, tmplPath); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, tmplPath string) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	notifier, closeNotifier, err := newWaiterNotifier(ctx, cfg.Waiter, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	a, err := newApp(cfg, logger, notifier, tmplPath)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(a),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("menu listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.Int("items", a.catalog.Len()),
			zap.Bool("dev_templates", tmplPath != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newSecretFetcher reads Secret Manager only when MENU_SECRETS_PROJECT is set;
// otherwise secret:// values come from the local fallback file.
func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithProject(env["MENU_SECRETS_PROJECT"]),
	}
	if path, ok := env["MENU_SECRETS_FALLBACK_FILE"]; ok {
		opts = append(opts, secrets.WithFallbackFile(path))
	}
	return secrets.NewFetcher(ctx, opts...)
}

// newApp loads the embedded menu, translations and content and wires the
// services around them.
func newApp(cfg config.Config, logger *zap.Logger, notifier waiter.Notifier, tmplPath string) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	if cfg.Menu.DefaultLang != "" && cfg.Menu.DefaultLang != bundle.Fallback() {
		bundle, err = i18n.LoadFS(i18n.Embedded(), "locales", cfg.Menu.DefaultLang, i18n.SupportedLangs)
		if err != nil {
			return nil, fmt.Errorf("load translations: %w", err)
		}
	}
	menu, err := catalog.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	pages, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	sessions, err := mw.NewSessions(mw.SessionOptions{
		CookieName: cfg.Session.CookieName,
		SigningKey: []byte(cfg.Session.SigningKey),
		Secure:     cfg.Session.Secure,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init sessions: %w", err)
	}
	v, err := newViews(tmplPath)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = waiter.NewLogNotifier(logger)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		bundle:  bundle,
		catalog: menu,
		content: pages,
		checkout: checkout.Formatter{
			BaseURL:    cfg.Checkout.WhatsAppBaseURL,
			Contact:    cfg.Checkout.WhatsAppContact,
			Translator: bundle,
		},
		waiter:   waiter.NewService(notifier, waiter.WithTimeout(cfg.Waiter.Timeout)),
		metrics:  observability.NewMetrics(),
		sessions: sessions,
		views:    v,
	}, nil
}

// newWaiterNotifier publishes to Pub/Sub when a project is configured and
// logs calls otherwise.
func newWaiterNotifier(ctx context.Context, cfg config.WaiterConfig, logger *zap.Logger) (waiter.Notifier, func(), error) {
	if cfg.PubSubProject == "" {
		logger.Info("waiter calls go to the application log")
		return waiter.NewLogNotifier(logger), func() {}, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSubProject)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub client: %w", err)
	}
	topic := client.Topic(cfg.PubSubTopic)
	notifier, err := waiter.NewPubSubNotifier(topic)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("waiter calls go to pubsub",
		zap.String("project", cfg.PubSubProject),
		zap.String("topic", cfg.PubSubTopic),
	)
	return notifier, func() {
		topic.Stop()
		if err := client.Close(); err != nil {
			logger.Warn("pubsub close failed", zap.Error(err))
		}
	}, nil
}

func assetsHandler() http.Handler {
	return mw.AssetsWithCache(mustSub(public.FS, "assets"), "/assets")
}
