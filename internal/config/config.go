package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultEnvironment     = "local"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultCookieName      = "EMBER_BLOOM_SESSION"
	defaultWhatsAppContact = "201234567890"
	defaultWhatsAppBaseURL = "https://wa.me/"
	defaultWaiterTimeout   = 5 * time.Second
	defaultDefaultLang     = "en"
	defaultSkeletonDelay   = 1200 * time.Millisecond
	defaultSkeletonCount   = 6
	maxSkeletonCount       = 24
	defaultSecretsFallback = ".secrets.local"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Session     SessionConfig
	Checkout    CheckoutConfig
	Waiter      WaiterConfig
	Menu        MenuConfig
	Secrets     SecretsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	CookieName string
	SigningKey string
	Secure     bool
}

// CheckoutConfig holds the WhatsApp destination for orders.
type CheckoutConfig struct {
	WhatsAppContact string
	WhatsAppBaseURL string
}

// WaiterConfig selects where waiter calls are delivered. An empty project keeps
// calls in the application log.
type WaiterConfig struct {
	PubSubProject string
	PubSubTopic   string
	Timeout       time.Duration
}

// MenuConfig tunes the menu page.
type MenuConfig struct {
	DefaultLang   string
	SkeletonDelay time.Duration
	SkeletonCount int
}

// SecretsConfig locates values referenced as secret:// or sm:// URIs. Without
// a project only the fallback file is consulted.
type SecretsConfig struct {
	Project      string
	FallbackFile string
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool { return c.Environment == "prod" }

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// SecretError describes failures while resolving a secret reference.
type SecretError struct {
	Field string
	Ref   string
	Err   error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	return fmt.Sprintf("config: resolving %s from %q: %v", e.Field, e.Ref, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile reads the given dotenv file instead of ".env". An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap supplies values that win over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets the resolver used for secret:// and sm:// values.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

func newOptions(opts []Option) loaderOptions {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func newLookup(options loaderOptions) (func(string) (string, bool), error) {
	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}
	return func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}, nil
}

// EnvironmentValues returns the raw value of each key after applying the
// same precedence as Load. Secret references are returned unresolved.
func EnvironmentValues(keys []string, opts ...Option) (map[string]string, error) {
	lookup, err := newLookup(newOptions(opts))
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := lookup(key); ok {
			values[key] = strings.TrimSpace(value)
		}
	}
	return values, nil
}

// Load assembles the configuration. Precedence from lowest to highest is
// defaults, the dotenv file, the process environment, WithEnvMap. Secret
// references are then resolved through the configured SecretResolver.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := newOptions(opts)
	lookup, err := newLookup(options)
	if err != nil {
		return Config{}, err
	}

	env := strings.ToLower(stringWithDefault(lookup, "MENU_ENV", defaultEnvironment))
	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "MENU_SERVER_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:     durationWithDefault(lookup, "MENU_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "MENU_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "MENU_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:  durationWithDefault(lookup, "MENU_SERVER_REQUEST_TIMEOUT", defaultRequestTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "MENU_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Session: SessionConfig{
			CookieName: stringWithDefault(lookup, "MENU_SESSION_COOKIE", defaultCookieName),
			SigningKey: stringWithDefault(lookup, "MENU_SESSION_SIGNING_KEY", ""),
			Secure:     boolWithDefault(lookup, "MENU_SESSION_SECURE", env == "prod"),
		},
		Checkout: CheckoutConfig{
			WhatsAppContact: stringWithDefault(lookup, "MENU_CHECKOUT_WHATSAPP_CONTACT", defaultWhatsAppContact),
			WhatsAppBaseURL: stringWithDefault(lookup, "MENU_CHECKOUT_WHATSAPP_BASE_URL", defaultWhatsAppBaseURL),
		},
		Waiter: WaiterConfig{
			PubSubProject: stringWithDefault(lookup, "MENU_WAITER_PUBSUB_PROJECT", ""),
			PubSubTopic:   stringWithDefault(lookup, "MENU_WAITER_PUBSUB_TOPIC", ""),
			Timeout:       durationWithDefault(lookup, "MENU_WAITER_TIMEOUT", defaultWaiterTimeout),
		},
		Menu: MenuConfig{
			DefaultLang:   strings.ToLower(stringWithDefault(lookup, "MENU_DEFAULT_LANG", defaultDefaultLang)),
			SkeletonDelay: durationWithDefault(lookup, "MENU_SKELETON_DELAY", defaultSkeletonDelay),
			SkeletonCount: intWithDefault(lookup, "MENU_SKELETON_COUNT", defaultSkeletonCount),
		},
		Secrets: SecretsConfig{
			Project:      stringWithDefault(lookup, "MENU_SECRETS_PROJECT", ""),
			FallbackFile: stringWithDefault(lookup, "MENU_SECRETS_FALLBACK_FILE", defaultSecretsFallback),
		},
	}
	cfg.Checkout.WhatsAppContact = strings.TrimPrefix(strings.TrimSpace(cfg.Checkout.WhatsAppContact), "+")

	secretFields := []struct {
		name  string
		field *string
	}{
		{"Session.SigningKey", &cfg.Session.SigningKey},
	}
	for _, sf := range secretFields {
		resolved, err := resolveSecret(ctx, *sf.field, options.secret)
		if err != nil {
			var sErr *SecretError
			if errors.As(err, &sErr) {
				sErr.Field = sf.name
			}
			return Config{}, err
		}
		*sf.field = strings.TrimSpace(resolved)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	if value == "" || !isSecretReference(value) {
		return value, nil
	}
	normalized := normalizeSecretReference(value)
	if resolver == nil {
		return "", &SecretError{Ref: normalized, Err: errSecretResolverNotConfigured}
	}
	secret, err := resolver.ResolveSecret(ctx, normalized)
	if err != nil {
		return "", &SecretError{Ref: normalized, Err: err}
	}
	return secret, nil
}

func isSecretReference(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func normalizeSecretReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "sm://") {
		return "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	return trimmed
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Environment != "local" && cfg.Environment != "prod" {
		missing = append(missing, "Environment")
	}
	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		missing = append(missing, "Server.ShutdownTimeout")
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		missing = append(missing, "Session.CookieName")
	}
	if cfg.IsProduction() && len(cfg.Session.SigningKey) < 32 {
		missing = append(missing, "Session.SigningKey")
	}
	if !isDigits(cfg.Checkout.WhatsAppContact) {
		missing = append(missing, "Checkout.WhatsAppContact")
	}
	if !strings.HasPrefix(cfg.Checkout.WhatsAppBaseURL, "https://") {
		missing = append(missing, "Checkout.WhatsAppBaseURL")
	}
	if cfg.Waiter.PubSubProject != "" && cfg.Waiter.PubSubTopic == "" {
		missing = append(missing, "Waiter.PubSubTopic")
	}
	if cfg.Waiter.Timeout <= 0 {
		missing = append(missing, "Waiter.Timeout")
	}
	if cfg.Menu.DefaultLang != "en" && cfg.Menu.DefaultLang != "ar" {
		missing = append(missing, "Menu.DefaultLang")
	}
	if cfg.Menu.SkeletonDelay < 0 {
		missing = append(missing, "Menu.SkeletonDelay")
	}
	if cfg.Menu.SkeletonCount < 0 || cfg.Menu.SkeletonCount > maxSkeletonCount {
		missing = append(missing, "Menu.SkeletonCount")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
