package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, defaultCookieName, cfg.Session.CookieName)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, "201234567890", cfg.Checkout.WhatsAppContact)
	assert.Equal(t, "https://wa.me/", cfg.Checkout.WhatsAppBaseURL)
	assert.Empty(t, cfg.Waiter.PubSubProject)
	assert.Equal(t, "en", cfg.Menu.DefaultLang)
	assert.Equal(t, 1200*time.Millisecond, cfg.Menu.SkeletonDelay)
	assert.Equal(t, 6, cfg.Menu.SkeletonCount)
	assert.Empty(t, cfg.Secrets.Project)
	assert.Equal(t, ".secrets.local", cfg.Secrets.FallbackFile)
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"MENU_ENV":                       "prod",
		"MENU_SERVER_PORT":               "9090",
		"MENU_SERVER_READ_TIMEOUT":       "20s",
		"MENU_SESSION_SIGNING_KEY":       "0123456789abcdef0123456789abcdef",
		"MENU_CHECKOUT_WHATSAPP_CONTACT": "+971500000000",
		"MENU_WAITER_PUBSUB_PROJECT":     "ember-prod",
		"MENU_WAITER_PUBSUB_TOPIC":       "waiter-calls",
		"MENU_DEFAULT_LANG":              "AR",
		"MENU_SKELETON_DELAY":            "0s",
		"MENU_SKELETON_COUNT":            "not-a-number",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "971500000000", cfg.Checkout.WhatsAppContact)
	assert.Equal(t, "waiter-calls", cfg.Waiter.PubSubTopic)
	assert.Equal(t, "ar", cfg.Menu.DefaultLang)
	assert.Equal(t, time.Duration(0), cfg.Menu.SkeletonDelay)
	assert.Equal(t, defaultSkeletonCount, cfg.Menu.SkeletonCount)
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"MENU_ENV":                       "prod",
		"MENU_CHECKOUT_WHATSAPP_CONTACT": "call-me",
		"MENU_WAITER_PUBSUB_PROJECT":     "ember-prod",
		"MENU_DEFAULT_LANG":              "fr",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ElementsMatch(t, []string{
		"Session.SigningKey",
		"Checkout.WhatsAppContact",
		"Waiter.PubSubTopic",
		"Menu.DefaultLang",
	}, vErr.Fields())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "MENU_SERVER_PORT=7000\nMENU_CHECKOUT_WHATSAPP_CONTACT=\"441234567\"\n# comment\nexport MENU_SKELETON_COUNT=3\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("MENU_SERVER_PORT", "7100")

	cfg, err := Load(context.Background(), WithEnvFile(envPath))
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Server.Port, "process env wins over dotenv")
	assert.Equal(t, "441234567", cfg.Checkout.WhatsAppContact)
	assert.Equal(t, 3, cfg.Menu.SkeletonCount)

	cfg, err = Load(context.Background(), WithEnvFile(envPath), WithEnvMap(map[string]string{"MENU_SERVER_PORT": "7200"}))
	require.NoError(t, err)
	assert.Equal(t, "7200", cfg.Server.Port, "explicit map wins over process env")
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	require.NoError(t, err)
}

func TestLoadResolvesSigningKeyReference(t *testing.T) {
	var refs []string
	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		refs = append(refs, ref)
		return " 0123456789abcdef0123456789abcdef\n", nil
	})
	env := map[string]string{
		"MENU_ENV":                 "prod",
		"MENU_SESSION_SIGNING_KEY": "sm://menu-session-key",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Session.SigningKey)
	assert.Equal(t, []string{"secret://menu-session-key"}, refs)
}

func TestLoadLeavesPlainSigningKeyAlone(t *testing.T) {
	resolver := SecretResolverFunc(func(context.Context, string) (string, error) {
		t.Fatal("resolver must not be called for plain values")
		return "", nil
	})
	env := map[string]string{"MENU_SESSION_SIGNING_KEY": "plain-key"}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, "plain-key", cfg.Session.SigningKey)
}

func TestLoadReportsSecretFailures(t *testing.T) {
	denied := errors.New("permission denied")
	tests := []struct {
		name     string
		resolver SecretResolver
		want     error
	}{
		{name: "resolver error", resolver: SecretResolverFunc(func(context.Context, string) (string, error) { return "", denied }), want: denied},
		{name: "no resolver", want: errSecretResolverNotConfigured},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := []Option{
				WithEnvMap(map[string]string{"MENU_SESSION_SIGNING_KEY": "secret://menu-session-key"}),
				WithoutSystemEnv(),
				WithEnvFile(""),
			}
			if tc.resolver != nil {
				opts = append(opts, WithSecretResolver(tc.resolver))
			}
			_, err := Load(context.Background(), opts...)
			require.Error(t, err)

			var sErr *SecretError
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, "Session.SigningKey", sErr.Field)
			assert.Equal(t, "secret://menu-session-key", sErr.Ref)
			assert.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestEnvironmentValuesKeepsReferencesRaw(t *testing.T) {
	env := map[string]string{
		"MENU_SECRETS_PROJECT":     " ember-prod ",
		"MENU_SESSION_SIGNING_KEY": "sm://menu-session-key",
	}
	values, err := EnvironmentValues([]string{"MENU_SECRETS_PROJECT", "MENU_SESSION_SIGNING_KEY", "MENU_ENV"},
		WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MENU_SECRETS_PROJECT":     "ember-prod",
		"MENU_SESSION_SIGNING_KEY": "sm://menu-session-key",
	}, values)
}
