package observability

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hadeerens/ember-bloom-menu/internal/requestctx"
)

// NewLogger builds the process logger. Production writes JSON with the field
// names Cloud Logging understands; local runs get a readable console format.
// LOG_LEVEL overrides the level in both.
func NewLogger(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.LevelKey = "severity"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
		cfg.DisableStacktrace = true
		cfg.Sampling = nil
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		level, err := zap.ParseAtomicLevel(strings.ToLower(raw))
		if err == nil {
			cfg.Level = level
		}
	}
	return cfg.Build(zap.Fields(zap.String("service", "ember-bloom-menu")))
}

// FromContext returns the request scoped logger, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	return requestctx.Logger(ctx)
}
