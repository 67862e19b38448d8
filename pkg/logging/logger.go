package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives every log line the bridge emits. It is the hook an attached
// front end (status panel, log window) uses to mirror bridge activity.
type Sink func(message string, level string)

type Config struct {
	Level string `mapstructure:"level"`
}

// NewLogger builds a production zap logger and fans every entry out to the
// given sinks. Sinks run on the logging goroutine and must not block.
func NewLogger(cfg Config, sinks ...Sink) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, err
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	if len(sinks) == 0 {
		return logger, nil
	}

	return logger.WithOptions(zap.Hooks(func(entry zapcore.Entry) error {
		for _, sink := range sinks {
			sink(entry.Message, entry.Level.String())
		}
		return nil
	})), nil
}
