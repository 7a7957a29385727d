package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every logger so the CLI can quiet them after they're built
var level = zap.NewAtomicLevelAt(zap.DebugLevel)

func NewLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.Level = level
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := config.Build()
	if err != nil {
		log.Panic(err)
	}

	// flushes buffer, if any
	defer logger.Sync()

	return logger.Sugar()
}

// SetLevel changes the minimum level for all loggers returned by NewLogger
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}
