package logger

import (
	"log"
	"strings"

	"github.com/Daskott/rolodex/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(loggerConfig shared.LoggerConfig) *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if strings.ToLower(loggerConfig.Format) == "json" {
		config = zap.NewProductionConfig()
	}

	if loggerConfig.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(loggerConfig.Level)); err != nil {
			log.Panic(err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := config.Build()
	if err != nil {
		log.Panic(err)
	}

	return logger.Sugar()
}
