package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(pretty bool, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeDuration = zapcore.SecondsDurationEncoder

	var encoder zapcore.Encoder
	if pretty {
		ec.ConsoleSeparator = " "
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05 PM")
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	} else {
		ec.EncodeTime = zapcore.EpochMillisTimeEncoder
		encoder = zapcore.NewJSONEncoder(ec)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), lvl)
	logger := zap.New(core, zap.AddStacktrace(zap.ErrorLevel))

	return logger.With(zap.Int("pid", os.Getpid())), nil
}
