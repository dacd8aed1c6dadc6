package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init installs the global zap logger. Production logs JSON to stdout and to
// a size-rotated file; everything else uses the development config.
func Init(environment string) error {
	if environment != "production" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)

		return nil
	}

	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/raffle-api.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	})

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel),
		zapcore.NewCore(encoder, rotated, zapcore.InfoLevel),
	)

	zap.ReplaceGlobals(zap.New(core))

	return nil
}
