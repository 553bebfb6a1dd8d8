package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.Logger

// InitLogger sets up the JSON logger with file rotation.
func InitLogger(logFile string) {
	if logFile == "" {
		logFile = "./logs/vitatrack.log"
	}
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, writer, zap.InfoLevel)
	Logger = zap.New(core, zap.AddCaller())
}

// Log returns the process logger, or a no-op one before InitLogger ran
// (tests exercise services without log output).
func Log() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
