package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Log is the structured application logger. It is a no-op until InitLogging runs.
var Log = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "pet-api.log")
}

// InitLogging prepares the log file and builds the zap logger on top of it.
// The standard library logger (used by GORM) writes to the same destinations.
func InitLogging(s LogSettings) (*os.File, *zap.Logger) {
	path := s.File
	if path == "" {
		path = LogFilePath()
	}

	var logFile *os.File
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
	} else {
		logFile = f
	}

	if logFile != nil {
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	} else {
		LogWriter = os.Stdout
	}
	log.SetOutput(LogWriter)

	Log = NewLogger(s.Level, s.Format, zapcore.AddSync(LogWriter))
	return logFile, Log
}

// NewLogger builds a zap logger at the given level. format "json" selects the
// production encoder, anything else the human readable console encoder.
func NewLogger(levelStr, format string, out zapcore.WriteSyncer) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller())
}
