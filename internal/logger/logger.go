package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

type Configuration struct {
	LogFile   string `env:"FILE"`
	ErrorFile string `env:"ERROR_FILE"`
	Level     string `env:"LEVEL" envDefault:"info"`
	Console   bool   `env:"CONSOLE" envDefault:"true"`
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "timestamp",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Initialize replaces the no-op logger with a tee of the configured sinks:
// a JSON file, a JSON file for errors only, and the console.
func Initialize(configuration Configuration) error {
	level, err := zapcore.ParseLevel(configuration.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	var cores []zapcore.Core

	if configuration.LogFile != "" {
		core, err := fileCore(configuration.LogFile, level)
		if err != nil {
			return err
		}
		cores = append(cores, core)
	}

	if configuration.ErrorFile != "" {
		core, err := fileCore(configuration.ErrorFile, zapcore.ErrorLevel)
		if err != nil {
			return err
		}
		cores = append(cores, core)
	}

	if configuration.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stdout),
			level,
		))
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

func fileCore(path string, level zapcore.LevelEnabler) (zapcore.Core, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("logger: open %s: %w", path, err)
	}

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	), nil
}

func Debug(message string, fields ...zap.Field) {
	log.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	log.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	log.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	log.Error(message, fields...)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = log.Sync()
}

// Scope logs on behalf of one component. It resolves the package logger on
// every call, so a Scope declared at package level picks up Initialize.
type Scope string

func (s Scope) Debug(message string, fields ...zap.Field) {
	log.Named(string(s)).Debug(message, fields...)
}

func (s Scope) Info(message string, fields ...zap.Field) {
	log.Named(string(s)).Info(message, fields...)
}

func (s Scope) Warn(message string, fields ...zap.Field) {
	log.Named(string(s)).Warn(message, fields...)
}

func (s Scope) Error(message string, fields ...zap.Field) {
	log.Named(string(s)).Error(message, fields...)
}
