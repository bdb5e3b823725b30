package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant           = "debug"
	logLevelInfoStringConstant            = "info"
	logLevelWarnStringConstant            = "warn"
	logLevelErrorStringConstant           = "error"
	logFormatStructuredStringConstant     = "structured"
	logFormatConsoleStringConstant        = "console"
	unsupportedLogLevelMessageConstant    = "unsupported log level"
	unsupportedLogFormatMessageConstant   = "unsupported log format"
	unsupportedValueErrorTemplateConstant = "%w: %q"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// ErrUnsupportedLogLevel indicates a log level outside the supported set.
var ErrUnsupportedLogLevel = errors.New(unsupportedLogLevelMessageConstant)

// ErrUnsupportedLogFormat indicates a log format outside the supported set.
var ErrUnsupportedLogFormat = errors.New(unsupportedLogFormatMessageConstant)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerFactory builds zap.Logger instances that write diagnostics to a single destination.
type LoggerFactory struct {
	destination io.Writer
}

// NewLoggerFactory constructs a factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithDestination(os.Stderr)
}

// NewLoggerFactoryWithDestination constructs a factory writing to the provided destination.
func NewLoggerFactoryWithDestination(destination io.Writer) *LoggerFactory {
	if destination == nil {
		destination = os.Stderr
	}
	return &LoggerFactory{destination: destination}
}

// ParseLogLevel normalizes a textual log level.
func ParseLogLevel(value string) (LogLevel, error) {
	logLevel := LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, supported := logLevelMapping[logLevel]; !supported {
		return "", fmt.Errorf(unsupportedValueErrorTemplateConstant, ErrUnsupportedLogLevel, value)
	}
	return logLevel, nil
}

// ParseLogFormat normalizes a textual log format.
func ParseLogFormat(value string) (LogFormat, error) {
	switch logFormat := LogFormat(strings.ToLower(strings.TrimSpace(value))); logFormat {
	case LogFormatStructured, LogFormatConsole:
		return logFormat, nil
	default:
		return "", fmt.Errorf(unsupportedValueErrorTemplateConstant, ErrUnsupportedLogFormat, value)
	}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedValueErrorTemplateConstant, ErrUnsupportedLogLevel, string(requestedLogLevel))
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch requestedLogFormat {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(encoderConfiguration)
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedValueErrorTemplateConstant, ErrUnsupportedLogFormat, string(requestedLogFormat))
	}

	destination := factory.destination
	if destination == nil {
		destination = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(destination)), zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
