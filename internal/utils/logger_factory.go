package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	standardErrorOutputPathConstant      = "stderr"
	consoleMessageKeyConstant            = "message"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	loggerBuildErrorTemplateConstant     = "unable to build %s logger: %w"
	diagnosticLoggerLabelConstant        = "diagnostic"
	consoleLoggerLabelConstant           = "console"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// SupportedLogLevels lists accepted log levels in increasing severity.
func SupportedLogLevels() []string {
	return []string{string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError)}
}

// SupportedLogFormats lists accepted log formats.
func SupportedLogFormats() []string {
	return []string{string(LogFormatConsole), string(LogFormatStructured)}
}

// LoggerOutputs pairs the diagnostic logger with the logger used for human-readable progress.
// ConsoleLogger is a no-op logger unless the console format was requested.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLoggerOutputs builds the loggers for the requested level and format. Both write
// to standard error so task output on standard output stays untouched.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	normalizedLogLevel := LogLevel(strings.ToLower(strings.TrimSpace(string(requestedLogLevel))))
	zapLogLevel, levelExists := logLevelMapping[normalizedLogLevel]
	if !levelExists {
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	normalizedLogFormat := LogFormat(strings.ToLower(strings.TrimSpace(string(requestedLogFormat))))
	encoding, formatExists := logFormatEncodingMapping[normalizedLogFormat]
	if !formatExists {
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	diagnosticConfiguration := zap.NewProductionConfig()
	diagnosticConfiguration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	diagnosticConfiguration.Encoding = encoding
	diagnosticConfiguration.OutputPaths = []string{standardErrorOutputPathConstant}
	diagnosticConfiguration.ErrorOutputPaths = []string{standardErrorOutputPathConstant}
	if normalizedLogFormat == LogFormatConsole {
		diagnosticConfiguration.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		diagnosticConfiguration.Sampling = nil
	}

	diagnosticLogger, diagnosticBuildError := diagnosticConfiguration.Build()
	if diagnosticBuildError != nil {
		return LoggerOutputs{}, fmt.Errorf(loggerBuildErrorTemplateConstant, diagnosticLoggerLabelConstant, diagnosticBuildError)
	}

	if normalizedLogFormat != LogFormatConsole {
		return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: zap.NewNop()}, nil
	}

	consoleLogger, consoleBuildError := buildConsoleLogger(zapLogLevel)
	if consoleBuildError != nil {
		return LoggerOutputs{}, fmt.Errorf(loggerBuildErrorTemplateConstant, consoleLoggerLabelConstant, consoleBuildError)
	}

	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: consoleLogger}, nil
}

// buildConsoleLogger renders bare messages without timestamps, levels, or callers.
func buildConsoleLogger(level zapcore.Level) (*zap.Logger, error) {
	consoleConfiguration := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         consoleZapEncodingStringConstant,
		OutputPaths:      []string{standardErrorOutputPathConstant},
		ErrorOutputPaths: []string{standardErrorOutputPathConstant},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  consoleMessageKeyConstant,
			LineEnding:  zapcore.DefaultLineEnding,
			EncodeLevel: zapcore.CapitalLevelEncoder,
		},
	}
	return consoleConfiguration.Build()
}
