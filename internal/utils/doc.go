// Package utils exposes reusable helpers consumed by the gitstamp commands.
//
// ConfigurationLoader merges the embedded defaults, configuration files, and
// GITSTAMP_ environment overrides through Viper. LoggerFactory builds zap
// loggers that keep diagnostics on standard error, away from command output.
package utils
