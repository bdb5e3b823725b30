// Package cli constructs the gitstamp command-line interface, wiring the
// Cobra command hierarchy, the Viper-backed configuration loader, and zap
// logging. The status, ldflags, and generate commands share one repository
// collection step driven by the tools.collect configuration.
package cli
