// Package buildinfo exposes the repository status a binary was built from.
//
// Values are injected with -ldflags -X at build time (see the gitstamp
// ldflags command) and fall back to the VCS settings recorded by the Go
// toolchain when they were not provided. Building with the gitdirty tag
// enables the dirty file section in reports.
package buildinfo
