// Package gitrepo contains helpers for interpreting Git repository metadata.
//
// It parses remote URLs into structured form so collectors can report a
// stable repository identifier regardless of the remote protocol.
package gitrepo
