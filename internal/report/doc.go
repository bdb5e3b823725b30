// Package report renders repository build metadata as plain text.
//
// It defines the RepositoryStatus record shared by the collectors, the
// build-info package, and the stamp renderers, and the Reporter that writes
// the branch, commit, repository, and version lines followed by the optional
// dirty file section.
package report
