// Package gitstatus collects the repository facts stamped into builds.
//
// ShellCollector interrogates the git executable through execshell, while
// RepositoryCollector reads the repository in-process with go-git. Both
// produce a Snapshot holding the branch, commit, repository identifier,
// latest tag, and dirty files.
package gitstatus
