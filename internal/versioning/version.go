// Package versioning derives release version strings from repository state.
package versioning

import (
	"strings"
	"time"
	"unicode"
)

const (
	tagVersionPrefixConstant     = "v"
	nextVersionInfixConstant     = "-next-"
	versionPartSeparatorConstant = "-"
	dirtyVersionSuffixConstant   = "-dirty"
	commitDateLayoutConstant     = "20060102"
	shortCommitLengthConstant    = 7
)

// Inputs captures the repository facts a version string is derived from.
type Inputs struct {
	Tag          string
	TaggedCommit string
	Commit       string
	CommitTime   time.Time
	Dirty        bool
}

// Compose builds the version string for the provided repository state.
//
// A commit carrying the latest tag yields the tag itself (without a leading
// "v" before a digit). Commits past the tag yield "<tag>-next-<short>-<date>",
// untagged repositories yield "<short>-<date>", and a dirty worktree appends
// "-dirty".
func Compose(inputs Inputs) string {
	version := StripTagPrefix(strings.TrimSpace(inputs.Tag))
	shortCommit := ShortCommit(inputs.Commit)
	commitDate := inputs.CommitTime.Format(commitDateLayoutConstant)

	trimmedTaggedCommit := strings.TrimSpace(inputs.TaggedCommit)
	if len(trimmedTaggedCommit) > 0 && trimmedTaggedCommit != strings.TrimSpace(inputs.Commit) {
		version = version + nextVersionInfixConstant + shortCommit + versionPartSeparatorConstant + commitDate
	}

	if len(strings.TrimSpace(inputs.Tag)) == 0 {
		version = shortCommit + versionPartSeparatorConstant + commitDate
	}

	if inputs.Dirty {
		version += dirtyVersionSuffixConstant
	}

	return version
}

// StripTagPrefix removes a leading "v" when it introduces a numeric version.
func StripTagPrefix(tag string) string {
	if len(tag) < 2 {
		return tag
	}
	if strings.HasPrefix(tag, tagVersionPrefixConstant) && unicode.IsDigit(rune(tag[1])) {
		return tag[1:]
	}
	return tag
}

// ShortCommit abbreviates a commit identifier to seven characters.
func ShortCommit(commit string) string {
	trimmedCommit := strings.TrimSpace(commit)
	if len(trimmedCommit) > shortCommitLengthConstant {
		return trimmedCommit[:shortCommitLengthConstant]
	}
	return trimmedCommit
}
