package buildinfo

import (
	"runtime/debug"
	"strings"

	"github.com/temirov/gitstamp/internal/report"
)

const (
	unknownValueConstant          = "unknown"
	developmentVersionConstant    = "dev"
	dirtyVersionSuffixConstant    = "-dirty"
	vcsRevisionSettingKeyConstant = "vcs.revision"
	vcsModifiedSettingKeyConstant = "vcs.modified"
	vcsModifiedTrueValueConstant  = "true"
	shortRevisionLengthConstant   = 7
)

// Build metadata injected via -ldflags -X.
var (
	Branch        = ""
	Commit        = ""
	Repository    = ""
	VersionString = ""
	// DirtyFiles holds the encoded dirty file list produced by EncodeDirtyFiles.
	DirtyFiles = ""
)

var readBuildInfo = debug.ReadBuildInfo

type vcsSettings struct {
	revision string
	modified bool
}

// GitStatus assembles the repository status recorded for this binary.
func GitStatus() report.RepositoryStatus {
	settings := loadVCSSettings()

	commit := strings.TrimSpace(Commit)
	if len(commit) == 0 {
		commit = settings.revision
	}

	return report.RepositoryStatus{
		Branch:     valueOrUnknown(Branch),
		Commit:     valueOrUnknown(commit),
		Repository: valueOrUnknown(Repository),
		DirtyFiles: DecodeDirtyFiles(DirtyFiles),
	}
}

// Version returns the injected version string or one derived from the toolchain VCS settings.
func Version() string {
	if trimmedVersion := strings.TrimSpace(VersionString); len(trimmedVersion) > 0 {
		return trimmedVersion
	}

	settings := loadVCSSettings()
	if len(settings.revision) == 0 {
		return developmentVersionConstant
	}

	version := settings.revision
	if len(version) > shortRevisionLengthConstant {
		version = version[:shortRevisionLengthConstant]
	}
	if settings.modified {
		version += dirtyVersionSuffixConstant
	}
	return version
}

func loadVCSSettings() vcsSettings {
	info, available := readBuildInfo()
	if !available || info == nil {
		return vcsSettings{}
	}

	settings := vcsSettings{}
	for _, setting := range info.Settings {
		switch setting.Key {
		case vcsRevisionSettingKeyConstant:
			settings.revision = setting.Value
		case vcsModifiedSettingKeyConstant:
			settings.modified = setting.Value == vcsModifiedTrueValueConstant
		}
	}
	return settings
}

func valueOrUnknown(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return unknownValueConstant
	}
	return trimmedValue
}
