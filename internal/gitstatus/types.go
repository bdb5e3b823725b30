package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/gitstamp/internal/execshell"
	"github.com/temirov/gitstamp/internal/report"
)

const (
	defaultRepositoryPathConstant          = "."
	defaultRemoteNameConstant              = "origin"
	detachedHeadBranchNameConstant         = "HEAD"
	notRepositoryMessageConstant           = "not a git repository"
	gitExecutorMissingMessageConstant      = "git executor not configured"
	invalidValueErrorTemplateConstant      = "%w: %q"
	unknownBackendMessageConstant          = "unknown status backend"
	unknownRepositorySourceMessageConstant = "unknown repository source"
)

// Backend names a Collector implementation.
type Backend string

// Supported collector backends.
const (
	BackendGit   Backend = Backend("git")
	BackendGoGit Backend = Backend("go-git")
)

// RepositorySource selects how the repository identifier is derived.
type RepositorySource string

// Supported repository sources.
const (
	RepositorySourceToplevel RepositorySource = RepositorySource("toplevel")
	RepositorySourceRemote   RepositorySource = RepositorySource("remote")
)

// ErrNotRepository indicates the requested path is not inside a git work tree.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// ErrGitExecutorNotConfigured indicates the shell collector was created without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrUnknownBackend indicates an unsupported backend name.
var ErrUnknownBackend = errors.New(unknownBackendMessageConstant)

// ErrUnknownRepositorySource indicates an unsupported repository source name.
var ErrUnknownRepositorySource = errors.New(unknownRepositorySourceMessageConstant)

// Options configures a collection run.
type Options struct {
	RepositoryPath   string
	RepositorySource RepositorySource
	RemoteName       string
}

// Snapshot captures the repository state at collection time.
type Snapshot struct {
	Branch       string
	Commit       string
	Repository   string
	Tag          string
	TaggedCommit string
	CommitTime   time.Time
	DirtyFiles   []report.DirtyFile
}

// Dirty reports whether the work tree has uncommitted changes.
func (snapshot Snapshot) Dirty() bool {
	return len(snapshot.DirtyFiles) > 0
}

// RepositoryStatus converts the snapshot into the record consumed by the reporter.
func (snapshot Snapshot) RepositoryStatus() report.RepositoryStatus {
	dirtyFiles := make([]report.DirtyFile, len(snapshot.DirtyFiles))
	copy(dirtyFiles, snapshot.DirtyFiles)
	return report.RepositoryStatus{
		Branch:     snapshot.Branch,
		Commit:     snapshot.Commit,
		Repository: snapshot.Repository,
		DirtyFiles: dirtyFiles,
	}
}

// Collector gathers a Snapshot for a repository.
type Collector interface {
	Collect(executionContext context.Context, options Options) (Snapshot, error)
}

// GitExecutor exposes the subset of shell execution used by the shell collector.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ParseBackend validates a backend name.
func ParseBackend(value string) (Backend, error) {
	switch backend := Backend(strings.ToLower(strings.TrimSpace(value))); backend {
	case BackendGit, BackendGoGit:
		return backend, nil
	default:
		return "", fmt.Errorf(invalidValueErrorTemplateConstant, ErrUnknownBackend, value)
	}
}

// ParseRepositorySource validates a repository source name. An empty value selects the top-level path.
func ParseRepositorySource(value string) (RepositorySource, error) {
	switch source := RepositorySource(strings.ToLower(strings.TrimSpace(value))); source {
	case "":
		return RepositorySourceToplevel, nil
	case RepositorySourceToplevel, RepositorySourceRemote:
		return source, nil
	default:
		return "", fmt.Errorf(invalidValueErrorTemplateConstant, ErrUnknownRepositorySource, value)
	}
}

// NewCollector constructs the collector for the requested backend.
func NewCollector(backend Backend, executor GitExecutor) (Collector, error) {
	switch backend {
	case BackendGit:
		shellCollector, creationError := NewShellCollector(executor)
		if creationError != nil {
			return nil, creationError
		}
		return shellCollector, nil
	case BackendGoGit:
		return NewRepositoryCollector(), nil
	default:
		return nil, fmt.Errorf(invalidValueErrorTemplateConstant, ErrUnknownBackend, string(backend))
	}
}

func normalizeOptions(options Options) (Options, error) {
	normalized := Options{
		RepositoryPath: strings.TrimSpace(options.RepositoryPath),
		RemoteName:     strings.TrimSpace(options.RemoteName),
	}
	if len(normalized.RepositoryPath) == 0 {
		normalized.RepositoryPath = defaultRepositoryPathConstant
	}
	if len(normalized.RemoteName) == 0 {
		normalized.RemoteName = defaultRemoteNameConstant
	}

	source, sourceError := ParseRepositorySource(string(options.RepositorySource))
	if sourceError != nil {
		return Options{}, sourceError
	}
	normalized.RepositorySource = source
	return normalized, nil
}
