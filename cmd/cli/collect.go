package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitstamp/internal/execshell"
	"github.com/temirov/gitstamp/internal/gitstatus"
	pathutils "github.com/temirov/gitstamp/internal/utils/path"
	"github.com/temirov/gitstamp/internal/versioning"
)

const (
	snapshotCollectedMessageConstant       = "repository snapshot collected"
	collectorCreationErrorTemplateConstant = "create status collector: %w"
	collectErrorTemplateConstant           = "collect repository status: %w"
	repositoryPathErrorTemplateConstant    = "resolve repository path: %w"
	logFieldRepositoryPathConstant         = "repository_path"
	logFieldBackendConstant                = "backend"
	logFieldBranchConstant                 = "branch"
	logFieldCommitConstant                 = "commit"
	logFieldTagConstant                    = "tag"
	logFieldVersionConstant                = "version"
	logFieldDirtyFileCountConstant         = "dirty_file_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CollectConfigurationProvider supplies the resolved collection settings.
type CollectConfigurationProvider func() CollectConfiguration

// collectedSnapshot pairs a snapshot with the version composed from it.
type collectedSnapshot struct {
	snapshot gitstatus.Snapshot
	version  string
}

type snapshotResolver struct {
	loggerProvider        LoggerProvider
	configurationProvider CollectConfigurationProvider
	collector             gitstatus.Collector
	runnerFactory         gitCommandRunnerFactory
}

// gitCommandRunnerFactory builds the runner for the git backend from the configured executable.
type gitCommandRunnerFactory func(gitExecutable string) execshell.CommandRunner

func newOSGitCommandRunner(gitExecutable string) execshell.CommandRunner {
	return execshell.NewOSCommandRunner().WithExecutable(execshell.CommandGit, gitExecutable)
}

func (resolver snapshotResolver) resolve(executionContext context.Context) (collectedSnapshot, error) {
	logger := resolveLogger(resolver.loggerProvider)

	var configuration CollectConfiguration
	if resolver.configurationProvider != nil {
		configuration = resolver.configurationProvider()
	}

	backend, backendError := gitstatus.ParseBackend(configuration.Backend)
	if backendError != nil {
		return collectedSnapshot{}, backendError
	}

	repositorySource, sourceError := gitstatus.ParseRepositorySource(configuration.RepositorySource)
	if sourceError != nil {
		return collectedSnapshot{}, sourceError
	}

	repositoryPath, pathError := pathutils.NewExpander().Absolute(configuration.Repository)
	if pathError != nil {
		return collectedSnapshot{}, fmt.Errorf(repositoryPathErrorTemplateConstant, pathError)
	}

	collector, collectorError := resolver.resolveCollector(backend, configuration.GitExecutable, logger)
	if collectorError != nil {
		return collectedSnapshot{}, fmt.Errorf(collectorCreationErrorTemplateConstant, collectorError)
	}

	snapshot, collectError := collector.Collect(executionContext, gitstatus.Options{
		RepositoryPath:   repositoryPath,
		RepositorySource: repositorySource,
		RemoteName:       configuration.RemoteName,
	})
	if collectError != nil {
		return collectedSnapshot{}, fmt.Errorf(collectErrorTemplateConstant, collectError)
	}

	version := versioning.Compose(versioning.Inputs{
		Tag:          snapshot.Tag,
		TaggedCommit: snapshot.TaggedCommit,
		Commit:       snapshot.Commit,
		CommitTime:   snapshot.CommitTime,
		Dirty:        snapshot.Dirty(),
	})

	logger.Info(
		snapshotCollectedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldBackendConstant, string(backend)),
		zap.String(logFieldBranchConstant, snapshot.Branch),
		zap.String(logFieldCommitConstant, snapshot.Commit),
		zap.String(logFieldTagConstant, snapshot.Tag),
		zap.String(logFieldVersionConstant, version),
		zap.Int(logFieldDirtyFileCountConstant, len(snapshot.DirtyFiles)),
	)

	return collectedSnapshot{snapshot: snapshot, version: version}, nil
}

func (resolver snapshotResolver) resolveCollector(backend gitstatus.Backend, gitExecutable string, logger *zap.Logger) (gitstatus.Collector, error) {
	if resolver.collector != nil {
		return resolver.collector, nil
	}

	var gitExecutor gitstatus.GitExecutor
	if backend == gitstatus.BackendGit {
		runnerFactory := resolver.runnerFactory
		if runnerFactory == nil {
			runnerFactory = newOSGitCommandRunner
		}
		commandRunner := runnerFactory(pathutils.NewExpander().Expand(gitExecutable))
		shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = shellExecutor
	}
	return gitstatus.NewCollector(backend, gitExecutor)
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
