package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/gitstamp/internal/execshell"
	"github.com/temirov/gitstamp/internal/gitrepo"
)

const (
	gitRevParseSubcommandConstant            = "rev-parse"
	gitWorkTreeFlagConstant                  = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant                 = "--abbrev-ref"
	gitShowToplevelFlagConstant              = "--show-toplevel"
	gitHeadReferenceConstant                 = "HEAD"
	gitStatusSubcommandConstant              = "status"
	gitPorcelainFlagConstant                 = "--porcelain"
	gitNullTerminationFlagConstant           = "-z"
	gitRevListSubcommandConstant             = "rev-list"
	gitMaxCountOneFlagConstant               = "--max-count=1"
	gitTagsFlagConstant                      = "--tags"
	gitDescribeSubcommandConstant            = "describe"
	gitAbbrevZeroFlagConstant                = "--abbrev=0"
	gitLogSubcommandConstant                 = "log"
	gitLogLimitFlagConstant                  = "-1"
	gitCommitDateFormatFlagConstant          = "--format=%cd"
	gitStrictDateFlagConstant                = "--date=iso-strict"
	gitRemoteSubcommandConstant              = "remote"
	gitRemoteGetURLSubcommandConstant        = "get-url"
	gitWorkTreeTrueOutputConstant            = "true"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	workTreeCheckErrorTemplateConstant       = "failed to inspect %s: %w"
	branchErrorTemplateConstant              = "failed to resolve current branch: %w"
	commitErrorTemplateConstant              = "failed to resolve HEAD commit: %w"
	statusErrorTemplateConstant              = "failed to read working tree status: %w"
	tagErrorTemplateConstant                 = "failed to find tagged commits: %w"
	commitTimeErrorTemplateConstant          = "failed to read commit time: %w"
	commitTimeParseTemplateConstant          = "failed to parse commit time %q: %w"
	toplevelErrorTemplateConstant            = "failed to locate repository root: %w"
	notRepositoryTemplateConstant            = "%w: %s"
)

// ShellCollector gathers repository facts by running the git executable.
type ShellCollector struct {
	executor GitExecutor
}

// NewShellCollector constructs a ShellCollector around the provided executor.
func NewShellCollector(executor GitExecutor) (*ShellCollector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &ShellCollector{executor: executor}, nil
}

// Collect runs git in the configured repository and assembles a Snapshot.
func (collector *ShellCollector) Collect(executionContext context.Context, options Options) (Snapshot, error) {
	normalizedOptions, optionsError := normalizeOptions(options)
	if optionsError != nil {
		return Snapshot{}, optionsError
	}
	repositoryPath := normalizedOptions.RepositoryPath

	workTreeOutput, workTreeError := collector.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if workTreeError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(workTreeError, &failedError) {
			return Snapshot{}, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, repositoryPath)
		}
		return Snapshot{}, fmt.Errorf(workTreeCheckErrorTemplateConstant, repositoryPath, workTreeError)
	}
	if strings.TrimSpace(workTreeOutput) != gitWorkTreeTrueOutputConstant {
		return Snapshot{}, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, repositoryPath)
	}

	snapshot := Snapshot{}

	branchOutput, branchError := collector.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if branchError != nil {
		return Snapshot{}, fmt.Errorf(branchErrorTemplateConstant, branchError)
	}
	snapshot.Branch = strings.TrimSpace(branchOutput)

	commitOutput, commitError := collector.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
	if commitError != nil {
		return Snapshot{}, fmt.Errorf(commitErrorTemplateConstant, commitError)
	}
	snapshot.Commit = strings.TrimSpace(commitOutput)

	statusOutput, statusError := collector.runGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitNullTerminationFlagConstant)
	if statusError != nil {
		return Snapshot{}, fmt.Errorf(statusErrorTemplateConstant, statusError)
	}
	snapshot.DirtyFiles = ParsePorcelain(statusOutput)

	taggedCommitOutput, taggedCommitError := collector.runGit(executionContext, repositoryPath, gitRevListSubcommandConstant, gitMaxCountOneFlagConstant, gitTagsFlagConstant)
	if taggedCommitError != nil {
		return Snapshot{}, fmt.Errorf(tagErrorTemplateConstant, taggedCommitError)
	}
	snapshot.TaggedCommit = strings.TrimSpace(taggedCommitOutput)

	if len(snapshot.TaggedCommit) > 0 {
		tagOutput, tagError := collector.runGit(executionContext, repositoryPath, gitDescribeSubcommandConstant, gitAbbrevZeroFlagConstant, gitTagsFlagConstant, snapshot.TaggedCommit)
		if tagError == nil {
			snapshot.Tag = strings.TrimSpace(tagOutput)
		}
	}

	commitTimeOutput, commitTimeError := collector.runGit(executionContext, repositoryPath, gitLogSubcommandConstant, gitLogLimitFlagConstant, gitCommitDateFormatFlagConstant, gitStrictDateFlagConstant)
	if commitTimeError != nil {
		return Snapshot{}, fmt.Errorf(commitTimeErrorTemplateConstant, commitTimeError)
	}
	trimmedCommitTime := strings.TrimSpace(commitTimeOutput)
	commitTime, parseError := time.Parse(time.RFC3339, trimmedCommitTime)
	if parseError != nil {
		return Snapshot{}, fmt.Errorf(commitTimeParseTemplateConstant, trimmedCommitTime, parseError)
	}
	snapshot.CommitTime = commitTime

	repositoryIdentifier, repositoryError := collector.resolveRepository(executionContext, normalizedOptions)
	if repositoryError != nil {
		return Snapshot{}, repositoryError
	}
	snapshot.Repository = repositoryIdentifier

	return snapshot, nil
}

func (collector *ShellCollector) resolveRepository(executionContext context.Context, options Options) (string, error) {
	if options.RepositorySource == RepositorySourceRemote {
		remoteOutput, remoteError := collector.runGit(executionContext, options.RepositoryPath, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, options.RemoteName)
		if remoteError == nil && len(strings.TrimSpace(remoteOutput)) > 0 {
			return gitrepo.CanonicalIdentifier(remoteOutput), nil
		}
	}

	toplevelOutput, toplevelError := collector.runGit(executionContext, options.RepositoryPath, gitRevParseSubcommandConstant, gitShowToplevelFlagConstant)
	if toplevelError != nil {
		return "", fmt.Errorf(toplevelErrorTemplateConstant, toplevelError)
	}
	return strings.TrimSpace(toplevelOutput), nil
}

func (collector *ShellCollector) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	executionResult, executionError := collector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant},
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}
