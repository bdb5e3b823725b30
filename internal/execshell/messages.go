package execshell

import (
	"fmt"
	"strings"
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitWorkTreeFlagConstant               = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitShowToplevelFlagConstant           = "--show-toplevel"
	gitStatusSubcommandNameConstant       = "status"
	gitRevListSubcommandNameConstant      = "rev-list"
	gitDescribeSubcommandNameConstant     = "describe"
	gitLogSubcommandNameConstant          = "log"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
)

const (
	gitWorkTreeStartTemplateConstant        = "Analyzing repository at %s"
	gitWorkTreeSuccessTemplateConstant      = "Confirmed %s is a Git repository"
	gitCurrentBranchStartTemplateConstant   = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant = "Identified current branch in %s"
	gitToplevelStartTemplateConstant        = "Locating repository root for %s"
	gitToplevelSuccessTemplateConstant      = "Located repository root for %s"
	gitRevisionStartTemplateConstant        = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant      = "Resolved %s in %s"
	gitStatusStartTemplateConstant          = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant        = "Collected working tree status for %s"
	gitRevListStartTemplateConstant         = "Finding latest tagged commit in %s"
	gitRevListSuccessTemplateConstant       = "Searched tagged commits in %s"
	gitDescribeStartTemplateConstant        = "Describing %s in %s"
	gitDescribeSuccessTemplateConstant      = "Described %s in %s"
	gitLogStartTemplateConstant             = "Reading last commit details in %s"
	gitLogSuccessTemplateConstant           = "Read last commit details in %s"
	gitRemoteLookupStartTemplateConstant    = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant  = "Read %s remote for %s"
)

type commandMessages struct {
	started   string
	succeeded string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.describe(command).started
}

// BuildSuccessMessage formats the message describing a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.describe(command).succeeded
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return fmt.Sprintf(genericFailureTemplateConstant, formatCommandLabel(command), result.ExitCode, formatStandardErrorSuffix(result.StandardError))
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatCommandLabel(command), failureMessage)
}

func (formatter CommandMessageFormatter) describe(command ShellCommand) commandMessages {
	genericMessages := commandMessages{
		started:   fmt.Sprintf(genericStartTemplateConstant, formatCommandLabel(command)),
		succeeded: fmt.Sprintf(genericSuccessTemplateConstant, formatCommandLabel(command)),
	}
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return genericMessages
	}

	arguments := command.Details.Arguments
	repositoryLabel := workingDirectoryLabel(command.Details.WorkingDirectory)

	switch arguments[0] {
	case gitRevParseSubcommandNameConstant:
		return describeRevParse(arguments[1:], repositoryLabel, genericMessages)
	case gitStatusSubcommandNameConstant:
		return paired(gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, repositoryLabel)
	case gitRevListSubcommandNameConstant:
		return paired(gitRevListStartTemplateConstant, gitRevListSuccessTemplateConstant, repositoryLabel)
	case gitDescribeSubcommandNameConstant:
		revision := lastArgument(arguments)
		return commandMessages{
			started:   fmt.Sprintf(gitDescribeStartTemplateConstant, revision, repositoryLabel),
			succeeded: fmt.Sprintf(gitDescribeSuccessTemplateConstant, revision, repositoryLabel),
		}
	case gitLogSubcommandNameConstant:
		return paired(gitLogStartTemplateConstant, gitLogSuccessTemplateConstant, repositoryLabel)
	case gitRemoteSubcommandNameConstant:
		if len(arguments) >= 3 && arguments[1] == gitRemoteGetURLSubcommandNameConstant {
			return commandMessages{
				started:   fmt.Sprintf(gitRemoteLookupStartTemplateConstant, arguments[2], repositoryLabel),
				succeeded: fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, arguments[2], repositoryLabel),
			}
		}
	}

	return genericMessages
}

func describeRevParse(arguments []string, repositoryLabel string, fallback commandMessages) commandMessages {
	if len(arguments) == 0 {
		return fallback
	}

	switch arguments[0] {
	case gitWorkTreeFlagConstant:
		return paired(gitWorkTreeStartTemplateConstant, gitWorkTreeSuccessTemplateConstant, repositoryLabel)
	case gitAbbrevRefFlagConstant:
		return paired(gitCurrentBranchStartTemplateConstant, gitCurrentBranchSuccessTemplateConstant, repositoryLabel)
	case gitShowToplevelFlagConstant:
		return paired(gitToplevelStartTemplateConstant, gitToplevelSuccessTemplateConstant, repositoryLabel)
	default:
		revision := lastArgument(arguments)
		return commandMessages{
			started:   fmt.Sprintf(gitRevisionStartTemplateConstant, revision, repositoryLabel),
			succeeded: fmt.Sprintf(gitRevisionSuccessTemplateConstant, revision, repositoryLabel),
		}
	}
}

func paired(startTemplate string, successTemplate string, repositoryLabel string) commandMessages {
	return commandMessages{
		started:   fmt.Sprintf(startTemplate, repositoryLabel),
		succeeded: fmt.Sprintf(successTemplate, repositoryLabel),
	}
}

func lastArgument(arguments []string) string {
	return arguments[len(arguments)-1]
}

func workingDirectoryLabel(workingDirectory string) string {
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	workingDirectorySuffix := ""
	if trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
