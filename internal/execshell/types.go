package execshell

import (
	"context"
	"errors"
	"fmt"
)

const (
	commandGitNameConstant                = "git"
	loggerNotConfiguredMessageConstant    = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant    = "shell command runner not configured"
	commandFailedErrorTemplateConstant    = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
)

// CommandName identifies an executable known to the shell executor.
type CommandName string

// CommandGit runs the git executable found on PATH.
const CommandGit CommandName = CommandName(commandGitNameConstant)

// ErrLoggerNotConfigured indicates the shell executor was created without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the shell executor was created without a runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandDetails describes arguments and environment for a single invocation.
// EnvironmentVariables are appended to the inherited process environment.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines an executable name with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran but exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failedError CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, formatCommandLabel(failedError.Command), failedError.Result.ExitCode, formatStandardErrorSuffix(failedError.Result.StandardError))
}

// CommandExecutionError reports a command that could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, formatCommandLabel(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}
