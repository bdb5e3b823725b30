package execshell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
)

// OSCommandRunner starts commands as child processes of the current one.
type OSCommandRunner struct {
	executablePaths map[CommandName]string
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// WithExecutable returns a runner that starts executablePath whenever commandName is run.
// A blank path keeps the PATH lookup of the command name.
func (runner *OSCommandRunner) WithExecutable(commandName CommandName, executablePath string) *OSCommandRunner {
	executablePaths := make(map[CommandName]string, len(runner.executablePaths)+1)
	for existingName, existingPath := range runner.executablePaths {
		executablePaths[existingName] = existingPath
	}

	trimmedPath := strings.TrimSpace(executablePath)
	if len(trimmedPath) == 0 {
		delete(executablePaths, commandName)
	} else {
		executablePaths[commandName] = trimmedPath
	}
	return &OSCommandRunner{executablePaths: executablePaths}
}

func (runner *OSCommandRunner) executableFor(commandName CommandName) string {
	if executablePath, configured := runner.executablePaths[commandName]; configured {
		return executablePath
	}
	return string(commandName)
}

// Run starts the command and waits for it.
//
// A non-zero exit code is returned in ExecutionResult. Errors are reserved for
// processes that could not be started and for cancelled contexts.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	process := exec.CommandContext(executionContext, runner.executableFor(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = buildProcessEnvironment(command.Details.EnvironmentVariables)

	var standardOutput strings.Builder
	var standardError strings.Builder
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	waitError := process.Run()
	if contextError := executionContext.Err(); waitError != nil && contextError != nil {
		return ExecutionResult{}, contextError
	}

	var exitError *exec.ExitError
	if waitError != nil && !errors.As(waitError, &exitError) {
		return ExecutionResult{}, waitError
	}

	return ExecutionResult{
		StandardOutput: standardOutput.String(),
		StandardError:  standardError.String(),
		ExitCode:       process.ProcessState.ExitCode(),
	}, nil
}

// buildProcessEnvironment returns nil when no overrides exist so the child inherits the environment as is.
func buildProcessEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	overrideNames := make([]string, 0, len(overrides))
	for overrideName := range overrides {
		overrideNames = append(overrideNames, overrideName)
	}
	sort.Strings(overrideNames)

	environment := os.Environ()
	for _, overrideName := range overrideNames {
		environment = append(environment, overrideName+environmentAssignmentSeparatorConstant+overrides[overrideName])
	}
	return environment
}
