package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitstamp/internal/execshell"
)

const (
	testTagNameConstant       = "v1.4.0"
	testCommitMessageConstant = "initial import"
)

var testCommitTime = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

type applicationRun struct {
	standardOutput string
	standardError  string
	executionError error
}

func isolateUserConfiguration(t *testing.T) {
	t.Helper()

	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
}

func createTaggedRepository(t *testing.T) (string, plumbing.Hash) {
	t.Helper()

	repositoryPath := t.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(t, initError)

	worktree, worktreeError := repository.Worktree()
	require.NoError(t, worktreeError)

	require.NoError(t, os.WriteFile(filepath.Join(repositoryPath, "main.go"), []byte("package main\n"), 0o600))
	_, addError := worktree.Add("main.go")
	require.NoError(t, addError)

	commitHash, commitError := worktree.Commit(testCommitMessageConstant, &git.CommitOptions{
		Author: &object.Signature{Name: "Gitstamp Test", Email: "test@example.com", When: testCommitTime},
	})
	require.NoError(t, commitError)

	_, tagError := repository.CreateTag(testTagNameConstant, commitHash, nil)
	require.NoError(t, tagError)

	return repositoryPath, commitHash
}

func runApplication(t *testing.T, arguments ...string) applicationRun {
	t.Helper()

	application := NewApplication()
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	application.rootCommand.SetOut(&standardOutput)
	application.rootCommand.SetErr(&standardError)
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return applicationRun{
		standardOutput: standardOutput.String(),
		standardError:  standardError.String(),
		executionError: executionError,
	}
}

func TestApplicationStatusText(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, commitHash := createTaggedRepository(t)

	run := runApplication(t, "status", "--backend", "go-git", "--repository", repositoryPath)
	require.NoError(t, run.executionError)

	expectedOutput := "branch: master\n" +
		"commit: " + commitHash.String() + "\n" +
		"repository: " + repositoryPath + "\n" +
		"version: 1.4.0\n" +
		"dirty:\n"
	require.Equal(t, expectedOutput, run.standardOutput)
}

func TestApplicationStatusWithoutDirtySection(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, _ := createTaggedRepository(t)

	run := runApplication(t, "status", "--backend", "go-git", "--repository", repositoryPath, "--include-dirty=false")
	require.NoError(t, run.executionError)
	require.Len(t, strings.Split(strings.TrimSuffix(run.standardOutput, "\n"), "\n"), 4)
	require.NotContains(t, run.standardOutput, "dirty:")
}

func TestApplicationStatusYAMLFromEnvironment(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, commitHash := createTaggedRepository(t)
	require.NoError(t, os.WriteFile(filepath.Join(repositoryPath, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o600))

	t.Setenv("GITSTAMP_TOOLS_COLLECT_BACKEND", "go-git")
	t.Setenv("GITSTAMP_TOOLS_COLLECT_REPOSITORY", repositoryPath)

	run := runApplication(t, "status", "--format", "yaml")
	require.NoError(t, run.executionError)

	var document map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(run.standardOutput), &document))
	require.Equal(t, "master", document["branch"])
	require.Equal(t, commitHash.String(), document["commit"])
	require.Equal(t, "1.4.0-dirty", document["version"])
	require.Equal(t, testTagNameConstant, document["tag"])
	require.Equal(t, true, document["dirty"])
	require.Equal(t, []any{map[string]any{"path": "main.go", "status": " M"}}, document["dirty_files"])
}

func TestApplicationConfigurationFileSelectsFormat(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, _ := createTaggedRepository(t)

	configurationPath := filepath.Join(t.TempDir(), "gitstamp.yaml")
	configurationContent := "tools:\n  collect:\n    backend: go-git\n    repository: " + repositoryPath + "\n  status:\n    format: yaml\n"
	require.NoError(t, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	run := runApplication(t, "--config", configurationPath, "status")
	require.NoError(t, run.executionError)
	require.Contains(t, run.standardOutput, "version: 1.4.0\n")
	require.Contains(t, run.standardOutput, "dirty: false\n")
}

func TestApplicationRejectsUnknownConfigurationKeys(t *testing.T) {
	isolateUserConfiguration(t)

	configurationPath := filepath.Join(t.TempDir(), "gitstamp.yaml")
	require.NoError(t, os.WriteFile(configurationPath, []byte("tools:\n  collect:\n    backnd: go-git\n"), 0o600))

	run := runApplication(t, "--config", configurationPath, "status")
	require.ErrorContains(t, run.executionError, "backnd")
}

func TestApplicationLDFlags(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, commitHash := createTaggedRepository(t)

	run := runApplication(t, "ldflags", "--backend", "go-git", "--repository", repositoryPath, "--package-path", "example.com/tool/buildinfo")
	require.NoError(t, run.executionError)

	expectedOutput := "-X 'example.com/tool/buildinfo.Branch=master' " +
		"-X 'example.com/tool/buildinfo.Commit=" + commitHash.String() + "' " +
		"-X 'example.com/tool/buildinfo.Repository=" + repositoryPath + "' " +
		"-X 'example.com/tool/buildinfo.VersionString=1.4.0' " +
		"-X 'example.com/tool/buildinfo.DirtyFiles='\n"
	require.Equal(t, expectedOutput, run.standardOutput)
}

func TestApplicationGenerate(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, commitHash := createTaggedRepository(t)
	outputPath := filepath.Join(t.TempDir(), "internal", "buildmeta", "version_gen.go")

	run := runApplication(t, "generate", "--backend", "go-git", "--repository", repositoryPath, "--output", outputPath, "--package", "buildmeta")
	require.NoError(t, run.executionError)
	require.Empty(t, run.standardOutput)

	generatedSource, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	require.Contains(t, string(generatedSource), "package buildmeta\n")
	require.Contains(t, string(generatedSource), commitHash.String())
	require.Contains(t, string(generatedSource), `"v1.4.0"`)
}

func TestApplicationGenerateToStandardOutput(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, _ := createTaggedRepository(t)

	run := runApplication(t, "generate", "--backend", "go-git", "--repository", repositoryPath)
	require.NoError(t, run.executionError)
	require.True(t, strings.HasPrefix(run.standardOutput, "// Code generated by gitstamp. DO NOT EDIT.\n"))
	require.Contains(t, run.standardOutput, "package version\n")
}

func TestApplicationRejectsNonRepository(t *testing.T) {
	isolateUserConfiguration(t)

	run := runApplication(t, "status", "--backend", "go-git", "--repository", t.TempDir())
	require.Error(t, run.executionError)
	require.Contains(t, run.executionError.Error(), "not a git repository")
	require.Empty(t, run.standardOutput)
}

func TestApplicationUsesConfiguredGitExecutable(t *testing.T) {
	testCases := []struct {
		name        string
		environment map[string]string
		arguments   []string
		executable  string
	}{
		{
			name:       "flag",
			arguments:  []string{"--git", "/nonexistent/flag-git"},
			executable: "/nonexistent/flag-git",
		},
		{
			name:        "environment",
			environment: map[string]string{"GITSTAMP_TOOLS_COLLECT_GIT_EXECUTABLE": "/nonexistent/env-git"},
			executable:  "/nonexistent/env-git",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			isolateUserConfiguration(t)
			for environmentName, environmentValue := range testCase.environment {
				t.Setenv(environmentName, environmentValue)
			}

			arguments := append([]string{"status", "--backend", "git", "--repository", t.TempDir()}, testCase.arguments...)
			run := runApplication(t, arguments...)
			require.Error(t, run.executionError)

			var executionError execshell.CommandExecutionError
			require.ErrorAs(t, run.executionError, &executionError)
			require.Contains(t, run.executionError.Error(), testCase.executable)
			require.Empty(t, run.standardOutput)
		})
	}
}

func TestApplicationLogsToStandardError(t *testing.T) {
	isolateUserConfiguration(t)
	repositoryPath, _ := createTaggedRepository(t)

	run := runApplication(t, "status", "--backend", "go-git", "--repository", repositoryPath, "--log-level", "debug", "--log-format", "structured")
	require.NoError(t, run.executionError)
	require.Contains(t, run.standardError, `"msg":"repository snapshot collected"`)
	require.NotContains(t, run.standardOutput, "repository snapshot collected")
}

func TestApplicationWithoutSubcommandPrintsHelp(t *testing.T) {
	isolateUserConfiguration(t)

	run := runApplication(t)
	require.NoError(t, run.executionError)
	require.Contains(t, run.standardOutput, "Available Commands")
	require.Contains(t, run.standardOutput, "ldflags")
}
