package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstamp/internal/report"
)

const (
	testBranchConstant      = "main"
	testCommitConstant      = "abc123"
	testRepositoryConstant  = "origin/repo"
	testVersionConstant     = "1.2.3"
	testDirtyHeaderConstant = "dirty:"
)

func TestReporterWrite(testInstance *testing.T) {
	baseStatus := report.RepositoryStatus{
		Branch:     testBranchConstant,
		Commit:     testCommitConstant,
		Repository: testRepositoryConstant,
	}
	dirtyStatus := baseStatus
	dirtyStatus.DirtyFiles = []report.DirtyFile{
		{Path: "a.txt", Code: report.ParseStatusCode(" M")},
		{Path: "b/c.txt", Code: report.ParseStatusCode("??")},
	}

	headerLines := "branch: main\ncommit: abc123\nrepository: origin/repo\nversion: 1.2.3\n"

	testCases := []struct {
		name           string
		status         report.RepositoryStatus
		dirtyTracking  bool
		expectedOutput string
	}{
		{
			name:           "tracking_disabled_clean",
			status:         baseStatus,
			dirtyTracking:  false,
			expectedOutput: headerLines,
		},
		{
			name:           "tracking_disabled_ignores_dirty_files",
			status:         dirtyStatus,
			dirtyTracking:  false,
			expectedOutput: headerLines,
		},
		{
			name:           "tracking_enabled_without_files",
			status:         baseStatus,
			dirtyTracking:  true,
			expectedOutput: headerLines + "dirty:\n",
		},
		{
			name:           "tracking_enabled_with_files",
			status:         dirtyStatus,
			dirtyTracking:  true,
			expectedOutput: headerLines + "dirty:\n  - a.txt\n  - b/c.txt\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := report.NewReporter(report.Options{DirtyTracking: testCase.dirtyTracking})

			writeError := reporter.Write(outputBuffer, testCase.status, testVersionConstant)
			require.NoError(testInstance, writeError)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestReporterWriteLineOrder(testInstance *testing.T) {
	status := report.RepositoryStatus{
		Branch:     "feature/x: y",
		Commit:     "",
		Repository: "/srv/src/project",
	}

	outputBuffer := &bytes.Buffer{}
	reporter := report.NewReporter(report.Options{})
	require.NoError(testInstance, reporter.Write(outputBuffer, status, "v0"))

	lines := strings.Split(strings.TrimSuffix(outputBuffer.String(), "\n"), "\n")
	require.Equal(testInstance, []string{
		"branch: feature/x: y",
		"commit: ",
		"repository: /srv/src/project",
		"version: v0",
	}, lines)
	require.NotContains(testInstance, outputBuffer.String(), testDirtyHeaderConstant)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestReporterWriteSurfacesWriterErrors(testInstance *testing.T) {
	reporter := report.NewReporter(report.Options{DirtyTracking: true})
	writeError := reporter.Write(failingWriter{}, report.RepositoryStatus{}, testVersionConstant)
	require.Error(testInstance, writeError)
}

func TestParseStatusCode(testInstance *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedCode string
	}{
		{name: "modified_worktree", input: " M", expectedCode: " M"},
		{name: "untracked", input: "??", expectedCode: "??"},
		{name: "single_letter", input: "A", expectedCode: "A "},
		{name: "empty", input: "", expectedCode: "  "},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedCode, report.ParseStatusCode(testCase.input).String())
		})
	}
}
