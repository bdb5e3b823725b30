package report

import (
	"bufio"
	"fmt"
	"io"
)

const (
	branchLineTemplateConstant     = "branch: %s\n"
	commitLineTemplateConstant     = "commit: %s\n"
	repositoryLineTemplateConstant = "repository: %s\n"
	versionLineTemplateConstant    = "version: %s\n"
	dirtyHeaderLineConstant        = "dirty:\n"
	dirtyFileLineTemplateConstant  = "  - %s\n"
)

// Options controls the optional sections of a report.
type Options struct {
	DirtyTracking bool
}

// Reporter writes repository status reports to an output stream.
type Reporter struct {
	options Options
}

// NewReporter constructs a Reporter with the provided options.
func NewReporter(options Options) Reporter {
	return Reporter{options: options}
}

// Write renders the status and version to the writer.
//
// The dirty section, including its header, is emitted only when dirty tracking is enabled.
func (reporter Reporter) Write(writer io.Writer, status RepositoryStatus, version string) error {
	bufferedWriter := bufio.NewWriter(writer)

	fmt.Fprintf(bufferedWriter, branchLineTemplateConstant, status.Branch)
	fmt.Fprintf(bufferedWriter, commitLineTemplateConstant, status.Commit)
	fmt.Fprintf(bufferedWriter, repositoryLineTemplateConstant, status.Repository)
	fmt.Fprintf(bufferedWriter, versionLineTemplateConstant, version)

	if reporter.options.DirtyTracking {
		bufferedWriter.WriteString(dirtyHeaderLineConstant)
		for _, dirtyFile := range status.DirtyFiles {
			fmt.Fprintf(bufferedWriter, dirtyFileLineTemplateConstant, dirtyFile.Path)
		}
	}

	return bufferedWriter.Flush()
}
