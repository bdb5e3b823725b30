// Command versionreport prints the build metadata stamped into the binary.
//
// Build with -ldflags produced by "gitstamp ldflags" and, to include the dirty
// file section, with -tags gitdirty.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/temirov/gitstamp/internal/buildinfo"
	"github.com/temirov/gitstamp/internal/report"
)

const reportErrorTemplateConstant = "versionreport: %v\n"

// main exits 0 even when stdout cannot be written.
func main() {
	reportFailure(run(os.Stdout), os.Stderr)
}

func reportFailure(runError error, errorWriter io.Writer) {
	if runError != nil {
		_, _ = fmt.Fprintf(errorWriter, reportErrorTemplateConstant, runError)
	}
}

func run(writer io.Writer) error {
	reporter := report.NewReporter(report.Options{DirtyTracking: buildinfo.DirtyTrackingEnabled})
	return reporter.Write(writer, buildinfo.GitStatus(), buildinfo.Version())
}
