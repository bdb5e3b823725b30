package stamp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitstamp/internal/buildinfo"
	"github.com/temirov/gitstamp/internal/gitstatus"
)

const (
	// DefaultBuildInfoPackagePath is the package whose variables receive the linker assignments.
	DefaultBuildInfoPackagePath = "github.com/temirov/gitstamp/internal/buildinfo"

	branchVariableNameConstant         = "Branch"
	commitVariableNameConstant         = "Commit"
	repositoryVariableNameConstant     = "Repository"
	versionVariableNameConstant        = "VersionString"
	dirtyFilesVariableNameConstant     = "DirtyFiles"
	linkerFlagTemplateConstant         = "-X %s"
	linkerAssignmentTemplateConstant   = "%s.%s=%s"
	linkerFlagSeparatorConstant        = " "
	singleQuoteConstant                = "'"
	doubleQuoteConstant                = `"`
	invalidPackagePathMessageConstant  = "invalid package path"
	invalidPackagePathTemplateConstant = "%w: %q"
	unquotableValueMessageConstant     = "linker value contains both quote characters"
	unquotableValueTemplateConstant    = "%w: %s=%q"
)

// ErrInvalidPackagePath indicates a package path that cannot be used in a linker assignment.
var ErrInvalidPackagePath = errors.New(invalidPackagePathMessageConstant)

// ErrUnquotableLinkerValue indicates a value the go command's -ldflags splitter cannot carry.
var ErrUnquotableLinkerValue = errors.New(unquotableValueMessageConstant)

// LinkerVariable is one -X assignment target and its value.
type LinkerVariable struct {
	Name  string
	Value string
}

// LinkerVariables lists the buildinfo assignments for a snapshot in a stable order.
func LinkerVariables(snapshot gitstatus.Snapshot, version string) []LinkerVariable {
	return []LinkerVariable{
		{Name: branchVariableNameConstant, Value: snapshot.Branch},
		{Name: commitVariableNameConstant, Value: snapshot.Commit},
		{Name: repositoryVariableNameConstant, Value: snapshot.Repository},
		{Name: versionVariableNameConstant, Value: version},
		{Name: dirtyFilesVariableNameConstant, Value: buildinfo.EncodeDirtyFiles(snapshot.DirtyFiles)},
	}
}

// LinkerFlags renders the -X flags for the given package.
//
// Each assignment is quoted the way the go command splits -ldflags: single
// quotes, or double quotes when the assignment holds a single quote. The
// splitter has no escapes, so a value holding both quote characters is rejected.
func LinkerFlags(packagePath string, snapshot gitstatus.Snapshot, version string) (string, error) {
	trimmedPackagePath := strings.TrimSpace(packagePath)
	if len(trimmedPackagePath) == 0 || strings.ContainsAny(trimmedPackagePath, " \t\n'\"=") {
		return "", fmt.Errorf(invalidPackagePathTemplateConstant, ErrInvalidPackagePath, packagePath)
	}

	linkerVariables := LinkerVariables(snapshot, version)
	flags := make([]string, 0, len(linkerVariables))
	for _, linkerVariable := range linkerVariables {
		assignment := fmt.Sprintf(linkerAssignmentTemplateConstant, trimmedPackagePath, linkerVariable.Name, linkerVariable.Value)
		quotedAssignment, quoteError := quoteForLinker(assignment)
		if quoteError != nil {
			return "", fmt.Errorf(unquotableValueTemplateConstant, quoteError, linkerVariable.Name, linkerVariable.Value)
		}
		flags = append(flags, fmt.Sprintf(linkerFlagTemplateConstant, quotedAssignment))
	}
	return strings.Join(flags, linkerFlagSeparatorConstant), nil
}

func quoteForLinker(assignment string) (string, error) {
	switch {
	case !strings.Contains(assignment, singleQuoteConstant):
		return singleQuoteConstant + assignment + singleQuoteConstant, nil
	case !strings.Contains(assignment, doubleQuoteConstant):
		return doubleQuoteConstant + assignment + doubleQuoteConstant, nil
	default:
		return "", ErrUnquotableLinkerValue
	}
}
