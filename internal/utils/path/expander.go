package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant  = "~"
	forwardSlashConstant = "/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// Expander resolves user-supplied paths for repository, output, and configuration flags.
type Expander struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewExpander constructs an Expander using the operating system home lookup.
func NewExpander() *Expander {
	return NewExpanderWithProvider(os.UserHomeDir)
}

// NewExpanderWithProvider constructs an Expander with a custom home provider.
func NewExpanderWithProvider(provider HomeDirectoryProvider) *Expander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &Expander{homeDirectoryProvider: provider}
}

// Expand trims the candidate and replaces a leading "~" or "~/" with the home directory.
// Paths such as "~other" are returned unchanged.
func (expander *Expander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if !strings.HasPrefix(trimmedPath, tildeSymbolConstant) {
		return trimmedPath
	}

	remainder := strings.TrimPrefix(trimmedPath, tildeSymbolConstant)
	if len(remainder) > 0 && !strings.HasPrefix(remainder, forwardSlashConstant) && !strings.HasPrefix(remainder, string(os.PathSeparator)) {
		return trimmedPath
	}

	homeDirectory, homeError := expander.homeDirectoryProvider()
	if homeError != nil || len(homeDirectory) == 0 {
		return trimmedPath
	}
	return filepath.Join(homeDirectory, remainder)
}

// Absolute expands the candidate and resolves it against the working directory.
// An empty candidate resolves to the working directory.
func (expander *Expander) Absolute(candidatePath string) (string, error) {
	expandedPath := expander.Expand(candidatePath)
	if len(expandedPath) == 0 {
		expandedPath = "."
	}
	return filepath.Abs(expandedPath)
}
