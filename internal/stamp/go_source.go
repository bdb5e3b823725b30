package stamp

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/temirov/gitstamp/internal/gitstatus"
)

const (
	// DefaultGeneratedPackageName is the package clause used when none is configured.
	DefaultGeneratedPackageName = "version"
	// DefaultGeneratedFileName names the source handed to the import formatter.
	DefaultGeneratedFileName = "version_gen.go"

	invalidPackageNameMessageConstant   = "invalid package name"
	invalidPackageNameTemplateConstant  = "%w: %q"
	renderSourceErrorTemplateConstant   = "render go source: %w"
	formatSourceErrorTemplateConstant   = "format go source: %w"
	generatedSourceTemplateNameConstant = "generated_source"
)

const generatedSourceTemplateConstant = `// Code generated by gitstamp. DO NOT EDIT.

package {{ .PackageName }}

// GitStatusRecord describes the repository state captured at generation time.
type GitStatusRecord struct {
	Branch string
	Commit string
	Repository string
	DirtyFiles []GitDirtyFile
}

// GitDirtyFile is an uncommitted path with its porcelain status letters.
type GitDirtyFile struct {
	Path string
	X byte
	Y byte
}

const (
	GitBranch     = {{ printf "%q" .Branch }}
	GitCommit     = {{ printf "%q" .Commit }}
	GitRepository = {{ printf "%q" .Repository }}
	GitTag        = {{ printf "%q" .Tag }}
	VersionString = {{ printf "%q" .Version }}
	GitDirty      = {{ .Dirty }}
)

// GitStatus returns the repository state captured at generation time.
func GitStatus() GitStatusRecord {
	return GitStatusRecord{
		Branch: GitBranch,
		Commit: GitCommit,
		Repository: GitRepository,
{{- if .DirtyFiles }}
		DirtyFiles: []GitDirtyFile{
{{- range .DirtyFiles }}
			{Path: {{ printf "%q" .Path }}, X: {{ printf "%q" .Code.X }}, Y: {{ printf "%q" .Code.Y }}},
{{- end }}
		},
{{- end }}
	}
}
`

// ErrInvalidPackageName indicates a package clause that is not a Go identifier.
var ErrInvalidPackageName = errors.New(invalidPackageNameMessageConstant)

var generatedSourceTemplate = template.Must(template.New(generatedSourceTemplateNameConstant).Parse(generatedSourceTemplateConstant))

type generatedSourceData struct {
	PackageName string
	gitstatus.Snapshot
	Version string
}

// GoSource renders a formatted Go file declaring the snapshot as constants.
func GoSource(packageName string, snapshot gitstatus.Snapshot, version string) ([]byte, error) {
	trimmedPackageName := strings.TrimSpace(packageName)
	if !token.IsIdentifier(trimmedPackageName) || trimmedPackageName == "_" {
		return nil, fmt.Errorf(invalidPackageNameTemplateConstant, ErrInvalidPackageName, packageName)
	}

	var renderedSource bytes.Buffer
	templateData := generatedSourceData{PackageName: trimmedPackageName, Snapshot: snapshot, Version: version}
	if renderError := generatedSourceTemplate.Execute(&renderedSource, templateData); renderError != nil {
		return nil, fmt.Errorf(renderSourceErrorTemplateConstant, renderError)
	}

	formattedSource, formatError := imports.Process(DefaultGeneratedFileName, renderedSource.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if formatError != nil {
		return nil, fmt.Errorf(formatSourceErrorTemplateConstant, formatError)
	}
	return formattedSource, nil
}
