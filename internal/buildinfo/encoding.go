package buildinfo

import (
	"net/url"
	"strings"

	"github.com/temirov/gitstamp/internal/report"
)

const (
	dirtyFileEntrySeparatorConstant = ","
	dirtyFileFieldSeparatorConstant = ":"
)

// EncodeDirtyFiles serializes dirty files into a single linker-safe string.
//
// Each entry is "<code>:<path>" with both fields path-escaped, so the result
// contains no spaces, quotes, or separators from the original values.
func EncodeDirtyFiles(dirtyFiles []report.DirtyFile) string {
	encodedEntries := make([]string, 0, len(dirtyFiles))
	for _, dirtyFile := range dirtyFiles {
		encodedEntries = append(encodedEntries, url.PathEscape(dirtyFile.Code.String())+dirtyFileFieldSeparatorConstant+url.PathEscape(dirtyFile.Path))
	}
	return strings.Join(encodedEntries, dirtyFileEntrySeparatorConstant)
}

// DecodeDirtyFiles parses a string produced by EncodeDirtyFiles. Malformed entries are skipped.
func DecodeDirtyFiles(encoded string) []report.DirtyFile {
	trimmedEncoded := strings.TrimSpace(encoded)
	if len(trimmedEncoded) == 0 {
		return nil
	}

	var dirtyFiles []report.DirtyFile
	for _, encodedEntry := range strings.Split(trimmedEncoded, dirtyFileEntrySeparatorConstant) {
		encodedCode, encodedPath, separatorFound := strings.Cut(encodedEntry, dirtyFileFieldSeparatorConstant)
		if !separatorFound {
			continue
		}

		code, codeError := url.PathUnescape(encodedCode)
		if codeError != nil {
			continue
		}

		path, pathError := url.PathUnescape(encodedPath)
		if pathError != nil || len(path) == 0 {
			continue
		}

		dirtyFiles = append(dirtyFiles, report.DirtyFile{Path: path, Code: report.ParseStatusCode(code)})
	}
	return dirtyFiles
}
