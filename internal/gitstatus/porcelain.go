package gitstatus

import (
	"strings"

	"github.com/temirov/gitstamp/internal/report"
)

const (
	porcelainRecordSeparatorConstant = "\x00"
	porcelainCodeLengthConstant      = 2
	porcelainPathOffsetConstant      = 3
	porcelainRenamedCodeConstant     = 'R'
	porcelainCopiedCodeConstant      = 'C'
)

// ParsePorcelain converts `git status --porcelain -z` output into dirty files.
//
// Records are "XY path". Renames and copies are followed by a record holding
// the original path, which is consumed without producing an entry.
func ParsePorcelain(output string) []report.DirtyFile {
	records := strings.Split(output, porcelainRecordSeparatorConstant)

	var dirtyFiles []report.DirtyFile
	for recordIndex := 0; recordIndex < len(records); recordIndex++ {
		record := records[recordIndex]
		if len(record) <= porcelainPathOffsetConstant {
			continue
		}

		statusCode := report.ParseStatusCode(record[:porcelainCodeLengthConstant])
		dirtyFiles = append(dirtyFiles, report.DirtyFile{Path: record[porcelainPathOffsetConstant:], Code: statusCode})

		if isRenameOrCopy(statusCode) {
			recordIndex++
		}
	}
	return dirtyFiles
}

func isRenameOrCopy(statusCode report.StatusCode) bool {
	for _, code := range []byte{statusCode.X, statusCode.Y} {
		if code == porcelainRenamedCodeConstant || code == porcelainCopiedCodeConstant {
			return true
		}
	}
	return false
}
