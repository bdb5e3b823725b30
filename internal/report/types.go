package report

const (
	statusCodeUnmodifiedConstant = ' '
)

// StatusCode mirrors the two-letter porcelain status of a dirty file.
type StatusCode struct {
	X byte
	Y byte
}

// ParseStatusCode converts a porcelain status prefix such as "M " or "??" into a StatusCode.
func ParseStatusCode(porcelainCode string) StatusCode {
	statusCode := StatusCode{X: statusCodeUnmodifiedConstant, Y: statusCodeUnmodifiedConstant}
	if len(porcelainCode) > 0 {
		statusCode.X = porcelainCode[0]
	}
	if len(porcelainCode) > 1 {
		statusCode.Y = porcelainCode[1]
	}
	return statusCode
}

// String returns the two-letter porcelain form of the code.
func (statusCode StatusCode) String() string {
	return string([]byte{statusCode.X, statusCode.Y})
}

// DirtyFile identifies a path whose contents differ from the last commit.
type DirtyFile struct {
	Path string
	Code StatusCode
}

// RepositoryStatus is the build-time snapshot of the repository a binary was built from.
type RepositoryStatus struct {
	Branch     string
	Commit     string
	Repository string
	DirtyFiles []DirtyFile
}
