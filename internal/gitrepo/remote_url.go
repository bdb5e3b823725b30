package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	scpUserSeparatorConstant          = "@"
	scpHostSeparatorConstant          = ":"
	schemeSeparatorConstant           = "://"
	identifierSeparatorConstant       = "/"
	repositorySuffixConstant          = ".git"
	remoteParseErrorTemplateConstant  = "%s: %q"
	emptyRemoteMessageConstant        = "remote url is empty"
	unrecognizedRemoteMessageConstant = "remote url is not a hosted repository"
	missingOwnerMessageConstant       = "remote url lacks an owner path"
)

// RemoteScheme names the transport a remote URL was written with.
type RemoteScheme string

// Remote schemes recognized by ParseRemoteURL.
const (
	RemoteSchemeSCP   RemoteScheme = RemoteScheme("scp")
	RemoteSchemeSSH   RemoteScheme = RemoteScheme("ssh")
	RemoteSchemeHTTPS RemoteScheme = RemoteScheme("https")
	RemoteSchemeHTTP  RemoteScheme = RemoteScheme("http")
	RemoteSchemeGit   RemoteScheme = RemoteScheme("git")
)

// RemoteURL is a hosted repository location stripped of credentials, port and ".git" suffix.
type RemoteURL struct {
	Scheme     RemoteScheme
	Host       string
	Owner      string
	Repository string
}

// Identifier renders the remote as "host/owner/repository".
func (remote RemoteURL) Identifier() string {
	return strings.Join([]string{remote.Host, remote.Owner, remote.Repository}, identifierSeparatorConstant)
}

// RemoteURLParseError reports a remote string that does not name a hosted repository.
type RemoteURLParseError struct {
	Remote string
	Reason string
}

func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteParseErrorTemplateConstant, parseError.Reason, parseError.Remote)
}

// ParseRemoteURL accepts scp-like ("git@host:owner/repo.git") and scheme-based remotes.
// Nested group paths keep every segment but the last in Owner.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: emptyRemoteMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeSeparatorConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	return parseSCPRemote(trimmedRemote)
}

func parseSchemeRemote(remote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil || len(parsedURL.Hostname()) == 0 {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: unrecognizedRemoteMessageConstant}
	}

	scheme := RemoteScheme(strings.ToLower(parsedURL.Scheme))
	switch scheme {
	case RemoteSchemeSSH, RemoteSchemeHTTPS, RemoteSchemeHTTP, RemoteSchemeGit:
	default:
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: unrecognizedRemoteMessageConstant}
	}

	return buildRemoteURL(remote, scheme, parsedURL.Hostname(), parsedURL.Path)
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	hostSeparatorIndex := strings.Index(remote, scpHostSeparatorConstant)
	if hostSeparatorIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: unrecognizedRemoteMessageConstant}
	}

	userAndHost := remote[:hostSeparatorIndex]
	if strings.Contains(userAndHost, identifierSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: unrecognizedRemoteMessageConstant}
	}
	if userSeparatorIndex := strings.LastIndex(userAndHost, scpUserSeparatorConstant); userSeparatorIndex >= 0 {
		userAndHost = userAndHost[userSeparatorIndex+1:]
	}

	return buildRemoteURL(remote, RemoteSchemeSCP, userAndHost, remote[hostSeparatorIndex+1:])
}

func buildRemoteURL(remote string, scheme RemoteScheme, host string, repositoryPath string) (RemoteURL, error) {
	if len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: unrecognizedRemoteMessageConstant}
	}

	trimmedPath := strings.TrimSuffix(strings.Trim(repositoryPath, identifierSeparatorConstant), repositorySuffixConstant)
	ownerSeparatorIndex := strings.LastIndex(trimmedPath, identifierSeparatorConstant)
	if ownerSeparatorIndex <= 0 || ownerSeparatorIndex == len(trimmedPath)-1 {
		return RemoteURL{}, RemoteURLParseError{Remote: remote, Reason: missingOwnerMessageConstant}
	}

	return RemoteURL{
		Scheme:     scheme,
		Host:       strings.ToLower(host),
		Owner:      trimmedPath[:ownerSeparatorIndex],
		Repository: trimmedPath[ownerSeparatorIndex+1:],
	}, nil
}

// CanonicalIdentifier renders a remote as "host/owner/repository".
//
// Remotes that cannot be parsed, such as local paths, are returned trimmed but otherwise unchanged.
func CanonicalIdentifier(remote string) string {
	parsedRemote, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return strings.TrimSpace(remote)
	}
	return parsedRemote.Identifier()
}
