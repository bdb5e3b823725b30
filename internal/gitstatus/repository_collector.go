package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/temirov/gitstamp/internal/gitrepo"
	"github.com/temirov/gitstamp/internal/report"
)

const (
	openRepositoryErrorTemplateConstant = "open git repo: %w"
	openWorktreeErrorTemplateConstant   = "open worktree: %w"
	readHeadErrorTemplateConstant       = "read HEAD: %w"
	readHeadCommitErrorTemplateConstant = "read HEAD commit: %w"
	readStatusErrorTemplateConstant     = "read worktree status: %w"
	readTagsErrorTemplateConstant       = "read tags: %w"
	resolveRootErrorTemplateConstant    = "resolve worktree root: %w"
)

// RepositoryCollector gathers repository facts in-process using go-git.
type RepositoryCollector struct{}

type tagCandidate struct {
	name       string
	commit     string
	commitTime time.Time
}

// NewRepositoryCollector constructs a go-git backed collector.
func NewRepositoryCollector() *RepositoryCollector {
	return &RepositoryCollector{}
}

// Collect opens the repository containing the configured path and assembles a Snapshot.
func (collector *RepositoryCollector) Collect(executionContext context.Context, options Options) (Snapshot, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return Snapshot{}, contextError
	}

	normalizedOptions, optionsError := normalizeOptions(options)
	if optionsError != nil {
		return Snapshot{}, optionsError
	}

	repository, openError := git.PlainOpenWithOptions(normalizedOptions.RepositoryPath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return Snapshot{}, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, normalizedOptions.RepositoryPath)
		}
		return Snapshot{}, fmt.Errorf(openRepositoryErrorTemplateConstant, openError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		if errors.Is(worktreeError, git.ErrIsBareRepository) {
			return Snapshot{}, fmt.Errorf(notRepositoryTemplateConstant, ErrNotRepository, normalizedOptions.RepositoryPath)
		}
		return Snapshot{}, fmt.Errorf(openWorktreeErrorTemplateConstant, worktreeError)
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return Snapshot{}, fmt.Errorf(readHeadErrorTemplateConstant, headError)
	}

	headCommit, headCommitError := repository.CommitObject(headReference.Hash())
	if headCommitError != nil {
		return Snapshot{}, fmt.Errorf(readHeadCommitErrorTemplateConstant, headCommitError)
	}

	snapshot := Snapshot{
		Branch:     detachedHeadBranchNameConstant,
		Commit:     headReference.Hash().String(),
		CommitTime: headCommit.Committer.When,
	}
	if headReference.Name().IsBranch() {
		snapshot.Branch = headReference.Name().Short()
	}

	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return Snapshot{}, fmt.Errorf(readStatusErrorTemplateConstant, statusError)
	}
	snapshot.DirtyFiles = dirtyFilesFromStatus(worktreeStatus)

	latestTag, tagsError := findLatestTag(repository)
	if tagsError != nil {
		return Snapshot{}, fmt.Errorf(readTagsErrorTemplateConstant, tagsError)
	}
	snapshot.Tag = latestTag.name
	snapshot.TaggedCommit = latestTag.commit

	repositoryIdentifier, repositoryError := resolveRepositoryIdentifier(repository, worktree, normalizedOptions)
	if repositoryError != nil {
		return Snapshot{}, repositoryError
	}
	snapshot.Repository = repositoryIdentifier

	return snapshot, nil
}

func dirtyFilesFromStatus(worktreeStatus git.Status) []report.DirtyFile {
	var dirtyFiles []report.DirtyFile
	for filePath, fileStatus := range worktreeStatus {
		if fileStatus == nil {
			continue
		}
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		dirtyFiles = append(dirtyFiles, report.DirtyFile{
			Path: filePath,
			Code: report.StatusCode{X: byte(fileStatus.Staging), Y: byte(fileStatus.Worktree)},
		})
	}

	sort.Slice(dirtyFiles, func(leftIndex int, rightIndex int) bool {
		return dirtyFiles[leftIndex].Path < dirtyFiles[rightIndex].Path
	})
	return dirtyFiles
}

// findLatestTag selects the tagged commit with the newest committer time.
// Several tags on that commit resolve to the greatest tag name.
func findLatestTag(repository *git.Repository) (tagCandidate, error) {
	tagReferences, tagsError := repository.Tags()
	if tagsError != nil {
		return tagCandidate{}, tagsError
	}
	defer tagReferences.Close()

	latest := tagCandidate{}
	iterationError := tagReferences.ForEach(func(reference *plumbing.Reference) error {
		taggedCommit, peelError := peelToCommit(repository, reference.Hash())
		if peelError != nil {
			return nil
		}

		candidate := tagCandidate{
			name:       reference.Name().Short(),
			commit:     taggedCommit.Hash.String(),
			commitTime: taggedCommit.Committer.When,
		}
		if len(latest.commit) == 0 || candidate.commitTime.After(latest.commitTime) ||
			(candidate.commitTime.Equal(latest.commitTime) && candidate.name > latest.name) {
			latest = candidate
		}
		return nil
	})
	if iterationError != nil {
		return tagCandidate{}, iterationError
	}
	return latest, nil
}

func peelToCommit(repository *git.Repository, hash plumbing.Hash) (*object.Commit, error) {
	tagObject, tagObjectError := repository.TagObject(hash)
	switch {
	case tagObjectError == nil:
		return tagObject.Commit()
	case errors.Is(tagObjectError, plumbing.ErrObjectNotFound):
		return repository.CommitObject(hash)
	default:
		return nil, tagObjectError
	}
}

func resolveRepositoryIdentifier(repository *git.Repository, worktree *git.Worktree, options Options) (string, error) {
	if options.RepositorySource == RepositorySourceRemote {
		remote, remoteError := repository.Remote(options.RemoteName)
		if remoteError == nil {
			if remoteURLs := remote.Config().URLs; len(remoteURLs) > 0 {
				return gitrepo.CanonicalIdentifier(remoteURLs[0]), nil
			}
		}
	}

	rootPath, rootError := filepath.Abs(worktree.Filesystem.Root())
	if rootError != nil {
		return "", fmt.Errorf(resolveRootErrorTemplateConstant, rootError)
	}
	return rootPath, nil
}
