package gitstatus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstamp/internal/gitstatus"
	"github.com/temirov/gitstamp/internal/report"
)

type repositoryFixture struct {
	path       string
	repository *git.Repository
	worktree   *git.Worktree
}

func newRepositoryFixture(testInstance *testing.T) repositoryFixture {
	testInstance.Helper()

	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)

	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)

	return repositoryFixture{path: repositoryPath, repository: repository, worktree: worktree}
}

func (fixture repositoryFixture) writeFile(testInstance *testing.T, relativePath string, content string) {
	testInstance.Helper()

	absolutePath := filepath.Join(fixture.path, relativePath)
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o600))
}

func (fixture repositoryFixture) commit(testInstance *testing.T, relativePath string, content string, when time.Time) plumbing.Hash {
	testInstance.Helper()

	fixture.writeFile(testInstance, relativePath, content)
	_, addError := fixture.worktree.Add(relativePath)
	require.NoError(testInstance, addError)

	commitHash, commitError := fixture.worktree.Commit("update "+relativePath, &git.CommitOptions{
		Author: &object.Signature{Name: "Gitstamp Test", Email: "test@example.com", When: when},
	})
	require.NoError(testInstance, commitError)
	return commitHash
}

func resolvedPath(testInstance *testing.T, path string) string {
	testInstance.Helper()

	evaluatedPath, evaluationError := filepath.EvalSymlinks(path)
	require.NoError(testInstance, evaluationError)
	return evaluatedPath
}

func TestRepositoryCollectorCollect(testInstance *testing.T) {
	fixture := newRepositoryFixture(testInstance)
	firstCommitTime := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	secondCommitTime := firstCommitTime.Add(48 * time.Hour)

	taggedCommit := fixture.commit(testInstance, "README.md", "first\n", firstCommitTime)
	_, tagError := fixture.repository.CreateTag("v1.0.0", taggedCommit, nil)
	require.NoError(testInstance, tagError)

	headCommit := fixture.commit(testInstance, "README.md", "second\n", secondCommitTime)
	fixture.writeFile(testInstance, "README.md", "modified\n")
	fixture.writeFile(testInstance, "notes/todo.txt", "untracked\n")

	collector := gitstatus.NewRepositoryCollector()
	snapshot, collectError := collector.Collect(context.Background(), gitstatus.Options{RepositoryPath: fixture.path})
	require.NoError(testInstance, collectError)

	require.Equal(testInstance, "master", snapshot.Branch)
	require.Equal(testInstance, headCommit.String(), snapshot.Commit)
	require.Equal(testInstance, "v1.0.0", snapshot.Tag)
	require.Equal(testInstance, taggedCommit.String(), snapshot.TaggedCommit)
	require.True(testInstance, snapshot.CommitTime.Equal(secondCommitTime))
	require.Equal(testInstance, resolvedPath(testInstance, fixture.path), resolvedPath(testInstance, snapshot.Repository))
	require.Equal(testInstance, []report.DirtyFile{
		{Path: "README.md", Code: report.ParseStatusCode(" M")},
		{Path: "notes/todo.txt", Code: report.ParseStatusCode("??")},
	}, snapshot.DirtyFiles)
}

func TestRepositoryCollectorPrefersNewestAnnotatedTag(testInstance *testing.T) {
	fixture := newRepositoryFixture(testInstance)
	baseTime := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)
	tagger := &object.Signature{Name: "Gitstamp Test", Email: "test@example.com", When: baseTime}

	olderCommit := fixture.commit(testInstance, "main.go", "package main\n", baseTime)
	_, olderTagError := fixture.repository.CreateTag("v0.9.0", olderCommit, nil)
	require.NoError(testInstance, olderTagError)

	newerCommit := fixture.commit(testInstance, "main.go", "package main\n\nfunc main() {}\n", baseTime.Add(time.Hour))
	_, annotatedTagError := fixture.repository.CreateTag("v1.1.0", newerCommit, &git.CreateTagOptions{Tagger: tagger, Message: "release v1.1.0"})
	require.NoError(testInstance, annotatedTagError)
	_, aliasTagError := fixture.repository.CreateTag("v1.0.9", newerCommit, nil)
	require.NoError(testInstance, aliasTagError)

	snapshot, collectError := gitstatus.NewRepositoryCollector().Collect(context.Background(), gitstatus.Options{RepositoryPath: fixture.path})
	require.NoError(testInstance, collectError)

	require.Equal(testInstance, "v1.1.0", snapshot.Tag)
	require.Equal(testInstance, newerCommit.String(), snapshot.TaggedCommit)
	require.Equal(testInstance, newerCommit.String(), snapshot.Commit)
	require.Empty(testInstance, snapshot.DirtyFiles)
}

func TestRepositoryCollectorDetachedHeadAndRemote(testInstance *testing.T) {
	fixture := newRepositoryFixture(testInstance)
	commitHash := fixture.commit(testInstance, "go.mod", "module example.com/demo\n", time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))

	_, remoteError := fixture.repository.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/temirov/gitstamp.git"},
	})
	require.NoError(testInstance, remoteError)

	require.NoError(testInstance, fixture.worktree.Checkout(&git.CheckoutOptions{Hash: commitHash}))

	snapshot, collectError := gitstatus.NewRepositoryCollector().Collect(context.Background(), gitstatus.Options{
		RepositoryPath:   fixture.path,
		RepositorySource: gitstatus.RepositorySourceRemote,
	})
	require.NoError(testInstance, collectError)

	require.Equal(testInstance, "HEAD", snapshot.Branch)
	require.Equal(testInstance, commitHash.String(), snapshot.Commit)
	require.Equal(testInstance, "github.com/temirov/gitstamp", snapshot.Repository)
	require.Empty(testInstance, snapshot.Tag)
}

func TestRepositoryCollectorDetectsRepositoryFromSubdirectory(testInstance *testing.T) {
	fixture := newRepositoryFixture(testInstance)
	fixture.commit(testInstance, "cmd/tool/main.go", "package main\n", time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))

	snapshot, collectError := gitstatus.NewRepositoryCollector().Collect(context.Background(), gitstatus.Options{
		RepositoryPath: filepath.Join(fixture.path, "cmd", "tool"),
	})
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, resolvedPath(testInstance, fixture.path), resolvedPath(testInstance, snapshot.Repository))
}

func TestRepositoryCollectorNotRepository(testInstance *testing.T) {
	_, collectError := gitstatus.NewRepositoryCollector().Collect(context.Background(), gitstatus.Options{RepositoryPath: testInstance.TempDir()})
	require.ErrorIs(testInstance, collectError, gitstatus.ErrNotRepository)
}

func TestRepositoryCollectorHonorsCancelledContext(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, collectError := gitstatus.NewRepositoryCollector().Collect(cancelledContext, gitstatus.Options{})
	require.ErrorIs(testInstance, collectError, context.Canceled)
}
