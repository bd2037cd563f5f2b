package vcstest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo builds a real repository on disk with go-git, so tests do not need
// a git binary.
type GitRepo struct {
	Path string

	t        *testing.T
	repo     *git.Repository
	worktree *git.Worktree
}

func NewGitRepo(t *testing.T, path string) *GitRepo {
	t.Helper()

	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	return &GitRepo{
		Path:     path,
		t:        t,
		repo:     repo,
		worktree: worktree,
	}
}

func (r *GitRepo) Write(name string, contents string) *GitRepo {
	r.t.Helper()

	path := filepath.Join(r.Path, filepath.FromSlash(name))

	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := r.worktree.Add(name)
	require.NoError(r.t, err)

	return r
}

func (r *GitRepo) Remove(name string) *GitRepo {
	r.t.Helper()

	_, err := r.worktree.Remove(name)
	require.NoError(r.t, err)

	return r
}

// Commit commits the staged changes on top of HEAD and returns the commit hash.
func (r *GitRepo) Commit(email string, when time.Time, message string) string {
	r.t.Helper()

	return r.CommitWithParents(email, when, message)
}

// CommitAt commits the staged changes with different author and committer
// times.
func (r *GitRepo) CommitAt(email string, authored time.Time, committed time.Time, message string) string {
	r.t.Helper()

	return r.commit(email, authored, committed, message)
}

// CommitWithParents commits the staged changes with explicit parents. Passing
// two or more parents creates a merge commit.
func (r *GitRepo) CommitWithParents(email string, when time.Time, message string, parents ...string) string {
	r.t.Helper()

	return r.commit(email, when, when, message, parents...)
}

func (r *GitRepo) commit(email string, authored time.Time, committed time.Time, message string, parents ...string) string {
	r.t.Helper()

	opts := &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: email,
			When:  authored,
		},
		Committer: &object.Signature{
			Name:  "Test",
			Email: email,
			When:  committed,
		},
	}
	for _, p := range parents {
		opts.Parents = append(opts.Parents, plumbing.NewHash(p))
	}

	hash, err := r.worktree.Commit(message, opts)
	require.NoError(r.t, err)

	return hash.String()
}
