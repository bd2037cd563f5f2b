package vcstest

import (
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/pescuma/hlaipf/lib/vcs"
)

// FakeBackend serves FakeRepository instances by path. Paths without a
// repository fail to open with vcs.ErrNotARepository.
type FakeBackend struct {
	Repos map[string]*FakeRepository
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Repos: map[string]*FakeRepository{},
	}
}

func (b *FakeBackend) Add(repo *FakeRepository) *FakeRepository {
	b.Repos[filepath.Clean(repo.path)] = repo
	return repo
}

func (b *FakeBackend) Open(path string) (vcs.Repository, error) {
	repo, ok := b.Repos[filepath.Clean(path)]
	if !ok {
		return nil, errors.Wrapf(vcs.ErrNotARepository, "%v", path)
	}

	return repo, nil
}

// FakeRepository is an in memory history. Each commit stores the full set of
// files it contains, mapped to their contents.
type FakeRepository struct {
	path    string
	head    string
	commits map[string]*FakeCommit

	// DiffErr is returned by every Diff call when set.
	DiffErr error
	// Diffs counts Diff calls.
	Diffs int
}

func NewFakeRepository(path string) *FakeRepository {
	return &FakeRepository{
		path:    path,
		commits: map[string]*FakeCommit{},
	}
}

// Commit adds a commit and moves head to it.
func (r *FakeRepository) Commit(id string, email string, when time.Time, message string, files map[string]string, parents ...string) *FakeCommit {
	commit := &FakeCommit{
		id: id,
		author: vcs.Signature{
			Name:  "Test",
			Email: email,
			When:  when,
		},
		message: message,
		tree:    &fakeTree{id: "tree-" + id, files: files},
	}
	for _, p := range parents {
		commit.parents = append(commit.parents, r.commits[p])
	}

	r.commits[id] = commit
	r.head = id

	return commit
}

func (r *FakeRepository) SetHead(id string) {
	r.head = id
}

func (r *FakeRepository) Path() string {
	return r.path
}

func (r *FakeRepository) ResolveHead(revision string) (string, error) {
	if revision == "" {
		revision = r.head
	}

	if _, ok := r.commits[revision]; !ok {
		return "", errors.Wrapf(vcs.ErrNoHead, "%v", r.path)
	}

	return revision, nil
}

func (r *FakeRepository) Walk(start string) (vcs.CommitIter, error) {
	first, ok := r.commits[start]
	if !ok {
		return nil, errors.Errorf("unknown commit %v", start)
	}

	seen := map[string]bool{}
	queue := []*FakeCommit{first}
	var commits []*FakeCommit
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if seen[c.id] {
			continue
		}
		seen[c.id] = true

		commits = append(commits, c)
		queue = append(queue, c.parents...)
	}

	sort.Slice(commits, func(i, j int) bool {
		a, b := commits[i], commits[j]
		if !a.author.When.Equal(b.author.When) {
			return a.author.When.After(b.author.When)
		}
		return a.id < b.id
	})

	return &fakeCommitIter{commits: commits}, nil
}

func (r *FakeRepository) Diff(from, to vcs.Tree) (vcs.ChangeSet, error) {
	r.Diffs++

	if r.DiffErr != nil {
		return nil, r.DiffErr
	}

	fromFiles := map[string]string{}
	if from != nil {
		fromFiles = from.(*fakeTree).files
	}

	toFiles := map[string]string{}
	if to != nil {
		toFiles = to.(*fakeTree).files
	}

	var result vcs.ChangeSet
	for name, contents := range toFiles {
		old, ok := fromFiles[name]
		switch {
		case !ok:
			result = append(result, vcs.Change{Type: vcs.FileCreated, Path: name})
		case old != contents:
			result = append(result, vcs.Change{Type: vcs.FileModified, Path: name, OldPath: name})
		}
	}
	for name := range fromFiles {
		if _, ok := toFiles[name]; !ok {
			result = append(result, vcs.Change{Type: vcs.FileDeleted, OldPath: name})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return changePath(result[i]) < changePath(result[j])
	})

	return result, nil
}

func changePath(c vcs.Change) string {
	if c.Path != "" {
		return c.Path
	}
	return c.OldPath
}

type fakeCommitIter struct {
	commits []*FakeCommit
}

func (i *fakeCommitIter) Next() (vcs.Commit, error) {
	if len(i.commits) == 0 {
		return nil, io.EOF
	}

	result := i.commits[0]
	i.commits = i.commits[1:]
	return result, nil
}

func (i *fakeCommitIter) Close() {
	i.commits = nil
}

type FakeCommit struct {
	id      string
	author  vcs.Signature
	message string
	parents []*FakeCommit
	tree    *fakeTree
}

func (c *FakeCommit) ID() string {
	return c.id
}

func (c *FakeCommit) Author() vcs.Signature {
	return c.author
}

func (c *FakeCommit) Message() string {
	return c.message
}

func (c *FakeCommit) NumParents() int {
	return len(c.parents)
}

func (c *FakeCommit) ParentTree(i int) (vcs.Tree, error) {
	if i >= len(c.parents) {
		return nil, errors.Errorf("commit %v has no parent %v", c.id, i)
	}

	return c.parents[i].tree, nil
}

func (c *FakeCommit) Tree() (vcs.Tree, error) {
	return c.tree, nil
}

type fakeTree struct {
	id    string
	files map[string]string
}

func (t *fakeTree) ID() string {
	return t.id
}
