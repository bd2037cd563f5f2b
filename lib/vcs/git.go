package vcs

import (
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/pkg/errors"

	"github.com/pescuma/hlaipf/lib/utils"
)

type gitBackend struct{}

func NewGitBackend() Backend {
	return &gitBackend{}
}

func (b *gitBackend) Open(path string) (Repository, error) {
	path, err := utils.PathAbs(path)
	if err != nil {
		return nil, err
	}

	gitRepo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(ErrNotARepository, "%v", path)
		}

		return nil, errors.Wrapf(err, "error opening %v", path)
	}

	return &gitRepository{
		path: path,
		repo: gitRepo,
	}, nil
}

type gitRepository struct {
	path string
	repo *git.Repository
}

func (r *gitRepository) Path() string {
	return r.path
}

func (r *gitRepository) ResolveHead(revision string) (string, error) {
	if revision == "" {
		gitHead, err := r.repo.Head()
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return "", errors.Wrapf(ErrNoHead, "%v: HEAD", r.path)
			}

			return "", errors.Wrapf(err, "%v: error resolving HEAD", r.path)
		}

		return gitHead.Hash().String(), nil
	}

	for _, candidate := range strings.Split(revision, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		hash, err := r.repo.ResolveRevision(plumbing.Revision(candidate))
		if err == nil {
			return hash.String(), nil
		}

		if !revisionNotFound(err) {
			return "", errors.Wrapf(err, "%v: error resolving %v", r.path, candidate)
		}
	}

	return "", errors.Wrapf(ErrNoHead, "%v: no revision found with name: %v", r.path, revision)
}

func (r *gitRepository) Walk(start string) (CommitIter, error) {
	commitsIter, err := r.repo.Log(&git.LogOptions{
		From:  plumbing.NewHash(start),
		Order: git.LogOrderDFS,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%v: error walking from %v", r.path, start)
	}
	defer commitsIter.Close()

	var commits []*object.Commit
	err = commitsIter.ForEach(func(gitCommit *object.Commit) error {
		commits = append(commits, gitCommit)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%v: error walking from %v", r.path, start)
	}

	sort.Slice(commits, func(i, j int) bool {
		return newerCommit(commits[i], commits[j])
	})

	return &gitCommitIter{commits: commits}, nil
}

func revisionNotFound(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound)
}

// newerCommit orders by author time, then committer time, then hash, so the
// order is stable across runs.
func newerCommit(a, b *object.Commit) bool {
	if !a.Author.When.Equal(b.Author.When) {
		return a.Author.When.After(b.Author.When)
	}

	if !a.Committer.When.Equal(b.Committer.When) {
		return a.Committer.When.After(b.Committer.When)
	}

	return a.Hash.String() < b.Hash.String()
}

func (r *gitRepository) Diff(from, to Tree) (ChangeSet, error) {
	fromTree, err := toGitTree(from)
	if err != nil {
		return nil, err
	}

	toTree, err := toGitTree(to)
	if err != nil {
		return nil, err
	}

	gitChanges, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, errors.Wrapf(err, "%v: error computing diff", r.path)
	}

	result := make(ChangeSet, 0, len(gitChanges))
	for _, gitChange := range gitChanges {
		action, err := gitChange.Action()
		if err != nil {
			return nil, errors.Wrapf(err, "%v: error computing diff", r.path)
		}

		change := Change{
			Path:    gitChange.To.Name,
			OldPath: gitChange.From.Name,
		}

		switch action {
		case merkletrie.Insert:
			change.Type = FileCreated
		case merkletrie.Delete:
			change.Type = FileDeleted
		case merkletrie.Modify:
			change.Type = FileModified
		}

		result = append(result, change)
	}

	return result, nil
}

func toGitTree(tree Tree) (*object.Tree, error) {
	if tree == nil {
		return nil, nil
	}

	gt, ok := tree.(*gitTree)
	if !ok {
		return nil, errors.Errorf("unsupported tree type: %T", tree)
	}

	return gt.tree, nil
}

type gitCommitIter struct {
	commits []*object.Commit
	next    int
}

func (i *gitCommitIter) Next() (Commit, error) {
	if i.next >= len(i.commits) {
		return nil, io.EOF
	}

	result := &gitCommit{commit: i.commits[i.next]}

	// Release the reference so history already visited can be collected
	i.commits[i.next] = nil
	i.next++

	return result, nil
}

func (i *gitCommitIter) Close() {
	i.commits = nil
	i.next = 0
}

type gitCommit struct {
	commit *object.Commit
}

func (c *gitCommit) ID() string {
	return c.commit.Hash.String()
}

func (c *gitCommit) Author() Signature {
	return Signature{
		Name:  c.commit.Author.Name,
		Email: c.commit.Author.Email,
		When:  c.commit.Author.When,
	}
}

func (c *gitCommit) Message() string {
	return c.commit.Message
}

func (c *gitCommit) NumParents() int {
	return c.commit.NumParents()
}

func (c *gitCommit) ParentTree(i int) (Tree, error) {
	gitParent, err := c.commit.Parent(i)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading parent %v of %v", i, c.commit.Hash)
	}

	tree, err := gitParent.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "error loading tree of %v", gitParent.Hash)
	}

	return &gitTree{tree: tree}, nil
}

func (c *gitCommit) Tree() (Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "error loading tree of %v", c.commit.Hash)
	}

	return &gitTree{tree: tree}, nil
}

type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) ID() string {
	return t.tree.Hash.String()
}
