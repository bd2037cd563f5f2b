package vcs

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotARepository = errors.New("not a repository")
	ErrNoHead         = errors.New("no resolvable head")
)

// Backend opens repositories. Open fails with ErrNotARepository when the path
// does not hold one.
type Backend interface {
	Open(path string) (Repository, error)
}

// Repository is owned by a single caller at a time. It is not safe for
// concurrent use.
type Repository interface {
	// Path returns the root directory of the repository.
	Path() string

	// ResolveHead returns the commit ID the walk should start from. An empty
	// revision means HEAD. Fails with ErrNoHead when nothing can be resolved.
	ResolveHead(revision string) (string, error)

	// Walk returns every commit reachable from start exactly once, ordered by
	// author time, newest first.
	Walk(start string) (CommitIter, error)

	// Diff computes the changes from one tree to another. A nil tree is the
	// empty tree.
	Diff(from, to Tree) (ChangeSet, error)
}

type CommitIter interface {
	// Next returns io.EOF after the last commit.
	Next() (Commit, error)
	Close()
}

type Commit interface {
	ID() string
	Author() Signature
	Message() string
	NumParents() int
	ParentTree(i int) (Tree, error)
	Tree() (Tree, error)
}

type Tree interface {
	ID() string
}

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type ChangeType int

const (
	FileCreated ChangeType = iota
	FileModified
	FileDeleted
)

func (t ChangeType) String() string {
	switch t {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

type Change struct {
	Type ChangeType
	// Path after the change. Empty for deleted files.
	Path    string
	OldPath string
}

type ChangeSet []Change
