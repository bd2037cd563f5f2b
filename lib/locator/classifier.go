package locator

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pescuma/hlaipf/lib/vcs"
)

const DefaultSuffix = ".php"

type RootCommitPolicy int

const (
	// InspectRootCommits diffs root commits against the empty tree.
	InspectRootCommits RootCommitPolicy = iota
	// SkipRootCommits never matches root commits.
	SkipRootCommits
)

// Classifier decides if a commit touches a file with the tracked suffix. Merge
// commits are never inspected and never match.
type Classifier struct {
	Suffix      string
	RootCommits RootCommitPolicy
}

func NewClassifier(suffix string) *Classifier {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	return &Classifier{
		Suffix:      suffix,
		RootCommits: InspectRootCommits,
	}
}

func (c *Classifier) Classify(repo vcs.Repository, commit vcs.Commit) (bool, error) {
	switch commit.NumParents() {
	case 0:
		if c.RootCommits == SkipRootCommits {
			return false, nil
		}

		return c.diffMatches(repo, commit, nil)

	case 1:
		parentTree, err := commit.ParentTree(0)
		if err != nil {
			return false, err
		}

		return c.diffMatches(repo, commit, parentTree)

	default:
		return false, nil
	}
}

func (c *Classifier) diffMatches(repo vcs.Repository, commit vcs.Commit, parentTree vcs.Tree) (bool, error) {
	tree, err := commit.Tree()
	if err != nil {
		return false, err
	}

	changes, err := repo.Diff(parentTree, tree)
	if err != nil {
		return false, err
	}

	return c.Matches(changes), nil
}

// Matches checks the path of every change. Deletions have no new path, so
// their old one is used.
func (c *Classifier) Matches(changes vcs.ChangeSet) bool {
	return lo.SomeBy(changes, func(change vcs.Change) bool {
		path := change.Path
		if path == "" {
			path = change.OldPath
		}

		return strings.HasSuffix(path, c.Suffix)
	})
}
