package locator

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/hlaipf/lib/vcs"
)

type Options struct {
	// Branch is the revision the walk starts from. Empty means HEAD.
	Branch string
}

// Locator finds, in one repository, the newest commit by an author that the
// classifier matches.
type Locator struct {
	classifier *Classifier
	branch     string
}

func NewLocator(classifier *Classifier, opts *Options) *Locator {
	if opts == nil {
		opts = &Options{}
	}

	return &Locator{
		classifier: classifier,
		branch:     opts.Branch,
	}
}

func (l *Locator) Classifier() *Classifier {
	return l.classifier
}

// ResolveStart returns the commit the walk starts from. Fails with vcs.ErrNoHead
// when the repository has no commits.
func (l *Locator) ResolveStart(repo vcs.Repository) (string, error) {
	return repo.ResolveHead(l.branch)
}

// Locate returns nil, without error, when no commit matches.
func (l *Locator) Locate(ctx context.Context, repo vcs.Repository, author string) (*Result, error) {
	start, err := l.ResolveStart(repo)
	if err != nil {
		return nil, err
	}

	return l.LocateFrom(ctx, repo, start, author)
}

// LocateFrom walks history from start, newest author time first. The author
// matches when its email contains author.
func (l *Locator) LocateFrom(ctx context.Context, repo vcs.Repository, start string, author string) (*Result, error) {
	commits, err := repo.Walk(start)
	if err != nil {
		return nil, err
	}
	defer commits.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commit, err := commits.Next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%v: error walking history", repo.Path())
		}

		if !strings.Contains(commit.Author().Email, author) {
			continue
		}

		result := newResult(repo.Path(), commit)

		matches, err := l.classifier.Classify(repo, commit)
		if err != nil {
			return nil, errors.Wrapf(err, "%v: error classifying %v", repo.Path(), result.CommitID)
		}

		if matches {
			return &result, nil
		}
	}
}
