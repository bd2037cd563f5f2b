package locator

import (
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/pkg/errors"

	"github.com/pescuma/hlaipf/lib/vcs"
	"github.com/pescuma/hlaipf/lib/vcs/vcstest"
)

func TestClassifier(t *testing.T) {
	testgroup.RunInParallel(t, &ClassifierTests{})
}

type ClassifierTests struct {
}

func day(d int) time.Time {
	return time.Date(2016, 3, d, 12, 0, 0, 0, time.UTC)
}

func (g *ClassifierTests) RootCommitAddingPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"index.php": "1"})

	matches, err := NewClassifier("").Classify(repo, root)

	t.NoError(err)
	t.True(matches)
}

func (g *ClassifierTests) RootCommitWithoutPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"readme.md": "1"})

	matches, err := NewClassifier("").Classify(repo, root)

	t.NoError(err)
	t.False(matches)
}

func (g *ClassifierTests) RootCommitSkippedByPolicy(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"index.php": "1"})

	classifier := NewClassifier("")
	classifier.RootCommits = SkipRootCommits

	matches, err := classifier.Classify(repo, root)

	t.NoError(err)
	t.False(matches)
	t.Equal(0, repo.Diffs)
}

func (g *ClassifierTests) OnlyModifiedCss(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"style.css": "1", "index.php": "1"})
	commit := repo.Commit("c2", "a@x.com", day(2), "css", map[string]string{"style.css": "2", "index.php": "1"}, "c1")

	matches, err := NewClassifier("").Classify(repo, commit)

	t.NoError(err)
	t.False(matches)
}

func (g *ClassifierTests) ModifiedCssAndAddedPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"style.css": "1"})
	commit := repo.Commit("c2", "a@x.com", day(2), "api", map[string]string{"style.css": "2", "api.php": "1"}, "c1")

	matches, err := NewClassifier("").Classify(repo, commit)

	t.NoError(err)
	t.True(matches)
}

func (g *ClassifierTests) ModifiedPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"api.php": "1"})
	commit := repo.Commit("c2", "a@x.com", day(2), "api", map[string]string{"api.php": "2"}, "c1")

	matches, err := NewClassifier("").Classify(repo, commit)

	t.NoError(err)
	t.True(matches)
}

func (g *ClassifierTests) DeletedPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"api.php": "1", "readme.md": "1"})
	commit := repo.Commit("c2", "a@x.com", day(2), "drop php", map[string]string{"readme.md": "1"}, "c1")

	matches, err := NewClassifier("").Classify(repo, commit)

	t.NoError(err)
	t.True(matches)
}

func (g *ClassifierTests) MergeIsNeverPhp(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"readme.md": "1"})
	repo.Commit("c2", "a@x.com", day(2), "side", map[string]string{"readme.md": "2"}, "c1")
	merge := repo.Commit("c3", "a@x.com", day(3), "merge", map[string]string{"readme.md": "2", "merge.php": "1"}, "c2", "c1")

	matches, err := NewClassifier("").Classify(repo, merge)

	t.NoError(err)
	t.False(matches)
	t.Equal(0, repo.Diffs)
}

func (g *ClassifierTests) SuffixIsCaseSensitive(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"INDEX.PHP": "1", "index.phps": "1"})

	matches, err := NewClassifier("").Classify(repo, root)

	t.NoError(err)
	t.False(matches)
}

func (g *ClassifierTests) CustomSuffix(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"main.go": "1"})

	matches, err := NewClassifier(".go").Classify(repo, root)

	t.NoError(err)
	t.True(matches)
}

func (g *ClassifierTests) DiffErrorsPropagate(t *testgroup.T) {
	repo := vcstest.NewFakeRepository("/r")
	root := repo.Commit("c1", "a@x.com", day(1), "root", map[string]string{"index.php": "1"})
	repo.DiffErr = errors.New("corrupt object")

	_, err := NewClassifier("").Classify(repo, root)

	t.ErrorContains(err, "corrupt object")
}

func (g *ClassifierTests) MatchesUsesOldPathOfDeletes(t *testgroup.T) {
	classifier := NewClassifier("")

	t.True(classifier.Matches(vcs.ChangeSet{{Type: vcs.FileDeleted, OldPath: "a.php"}}))
	t.False(classifier.Matches(vcs.ChangeSet{{Type: vcs.FileDeleted, OldPath: "a.md"}, {Type: vcs.FileCreated, Path: "b.md"}}))
	t.True(classifier.Matches(vcs.ChangeSet{{Type: vcs.FileModified, Path: "b.php", OldPath: "b.php"}}))
	t.False(classifier.Matches(nil))
}
