package scanner

import (
	"context"
	"io"
	"path/filepath"
	"sort"

	"github.com/aquilax/truncate"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/pescuma/hlaipf/lib/consoles"
	"github.com/pescuma/hlaipf/lib/locator"
	"github.com/pescuma/hlaipf/lib/repos"
	"github.com/pescuma/hlaipf/lib/storages"
	"github.com/pescuma/hlaipf/lib/utils"
	"github.com/pescuma/hlaipf/lib/vcs"
)

type Options struct {
	// Author is matched as a substring of the commit author email.
	Author string
	// Parallel is the number of repositories processed at the same time. Zero or
	// one processes them one after the other.
	Parallel int
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

type Failure struct {
	RepositoryPath string
	Err            error
}

type Summary struct {
	// Latest is nil when no repository had a match.
	Latest       *locator.Result
	Results      []locator.Result
	Repositories int
	Failures     []Failure
}

// Scanner finds the newest matching commit over every repository under a set
// of roots. A repository that fails is reported in the summary and does not
// stop the scan.
type Scanner struct {
	console    consoles.Console
	enumerator *repos.Enumerator
	locator    *locator.Locator
	cache      storages.ResultCache
}

// NewScanner creates a scanner. cache can be nil.
func NewScanner(console consoles.Console, enumerator *repos.Enumerator, locator *locator.Locator, cache storages.ResultCache) *Scanner {
	return &Scanner{
		console:    console,
		enumerator: enumerator,
		locator:    locator,
		cache:      cache,
	}
}

type outcome struct {
	path   string
	result *locator.Result
	err    error
}

func (s *Scanner) Scan(ctx context.Context, roots []string, opts *Options) (*Summary, error) {
	summary := &Summary{}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = utils.NewProgressBar(-1, opts.Progress)
		defer func() { _ = bar.Finish() }()
	}

	add := func(o outcome) {
		summary.Repositories++

		if bar != nil {
			bar.Describe(truncate.Truncate(filepath.Base(o.path), 30, "...", truncate.PositionEnd))
			_ = bar.Add(1)
		}

		switch {
		case o.err == nil && o.result != nil:
			summary.Results = append(summary.Results, *o.result)

		case o.err == nil:
			// No match

		case errors.Is(o.err, context.Canceled) || errors.Is(o.err, context.DeadlineExceeded):
			// Stopped before finishing, so this is not a failure of the repository

		default:
			summary.Failures = append(summary.Failures, Failure{RepositoryPath: o.path, Err: o.err})

			if bar != nil {
				_ = bar.Clear()
			}
			if errors.Is(o.err, vcs.ErrNoHead) {
				s.console.Warnf("Skipping '%v': no commits to walk\n", o.path)
			} else {
				s.console.Warnf("Skipping '%v': %v\n", o.path, o.err)
			}
		}
	}

	if opts.Parallel > 1 {
		s.scanParallel(ctx, roots, opts, add)
	} else {
		s.scanSequential(ctx, roots, opts, add)
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].NewerThan(summary.Results[j])
	})

	if latest, ok := locator.Aggregate(summary.Results); ok {
		summary.Latest = &latest
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	return summary, nil
}

func (s *Scanner) scanSequential(ctx context.Context, roots []string, opts *Options, add func(outcome)) {
	s.enumerate(ctx, roots, func(repo vcs.Repository) bool {
		add(s.locate(ctx, repo, opts.Author))
		return true
	})
}

func (s *Scanner) scanParallel(ctx context.Context, roots []string, opts *Options, add func(outcome)) {
	group := utils.NewProcessGroup(ctx, func(ctx context.Context, repo vcs.Repository) outcome {
		return s.locate(ctx, repo, opts.Author)
	}, utils.ParallelOptions{Routines: opts.Parallel})

	go func() {
		defer group.FinishedInput()

		s.enumerate(ctx, roots, group.Submit)
	}()

	for o := range group.Output {
		add(o)
	}
}

// enumerate hands each repository to cb, which owns it from then on. A
// repository reachable from more than one root is handed over once. Stops when
// cb returns false or the context is cancelled.
func (s *Scanner) enumerate(ctx context.Context, roots []string, cb func(vcs.Repository) bool) {
	seen := set.New[string](100)

	for _, root := range roots {
		if !s.enumerateRoot(ctx, root, seen, cb) {
			return
		}
	}
}

func (s *Scanner) enumerateRoot(ctx context.Context, root string, seen *set.Set[string], cb func(vcs.Repository) bool) bool {
	if !utils.IsDir(root) {
		s.console.Printf("Ignoring '%v': not a directory\n", root)
		return true
	}

	iter := s.enumerator.Enumerate(root)
	defer iter.Close()

	for ctx.Err() == nil {
		repo, ok := iter.Next()
		if !ok {
			break
		}

		if !seen.Insert(repo.Path()) {
			continue
		}

		if !cb(repo) {
			return false
		}
	}

	if err := iter.Err(); err != nil {
		s.console.Warnf("Error listing '%v': %v\n", root, err)
	}

	return ctx.Err() == nil
}

func (s *Scanner) locate(ctx context.Context, repo vcs.Repository, author string) outcome {
	result := outcome{path: repo.Path()}

	start, err := s.locator.ResolveStart(repo)
	if err != nil {
		result.err = err
		return result
	}

	key := storages.CacheKey{
		RepositoryPath: repo.Path(),
		Start:          start,
		Author:         author,
		Suffix:         s.locator.Classifier().Suffix,
		RootCommits:    s.locator.Classifier().RootCommits,
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(key)
		if err != nil {
			s.console.Warnf("Ignoring cache for '%v': %v\n", repo.Path(), err)
		} else if found {
			result.result = cached
			return result
		}
	}

	result.result, result.err = s.locator.LocateFrom(ctx, repo, start, author)
	if result.err != nil {
		return result
	}

	if result.result != nil {
		s.console.Printf("%v: found %v at %v\n", filepath.Base(repo.Path()), result.result.CommitID, result.result.CommitTime.UTC().Format("2006-01-02 15:04"))
	}

	if s.cache != nil {
		err = s.cache.Put(key, result.result)
		if err != nil {
			s.console.Warnf("Could not cache result for '%v': %v\n", repo.Path(), err)
		}
	}

	return result
}
