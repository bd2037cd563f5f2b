package workspace

import (
	"context"
	"io"

	"github.com/pescuma/hlaipf/lib/consoles"
	"github.com/pescuma/hlaipf/lib/locator"
	"github.com/pescuma/hlaipf/lib/repos"
	"github.com/pescuma/hlaipf/lib/scanner"
	"github.com/pescuma/hlaipf/lib/storages"
	"github.com/pescuma/hlaipf/lib/storages/orm"
	"github.com/pescuma/hlaipf/lib/vcs"
)

// Workspace holds what lives for the whole run: the console, the VCS backend and
// the optional result cache.
type Workspace struct {
	console consoles.Console
	backend vcs.Backend
	cache   storages.ResultCache
}

// NewWorkspace creates a workspace. An empty cacheFile disables the cache.
func NewWorkspace(console consoles.Console, cacheFile string) (*Workspace, error) {
	var cache storages.ResultCache
	if cacheFile != "" {
		var err error
		cache, err = orm.NewSqliteCache(cacheFile, console)
		if err != nil {
			return nil, err
		}
	}

	return &Workspace{
		console: console,
		backend: vcs.NewGitBackend(),
		cache:   cache,
	}, nil
}

func (w *Workspace) Close() error {
	if w.cache == nil {
		return nil
	}

	return w.cache.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

type ScanOptions struct {
	Author          string
	Branch          string
	Suffix          string
	SkipRootCommits bool
	Skip            []string
	Parallel        int
	Progress        io.Writer
}

func (w *Workspace) Scan(ctx context.Context, locations []string, opts *ScanOptions) (*scanner.Summary, error) {
	enumerator, err := repos.NewEnumerator(w.backend, &repos.Options{
		Skip: opts.Skip,
	})
	if err != nil {
		return nil, err
	}

	classifier := locator.NewClassifier(opts.Suffix)
	if opts.SkipRootCommits {
		classifier.RootCommits = locator.SkipRootCommits
	}

	s := scanner.NewScanner(w.console, enumerator, locator.NewLocator(classifier, &locator.Options{
		Branch: opts.Branch,
	}), w.cache)

	return s.Scan(ctx, locations, &scanner.Options{
		Author:   opts.Author,
		Parallel: opts.Parallel,
		Progress: opts.Progress,
	})
}
