package repos

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/pescuma/hlaipf/lib/utils"
	"github.com/pescuma/hlaipf/lib/vcs"
)

const readDirBatch = 64

type Options struct {
	// Skip has glob patterns matched against entry names. Matching entries are
	// not opened.
	Skip []string
}

// Enumerator finds repositories in the immediate subdirectories of roots. It
// keeps no state between calls, so each Enumerate lists the root again.
type Enumerator struct {
	backend vcs.Backend
	skip    []string
}

func NewEnumerator(backend vcs.Backend, opts *Options) (*Enumerator, error) {
	if opts == nil {
		opts = &Options{}
	}

	for _, pattern := range opts.Skip {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid skip pattern: %v", pattern)
		}
	}

	return &Enumerator{
		backend: backend,
		skip:    opts.Skip,
	}, nil
}

// Enumerate lazily lists the repositories under root. A root that is not a
// readable directory produces nothing.
func (e *Enumerator) Enumerate(root string) *Iter {
	result := &Iter{enumerator: e}

	root, err := utils.PathAbs(root)
	if err != nil || !utils.IsDir(root) {
		return result
	}

	dir, err := os.Open(root)
	if err != nil {
		result.err = errors.Wrapf(err, "error reading %v", root)
		return result
	}

	result.root = root
	result.dir = dir
	return result
}

func (e *Enumerator) skipped(name string) bool {
	for _, pattern := range e.skip {
		if match, _ := doublestar.Match(pattern, name); match {
			return true
		}
	}

	return false
}

// Iter is single pass. Enumerate again to restart.
type Iter struct {
	enumerator *Enumerator
	root       string
	dir        *os.File
	pending    []os.DirEntry
	err        error
}

// Next returns the next repository, or false when there are no more.
func (i *Iter) Next() (vcs.Repository, bool) {
	for {
		if len(i.pending) == 0 && !i.fill() {
			return nil, false
		}

		entry := i.pending[0]
		i.pending = i.pending[1:]

		if i.enumerator.skipped(entry.Name()) {
			continue
		}

		repo, err := i.enumerator.backend.Open(filepath.Join(i.root, entry.Name()))
		if err != nil {
			continue
		}

		return repo, true
	}
}

func (i *Iter) fill() bool {
	if i.dir == nil {
		return false
	}

	entries, err := i.dir.ReadDir(readDirBatch)
	if err != nil && err != io.EOF {
		i.err = errors.Wrapf(err, "error reading %v", i.root)
	}

	if len(entries) == 0 {
		_ = i.Close()
		return false
	}

	i.pending = entries
	return true
}

// Err returns the error that stopped reading the root, if any.
func (i *Iter) Err() error {
	return i.err
}

func (i *Iter) Close() error {
	if i.dir == nil {
		return nil
	}

	err := i.dir.Close()
	i.dir = nil
	return err
}
