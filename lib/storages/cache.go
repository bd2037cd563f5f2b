package storages

import (
	"github.com/pescuma/hlaipf/lib/locator"
)

// CacheKey identifies one locate run. A different start commit means the
// history changed and the cached result no longer applies.
type CacheKey struct {
	RepositoryPath string
	Start          string
	Author         string
	Suffix         string
	RootCommits    locator.RootCommitPolicy
}

type ResultCache interface {
	// Get returns found false when nothing is cached for key. A cached run that
	// matched nothing is returned as found true and a nil result.
	Get(key CacheKey) (result *locator.Result, found bool, err error)
	Put(key CacheKey, result *locator.Result) error

	Close() error
}

type Factory = func(path string) (ResultCache, error)
