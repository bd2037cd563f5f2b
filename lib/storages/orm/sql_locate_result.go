package orm

import (
	"fmt"
	"time"

	"github.com/pescuma/hlaipf/lib/locator"
	"github.com/pescuma/hlaipf/lib/storages"
)

type sqlLocateResult struct {
	Key            string `gorm:"primaryKey"`
	RepositoryPath string `gorm:"index"`
	Start          string
	Author         string
	Suffix         string
	RootCommits    int

	Found      bool
	CommitID   string
	CommitTime time.Time
	Message    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlLocateResult(key storages.CacheKey, r *locator.Result) *sqlLocateResult {
	result := &sqlLocateResult{
		Key:            cacheKey(key),
		RepositoryPath: key.RepositoryPath,
		Start:          key.Start,
		Author:         key.Author,
		Suffix:         key.Suffix,
		RootCommits:    int(key.RootCommits),
	}

	if r != nil {
		result.Found = true
		result.CommitID = r.CommitID
		result.CommitTime = r.CommitTime
		result.Message = r.Message
	}

	return result
}

func (s *sqlLocateResult) toResult() *locator.Result {
	if !s.Found {
		return nil
	}

	return &locator.Result{
		RepositoryPath: s.RepositoryPath,
		CommitID:       s.CommitID,
		CommitTime:     s.CommitTime,
		Message:        s.Message,
	}
}

func cacheKey(key storages.CacheKey) string {
	return compositeKey(key.RepositoryPath, key.Start, key.Author, key.Suffix, fmt.Sprintf("%v", int(key.RootCommits)))
}
