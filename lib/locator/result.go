package locator

import (
	"time"

	"github.com/pescuma/hlaipf/lib/vcs"
)

// Result is the newest matching commit of one repository.
type Result struct {
	RepositoryPath string
	CommitID       string
	CommitTime     time.Time
	// Message is kept as written. Nil when the commit has no message.
	Message *string
}

func newResult(repoPath string, commit vcs.Commit) Result {
	result := Result{
		RepositoryPath: repoPath,
		CommitID:       commit.ID(),
		CommitTime:     commit.Author().When,
	}

	message := commit.Message()
	if message != "" {
		result.Message = &message
	}

	return result
}

// NewerThan orders results by commit time. Equal times fall back to the
// repository path, then the commit ID, so the order never depends on input
// order.
func (r Result) NewerThan(other Result) bool {
	if !r.CommitTime.Equal(other.CommitTime) {
		return r.CommitTime.After(other.CommitTime)
	}

	if r.RepositoryPath != other.RepositoryPath {
		return r.RepositoryPath < other.RepositoryPath
	}

	return r.CommitID < other.CommitID
}
