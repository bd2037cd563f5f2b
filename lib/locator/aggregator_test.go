package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	_, ok := Aggregate(nil)

	assert.False(t, ok)
}

func TestAggregateSingle(t *testing.T) {
	t.Parallel()

	r1 := Result{RepositoryPath: "/a", CommitID: "1", CommitTime: day(1)}

	result, ok := Aggregate([]Result{r1})

	assert.True(t, ok)
	assert.Equal(t, r1, result)
}

func TestAggregateNewestWins(t *testing.T) {
	t.Parallel()

	r1 := Result{RepositoryPath: "/a", CommitID: "1", CommitTime: day(5)}
	r2 := Result{RepositoryPath: "/b", CommitID: "2", CommitTime: day(3)}
	r3 := Result{RepositoryPath: "/c", CommitID: "3", CommitTime: day(4)}

	result, _ := Aggregate([]Result{r1, r2, r3})
	assert.Equal(t, r1, result)

	result, _ = Aggregate([]Result{r2, r3, r1})
	assert.Equal(t, r1, result)
}

func TestAggregateTieBreaksOnPath(t *testing.T) {
	t.Parallel()

	r1 := Result{RepositoryPath: "/b", CommitID: "1", CommitTime: day(5)}
	r2 := Result{RepositoryPath: "/a", CommitID: "2", CommitTime: day(5)}

	result, _ := Aggregate([]Result{r1, r2})
	assert.Equal(t, r2, result)

	result, _ = Aggregate([]Result{r2, r1})
	assert.Equal(t, r2, result)
}

func TestAggregateComparesInstants(t *testing.T) {
	t.Parallel()

	r1 := Result{RepositoryPath: "/a", CommitID: "1", CommitTime: day(5)}
	r2 := Result{RepositoryPath: "/b", CommitID: "2", CommitTime: day(5).Add(1)}

	result, _ := Aggregate([]Result{r1, r2})
	assert.Equal(t, r2, result)
}
