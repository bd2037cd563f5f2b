package locator

import (
	"github.com/samber/lo"
)

// Aggregate returns the newest result, or false if there are none.
func Aggregate(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}

	return lo.MaxBy(results, func(a, b Result) bool {
		return a.NewerThan(b)
	}), true
}
