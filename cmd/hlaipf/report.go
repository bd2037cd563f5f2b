package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"

	"github.com/pescuma/hlaipf/lib/scanner"
)

const messageSeparator = "==============================="

func writeReport(w io.Writer, summary *scanner.Summary, suffix string, now time.Time) error {
	language := strings.ToUpper(strings.TrimPrefix(suffix, "."))

	latest := summary.Latest
	if latest == nil {
		_, err := fmt.Fprintf(w, "Well done. You seem to be %v free\n", language)
		if err != nil {
			return err
		}

	} else {
		_, err := fmt.Fprintf(w, "Your last %v commit was at %v (%v) in repository %v. Commit Id: %v\n",
			language,
			latest.CommitTime.UTC().Format(time.RFC3339),
			humanize.RelTime(latest.CommitTime, now, "ago", "from now"),
			latest.RepositoryPath,
			latest.CommitID)
		if err != nil {
			return err
		}

		if latest.Message != nil {
			_, err = fmt.Fprintln(w, messageSeparator)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(w, *latest.Message)
			if err != nil {
				return err
			}
		}
	}

	pc := pluralize.NewClient()

	line := fmt.Sprintf("Scanned %v", pc.Pluralize("repository", summary.Repositories, true))
	if len(summary.Failures) > 0 {
		line += fmt.Sprintf(", %v failed", len(summary.Failures))
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
