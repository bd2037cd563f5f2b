package main

import (
	"os"
	"time"

	"github.com/pescuma/hlaipf/lib/consoles"
	"github.com/pescuma/hlaipf/lib/locator"
	"github.com/pescuma/hlaipf/lib/utils"
	"github.com/pescuma/hlaipf/lib/workspace"
)

type ScanCmd struct {
	Author    string   `arg:"" help:"Text matched against the commit author email."`
	Locations []string `arg:"" help:"Directories whose immediate subdirectories are git repositories." type:"path"`

	Branch          string   `help:"Revision to start from instead of HEAD. Accepts a comma separated list, the first one found is used."`
	Suffix          string   `default:".php" help:"File suffix that marks a commit as a match."`
	SkipRootCommits bool     `help:"Never match root commits."`
	Skip            []string `help:"Glob patterns of directory names to ignore."`
	Parallel        int      `default:"1" help:"Number of repositories scanned at the same time."`
	Cache           string   `help:"SQLite file used to cache the result of each repository. Use :memory: to cache only during this run."`
	Quiet           bool     `short:"q" help:"Only print warnings and the result."`
}

func (c *ScanCmd) Run(ctx *runContext) error {
	ws, err := workspace.NewWorkspace(consoles.NewWriterConsole(os.Stderr, c.Quiet), c.Cache)
	if err != nil {
		return err
	}
	defer ws.Close()

	opts := &workspace.ScanOptions{
		Author:          c.Author,
		Branch:          c.Branch,
		Suffix:          utils.Coalesce(c.Suffix, locator.DefaultSuffix),
		SkipRootCommits: c.SkipRootCommits,
		Skip:            c.Skip,
		Parallel:        c.Parallel,
	}
	if !c.Quiet {
		opts.Progress = os.Stderr
	}

	summary, err := ws.Scan(ctx.ctx, c.Locations, opts)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, summary, opts.Suffix, time.Now())
}
