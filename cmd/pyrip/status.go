package main

import (
	"fmt"

	"github.com/fwojciec/pyrip"
)

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	JobID  string `arg:"" name:"job-id" help:"Crawl job identifier"`
	Pretty bool   `short:"p" help:"Indent JSON output"`
}

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	result, err := deps.Crawls.CrawlStatus(deps.Ctx, c.JobID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Job %s: %s (%d/%d pages)\n",
		c.JobID, result.Status, result.Completed, result.Total)

	return printJSON(deps.Stdout, result, c.Pretty)
}
