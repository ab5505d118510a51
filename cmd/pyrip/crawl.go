package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/pyrip"
)

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL            string        `arg:"" help:"Seed URL to crawl"`
	Limit          int           `short:"l" help:"Maximum pages to crawl (passed through as the limit option)"`
	PollInterval   time.Duration `default:"2s" help:"Delay between status checks"`
	IdempotencyKey string        `short:"k" help:"Idempotency key for the submission; generated when omitted"`
	NoWait         bool          `help:"Print the job ID and exit without polling"`
	Pretty         bool          `short:"p" help:"Indent JSON output"`
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	key := c.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	var options map[string]any
	if c.Limit > 0 {
		options = map[string]any{"limit": c.Limit}
	}

	job, err := deps.Crawls.StartCrawl(deps.Ctx, pyrip.CrawlRequest{
		URL:            c.URL,
		Options:        options,
		IdempotencyKey: key,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Started crawl job %s\n", job.ID)
	if c.NoWait {
		return nil
	}

	result, err := deps.Crawls.WaitForCrawl(deps.Ctx, job.ID, c.PollInterval)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawl completed: %d/%d pages, %d credits used\n",
		result.Completed, result.Total, result.CreditsUsed)

	return printJSON(deps.Stdout, result.Data, c.Pretty)
}
