package main

import (
	"fmt"

	"github.com/fwojciec/pyrip"
)

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	JobID string `arg:"" name:"job-id" help:"Crawl job identifier"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	watcher, err := deps.NewWatcher(c.JobID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	watcher.OnDocument(func(doc pyrip.Document) {
		source, _ := doc["sourceURL"].(string)
		if source == "" {
			source = "(unknown source)"
		}
		fmt.Fprintf(deps.Stdout, "document: %s\n", source)
	})
	watcher.OnError(func(err error) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
	})
	watcher.OnDone(func(result *pyrip.CrawlResult) {
		fmt.Fprintf(deps.Stdout, "done: %s (%d/%d pages, %d credits used)\n",
			result.Status, result.Completed, result.Total, result.CreditsUsed)
	})

	if err := watcher.Watch(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}
	return nil
}
