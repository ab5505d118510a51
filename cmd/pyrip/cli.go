package main

import (
	"context"
	"io"

	"github.com/fwojciec/pyrip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Scraper pyrip.Scraper
	Crawls  pyrip.CrawlService

	// NewWatcher creates a progress watcher bound to a job ID.
	NewWatcher func(jobID string) (pyrip.CrawlWatcher, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape ScrapeCmd `cmd:"" help:"Scrape one or more URLs"`
	Crawl  CrawlCmd  `cmd:"" help:"Start a crawl job and wait for completion"`
	Status StatusCmd `cmd:"" help:"Show one status snapshot for a crawl job"`
	Watch  WatchCmd  `cmd:"" help:"Stream crawl progress as it happens"`
}
