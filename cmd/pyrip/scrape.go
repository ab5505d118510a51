package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/pyrip"
)

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string `arg:"" name:"url" help:"URLs to scrape"`
	Formats     []string `short:"f" help:"Output formats to request (passed through as the formats option)"`
	Pretty      bool     `short:"p" help:"Indent JSON output"`
	Summary     bool     `short:"s" help:"Print title and link count from the returned HTML instead of JSON"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent scrape limit"`
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	formats := c.Formats
	if c.Summary && !slices.Contains(formats, "html") {
		formats = append(formats, "html")
	}

	var options map[string]any
	if len(formats) > 0 {
		options = map[string]any{"formats": formats}
	}

	// Scrape concurrently but report in argument order.
	results := make([]pyrip.Document, len(c.URLs))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)
	for i, u := range c.URLs {
		g.Go(func() error {
			doc, err := deps.Scraper.Scrape(ctx, u, options)
			if err != nil {
				return err
			}
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	for i, doc := range results {
		if c.Summary {
			summary, err := summarize(doc)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pyrip.ErrorMessage(err))
				return err
			}
			fmt.Fprintf(deps.Stdout, "%s: %s\n", c.URLs[i], summary)
			continue
		}
		if err := printJSON(deps.Stdout, doc, c.Pretty); err != nil {
			return err
		}
	}
	return nil
}

// summarize parses the document's HTML payload and reports its title and
// link count.
func summarize(doc pyrip.Document) (string, error) {
	html, _ := doc["html"].(string)
	if html == "" {
		return "", pyrip.Errorf(pyrip.EINVALID, "document carries no html field")
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", pyrip.Errorf(pyrip.EINVALID, "failed to parse document html: %v", err)
	}

	title := strings.TrimSpace(parsed.Find("title").First().Text())
	if title == "" {
		title = "(no title)"
	}
	links := parsed.Find("a[href]").Length()

	return fmt.Sprintf("%s (%d links)", title, links), nil
}

func printJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
