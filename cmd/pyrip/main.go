package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/pyrip"
	pyriphttp "github.com/fwojciec/pyrip/http"
	pyripws "github.com/fwojciec/pyrip/websocket"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewDependencies builds the services commands run against.
	// Tests replace it to inject mocks.
	NewDependencies func(ctx context.Context, stdout, stderr io.Writer) (*Dependencies, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{NewDependencies: defaultDependencies}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pyrip"),
		kong.Description("Command-line client for the Pyrip scraping API"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps, err := m.NewDependencies(ctx, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", pyrip.ErrorMessage(err))
		return err
	}

	return kctx.Run(deps)
}

// defaultDependencies wires the real API client and watcher factory.
// Configuration comes from PYRIP_API_KEY and PYRIP_API_URL.
func defaultDependencies(ctx context.Context, stdout, stderr io.Writer) (*Dependencies, error) {
	client, err := pyriphttp.NewClient()
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Scraper: client,
		Crawls:  client,
		NewWatcher: func(jobID string) (pyrip.CrawlWatcher, error) {
			return pyripws.NewWatcher(jobID,
				pyripws.WithAPIKey(client.APIKey()),
				pyripws.WithBaseURL(client.BaseURL()),
			)
		},
	}, nil
}
