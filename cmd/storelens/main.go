package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/storelens/storelens"
	"github.com/storelens/storelens/competitor"
	"github.com/storelens/storelens/goquery"
	"github.com/storelens/storelens/htmltomarkdown"
	storehttp "github.com/storelens/storelens/http"
	"github.com/storelens/storelens/insight"
	storeslog "github.com/storelens/storelens/slog"
	"github.com/storelens/storelens/sqlite"
	"github.com/storelens/storelens/trafilatura"
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
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the snapshot store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SnapshotService storelens.SnapshotService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// crawlRatePerSecond is the per-domain pacing floor for storefront
// requests: at most one request per second per domain.
const crawlRatePerSecond = 1.0

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("storelens"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'storelens --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set STORELENS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SnapshotService = sqlite.NewSnapshotService(m.DB)
	deps.DB = m.DB
	deps.Snapshots = m.SnapshotService

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Wire the extraction pipeline only for commands that go to the network.
	if cmd == "analyze" || cmd == "compete" {
		var fetcher storelens.Fetcher = storehttp.NewFetcher()
		if cli.Verbose {
			fetcher = storeslog.NewLoggingFetcher(fetcher, logger)
		}
		defer fetcher.Close()

		rateLimiter := insight.NewDomainLimiter(crawlRatePerSecond)

		var sitemaps storelens.SitemapService = storehttp.NewSitemapService(fetcher)
		if cli.Verbose {
			sitemaps = storeslog.NewLoggingSitemapService(sitemaps, logger)
		}

		deps.Insights = &insight.Service{
			Fetcher:     fetcher,
			Products:    goquery.NewCatalogExtractor(),
			PageProduct: goquery.NewSingleProductExtractor(),
			Heroes:      goquery.NewHeroProductExtractor(),
			Policies:    goquery.NewPolicyExtractor(),
			Profile:     goquery.NewBrandProfileExtractor(),
			Catalog:     storehttp.NewCatalogService(fetcher),
			Sitemaps:    sitemaps,
			PolicyDetail: &insight.PolicyDetailExtractor{
				Fetcher:     fetcher,
				Content:     trafilatura.NewExtractor(),
				Converter:   htmltomarkdown.NewConverter(),
				RateLimiter: rateLimiter,
			},
			RateLimiter: rateLimiter,
			Logger:      logger,
		}
	}

	if cmd == "compete" {
		var searcher storelens.Searcher = storehttp.NewSearcher(deps.Insights.Fetcher)
		if cli.Verbose {
			searcher = storeslog.NewLoggingSearcher(searcher, logger)
		}

		deps.Competitors = &competitor.Pipeline{
			Searcher:    searcher,
			Fetcher:     deps.Insights.Fetcher,
			Detector:    goquery.NewDetector(),
			Analyzer:    deps.Insights,
			RateLimiter: deps.Insights.RateLimiter,
			Logger:      logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("STORELENS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "storelens.db"
	}
	dir := filepath.Join(home, ".storelens")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "storelens.db")
}
