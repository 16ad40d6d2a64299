package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/crawl"
	"github.com/ichoosetoaccept/raycast-docset/fs"
	"github.com/ichoosetoaccept/raycast-docset/goquery"
	"github.com/ichoosetoaccept/raycast-docset/html"
	dochttp "github.com/ichoosetoaccept/raycast-docset/http"
	"github.com/ichoosetoaccept/raycast-docset/rod"
	docslog "github.com/ichoosetoaccept/raycast-docset/slog"
	"github.com/ichoosetoaccept/raycast-docset/sqlite"
)

// defaultRequestsPerSecond paces the crawl per domain so the site is not
// hammered.
const defaultRequestsPerSecond = 4

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
	// CacheDir is the response cache location. Set before calling Run().
	CacheDir string

	// SQLite database backing the search index during a build.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{CacheDir: defaultCacheDir()}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("raycast-docset"),
		kong.Description("Build an offline Dash docset from developers.raycast.com"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'raycast-docset --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire command-specific dependencies based on command
	switch cmd {
	case "build":
		if err := m.wireBuild(ctx, cli, deps, stderr); err != nil {
			return err
		}
		defer m.Close()
		defer deps.Crawler.Fetcher.Close()
	case "preview":
		m.wirePreview(cli, deps, stderr)
	}

	return kongCtx.Run(deps)
}

// wireBuild assembles the full build pipeline: discovery, robots policy,
// fetcher chain, staged bundle store and search index.
func (m *Main) wireBuild(ctx context.Context, cli *CLI, deps *Dependencies, stderr io.Writer) error {
	b := &cli.Build

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if b.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	deps.Logger = logger

	timeout := b.Timeout
	if timeout == 0 {
		timeout = dochttp.DefaultFetchTimeout
	}

	scope, err := docset.ScopeFor(b.URL)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	deps.Source = newSource(client, logger, b.Verbose)

	var policy docset.FetchPolicy
	if b.Offline {
		policy = dochttp.AllowAllPolicy()
	} else {
		policy, err = dochttp.NewRobotsPolicy(ctx, client, b.URL, dochttp.DefaultUserAgent)
		if err != nil {
			return fmt.Errorf("failed to read robots.txt: %w", err)
		}
	}

	// Stage the bundle and create the search index inside it. The index
	// database lives in the staging directory until the build commits.
	store := fs.NewDocsetStore(b.Output, b.Name)
	if err := os.MkdirAll(filepath.Dir(store.IndexPath()), 0o755); err != nil {
		return fmt.Errorf("failed to stage bundle: %w", err)
	}
	m.DB = sqlite.NewDB(store.IndexPath())
	if err := m.DB.Open(); err != nil {
		_ = store.Abort()
		return fmt.Errorf("failed to create search index: %w", err)
	}
	deps.DB = m.DB
	deps.Store = store
	deps.Index = sqlite.NewIndexService(m.DB)

	fetcher, err := m.newFetcher(b, timeout, stderr)
	if err != nil {
		_ = m.Close()
		_ = store.Abort()
		return err
	}
	if b.Verbose {
		fetcher = docslog.NewLoggingFetcher(fetcher, logger)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     fetcher,
		Links:       goquery.NewExtractor(),
		Scope:       scope,
		Policy:      policy,
		Limiter:     crawl.NewDomainLimiter(defaultRequestsPerSecond),
		Logger:      logger,
		Concurrency: b.Concurrency,
		MaxPages:    b.MaxPages,
	}
	deps.Parser = goquery.NewParser()
	deps.Rewriter = html.NewRewriter()

	return nil
}

// newFetcher builds the fetcher chain for a build: plain HTTP or headless
// Chrome, wrapped in the response cache unless disabled.
func (m *Main) newFetcher(b *BuildCmd, timeout time.Duration, stderr io.Writer) (docset.Fetcher, error) {
	cacheDir := b.CacheDir
	if cacheDir == "" {
		cacheDir = m.CacheDir
	}

	if b.Offline {
		fetcher, err := fs.NewOfflineFetcher(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open response cache: %w", err)
		}
		return fetcher, nil
	}

	var live docset.Fetcher
	if b.Render {
		static := dochttp.NewFetcher(dochttp.WithTimeout(timeout))
		rodFetcher, err := rod.NewFetcher(
			rod.WithFetchTimeout(timeout),
			rod.WithStaticFetcher(static),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		live = rodFetcher
	} else {
		live = dochttp.NewFetcher(dochttp.WithTimeout(timeout))
	}

	if b.NoCache {
		return live, nil
	}
	cached, err := fs.NewCacheFetcher(live, cacheDir)
	if err != nil {
		_ = live.Close()
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}
	return cached, nil
}

// wirePreview wires just enough to discover URLs.
func (m *Main) wirePreview(cli *CLI, deps *Dependencies, stderr io.Writer) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Preview.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	deps.Logger = logger

	timeout := cli.Preview.Timeout
	if timeout == 0 {
		timeout = dochttp.DefaultFetchTimeout
	}
	client := &http.Client{Timeout: timeout}
	deps.Source = newSource(client, logger, cli.Preview.Verbose)
}

// newSource builds the discovery chain: the llms.txt manifest first, with
// sitemap discovery as the fallback.
func newSource(client *http.Client, logger *slog.Logger, verbose bool) docset.URLSource {
	var llms docset.URLSource = dochttp.NewLLMSSource(client)
	var sitemap docset.URLSource = dochttp.NewSitemapSource(client)
	if verbose {
		llms = docslog.NewLoggingSource(llms, "llms.txt", logger)
		sitemap = docslog.NewLoggingSource(sitemap, "sitemap", logger)
	}
	return NewCompositeSource(llms, sitemap)
}

func defaultCacheDir() string {
	if dir := os.Getenv("RAYCAST_DOCSET_CACHE"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, "raycast-docset")
}
