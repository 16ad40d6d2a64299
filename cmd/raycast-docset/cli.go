package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ichoosetoaccept/raycast-docset"
	"github.com/ichoosetoaccept/raycast-docset/crawl"
	"github.com/ichoosetoaccept/raycast-docset/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Source  docset.URLSource
	Crawler *crawl.Crawler

	DB    *sqlite.DB
	Store docset.BundleStore
	Index docset.IndexWriter

	Parser   docset.PageParser
	Rewriter docset.Rewriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build   BuildCmd   `cmd:"" help:"Crawl the documentation site and build the docset"`
	Preview PreviewCmd `cmd:"" help:"Show the URLs a build would crawl"`
	Verify  VerifyCmd  `cmd:"" help:"Validate a built docset bundle"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	URL         string        `arg:"" optional:"" default:"https://developers.raycast.com/" help:"Documentation site to bundle"`
	Output      string        `short:"o" default:"." help:"Directory the bundle is published into"`
	Name        string        `default:"Raycast" help:"Docset name"`
	Render      bool          `short:"r" help:"Render pages in headless Chrome instead of fetching raw HTML"`
	Offline     bool          `help:"Build from the response cache without touching the network"`
	NoCache     bool          `help:"Bypass the response cache"`
	CacheDir    string        `help:"Response cache directory (defaults to the user cache dir)"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
	MaxPages    int           `help:"Stop after this many pages (0 uses the built-in cap)"`
	IconURL     string        `default:"https://www.raycast.com/favicon-production.png" help:"Icon fetched for the bundle (empty skips the icon)"`
	Verbose     bool          `short:"v" help:"Log fetches and discovery to stderr"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL     string        `arg:"" optional:"" default:"https://developers.raycast.com/" help:"Documentation site to inspect"`
	Timeout time.Duration `short:"t" default:"30s" help:"Discovery timeout"`
	Verbose bool          `short:"v" help:"Log discovery to stderr"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Path       string `arg:"" help:"Path to the .docset bundle"`
	Strict     bool   `help:"Treat warnings as errors"`
	MinEntries int    `default:"500" help:"Smallest search index considered complete"`
}
