package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/storelens/storelens"
	"github.com/storelens/storelens/competitor"
	"github.com/storelens/storelens/insight"
	"github.com/storelens/storelens/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	DB          *sqlite.DB
	Snapshots   storelens.SnapshotService
	Insights    *insight.Service
	Competitors *competitor.Pipeline
	Logger      *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Analyze AnalyzeCmd `cmd:"" help:"Extract brand insights from a storefront"`
	Compete CompeteCmd `cmd:"" help:"Discover and analyze competitor stores"`
	List    ListCmd    `cmd:"" help:"List stored snapshots"`
	Show    ShowCmd    `cmd:"" help:"Show a stored snapshot"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL         string `arg:"" help:"Storefront URL"`
	JSON        bool   `short:"j" help:"Print the full result as JSON"`
	Refresh     bool   `short:"r" help:"Re-run extraction even when a snapshot exists"`
	MaxProducts int    `default:"100" help:"Product catalog cap"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent page fetch limit"`
}

// CompeteCmd is the "compete" subcommand.
type CompeteCmd struct {
	URL            string `arg:"" help:"Storefront URL"`
	JSON           bool   `short:"j" help:"Print the full result as JSON"`
	Refresh        bool   `short:"r" help:"Re-run discovery even when a snapshot exists"`
	MaxCompetitors int    `default:"5" help:"Competitor candidate cap"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL      string `arg:"" help:"Storefront URL"`
	Analysis bool   `help:"Show the competitor analysis instead of brand insights"`
}
