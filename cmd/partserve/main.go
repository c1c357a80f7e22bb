// Copyright 2025 The PartServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the part lookup server and CLI application.

PartServe answers fuzzy part-code and free-text lookups over a catalog
snapshot, scoring every candidate with a weighted confidence model and
explaining each match. It can operate as a MessagePack IPC server for
integration with a catalog UI, or as a CLI application for testing and
debugging.

The server mode loads the catalog snapshot from msgpack chunk files and
keeps a patricia-trie index of every known code for suggestion lookups.
Searches the user submits are recorded into a history store (in-memory or
sqlite) that feeds future suggestions.

# Usage

Start the server with default settings:

	partserve

Use a custom data directory, persist history to sqlite, and enable debug:

	partserve -data /path/to/snapshot -history ~/.partserve/history.db -d

Run in CLI mode for interactive testing:

	partserve -c -limit 5

The data directory should contain snapshot files named parts_0001.bin,
parts_0002.bin, etc. Each is a msgpack-encoded array of part records
exported from the catalog.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_limit = 50
	min_query = 1
	max_query = 60

	[catalog]
	data_dir = "data/"
	code_prefix = "RV"

	[suggest]
	max_total = 8
	history_entries = 5

The config file is automatically created with defaults if it doesn't exist.
Scoring weights and confidence thresholds are fixed contract constants and
deliberately not configurable.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Send a ranked
lookup request:

	{"id": "req1", "cmd": "query", "q": "RV0401.0031", "l": 20}

Receive scored matches with confidence stats:

	{"id": "req1", "m": [{"sku": "RV0401.0031", "score": 100, "level": "alto", "type": "exact"}], "total": 1, "t": 2}

Suggestion requests carry a sequence number so superseded requests from
fast typing are dropped instead of computed.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/logparts/partserve/internal/cli"
	"github.com/logparts/partserve/internal/utils"
	"github.com/logparts/partserve/pkg/catalog"
	"github.com/logparts/partserve/pkg/config"
	"github.com/logparts/partserve/pkg/match"
	"github.com/logparts/partserve/pkg/server"
	"github.com/logparts/partserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "partserve"
	gh      = "https://github.com/logparts/partserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the catalog, the suggestion pipeline and the chosen front end.
// It does not implement lookup logic and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", defaultConfig.Catalog.DataDir, "Directory containing the catalog snapshot chunks")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	historyPath := flag.String("history", defaultConfig.Suggest.HistoryPath, "Path to the sqlite history db (empty keeps history in memory)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of matches to print in CLI mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Debugf("Active config: %s", config.GetActiveConfigPath(activePath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir: %v", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	parts, err := catalog.LoadDir(resolvedDataDir)
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}
	index := match.BuildCodeIndex(parts)
	log.Debugf("Catalog ready: %d parts, %d indexed codes", len(parts), index.Len())

	store, closeStore := openHistoryStore(*historyPath, cfg)
	defer closeStore()

	normalizer := match.NewNormalizer(cfg.Catalog.CodePrefix)
	aggregator := suggest.NewAggregator(store, normalizer, index, suggest.Options{
		MinQueryLen:   cfg.Suggest.MinQueryLen,
		MaxTotal:      cfg.Suggest.MaxTotal,
		HistoryCap:    cfg.Suggest.HistoryEntries,
		VariantCap:    cfg.Suggest.VariantEntries,
		CorrectionCap: cfg.Suggest.CorrectionCap,
		SimilarCap:    cfg.Suggest.SimilarEntries,
		MaxDistance:   cfg.Suggest.MaxEditDistance,
	})

	if *cliMode {
		handler := cli.NewInputHandler(parts, aggregator, *limit, cfg.CLI.ShowReasons)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(parts, index, aggregator, cfg)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openHistoryStore picks sqlite when a path is configured, memory otherwise.
func openHistoryStore(flagPath string, cfg *config.Config) (suggest.HistoryStore, func()) {
	path := flagPath
	if path == "" {
		path = cfg.Suggest.HistoryPath
	}
	if path == "" {
		return suggest.NewMemoryStore(), func() {}
	}

	store, err := suggest.OpenSQLiteStore(path)
	if err != nil {
		log.Warnf("Could not open history db at %s: %v. Falling back to in-memory history.", path, err)
		return suggest.NewMemoryStore(), func() {}
	}
	log.Debugf("History persisted at: %s", path)
	return store, func() { store.Close() }
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ PartServe ] Fuzzy part lookups with confidence scoring!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}
