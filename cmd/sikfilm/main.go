// Package main is the sikfilm CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sikfilm/site/internal/cli"
	"github.com/sikfilm/site/internal/config"
	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/internal/server"
	"github.com/sikfilm/site/internal/storage"
	"github.com/sikfilm/site/internal/watcher"
	"github.com/sikfilm/site/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/sikfilm/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if present; when neither exists, built-in defaults rooted
// at the current directory are used. Returns the config and the path actually
// loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, "", err
	}
	if path == defaultConfigPath {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		fallback := filepath.Join(cwd, "config.yaml")
		if _, statErr := os.Stat(fallback); statErr == nil {
			cfg, loadErr := config.Load(fallback)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, fallback, nil
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, defErr := config.Default(cwd)
			return cfg, "", defErr
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "colors":
		runColors()
	case "list":
		runList()
	case "show":
		runShow()
	case "slugs":
		runSlugs()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "server":
		runServer()
	case "init-config":
		runInitConfig()
	case "version", "--version", "-v":
		fmt.Printf("sikfilm version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config and builds a logger, exiting on failure.
func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debugMode))
	return cfg, logger
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func exitOn(err error, what string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
		os.Exit(1)
	}
}

func runColors() {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	force := fs.Bool("force", false, "recompute colors for posts that already have them")
	output := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*output)

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := initializeComponents(ctx, cfg, logger, componentSet{colors: true, force: *force})
	exitOn(err, "Failed to initialize")
	defer c.Close()

	stats, err := c.Runner.Run(ctx)
	exitOn(err, "Color extraction interrupted")
	exitOn(cli.WriteColorStats(os.Stdout, stats, format), "Output failed")
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", -1, "show only the latest N posts (-1 = all)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*output)

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	posts, err := newRepository(cfg, logger).Latest(*limit)
	exitOn(err, "List failed")
	exitOn(cli.WritePosts(os.Stdout, posts, format), "Output failed")
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	related := fs.Int("related", -1, "number of related posts (-1 = content.related_limit)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))
	format := parseFormat(*output)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: sikfilm show [flags] <slug>")
		os.Exit(1)
	}

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()
	repo := newRepository(cfg, logger)

	detail, found, err := repo.GetBySlug(fs.Arg(0))
	exitOn(err, "Show failed")
	if !found {
		fmt.Fprintf(os.Stderr, "Post not found: %s\n", fs.Arg(0))
		os.Exit(1)
	}
	n := *related
	if n < 0 {
		n = cfg.Content.RelatedLimit
	}
	detail.Related, err = repo.Related(&detail.Post, n)
	exitOn(err, "Related posts failed")
	exitOn(cli.WritePostDetail(os.Stdout, detail, format), "Output failed")
}

func runSlugs() {
	fs := flag.NewFlagSet("slugs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	slugs, err := newRepository(cfg, logger).ListSlugs()
	exitOn(err, "List slugs failed")
	for _, s := range slugs {
		fmt.Println(s)
	}
}

// buildSearchQuery joins positional args into one query string.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// positional arguments to the front, so "sikfilm search kyoto --limit 3" works.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: sikfilm search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "maximum results (0 = search.default_limit)")
	category := fs.String("category", "", "only posts in this category")
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))
	format := parseFormat(*output)

	queryText := buildSearchQuery(fs.Args())
	if queryText == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()
	ctx := context.Background()

	c, err := initializeComponents(ctx, cfg, logger, componentSet{search: true})
	exitOn(err, "Failed to initialize")
	defer c.Close()

	resp, err := c.Engine.Search(ctx, &models.SearchQuery{Query: queryText, Limit: *limit, Category: *category})
	exitOn(err, "Search failed")
	exitOn(cli.WriteSearchResults(os.Stdout, resp, format), "Output failed")
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*output)

	cfg, logger := setup(*configPath, false)
	defer logger.Sync()

	posts, err := newRepository(cfg, logger).ListAll()
	exitOn(err, "List posts failed")
	status, err := collectStatus(cfg, posts)
	exitOn(err, "Status failed")
	exitOn(cli.WriteStatus(os.Stdout, status, format), "Output failed")
}

// collectStatus counts posts, posts with a cover image and posts carrying a
// committed color pair, and measures on-disk storage.
func collectStatus(cfg *config.Config, posts []*models.Post) (cli.Status, error) {
	status := cli.Status{
		PostsDir:       cfg.Content.PostsDir,
		Posts:          len(posts),
		StorageBackend: cfg.Storage.Backend,
	}
	for _, p := range posts {
		if p.MainImage.URL != "" {
			status.WithImage++
		}
		if p.MainImage.Dominant != nil {
			status.Colored++
		}
	}
	usage, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Search.IndexPath)
	if err != nil {
		return status, err
	}
	status.DiskUsageBytes = usage
	return status, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watcher events, request log, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if *debug {
		cfg.Debug = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := initializeComponents(ctx, cfg, logger, componentSet{search: true, counter: true, colors: true})
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer c.Close()

	if cfg.Watch.EnabledOrDefault() {
		onChange := func(path string) {
			if _, err := c.Runner.ProcessFile(ctx, path); err != nil {
				logger.Warn("watch color extraction failed", zap.String("path", path), zap.Error(err))
			}
			if err := c.Engine.IndexFile(ctx, path); err != nil {
				logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
			}
		}
		onRemove := func(path string) {
			if _, err := c.Engine.Reindex(ctx); err != nil {
				logger.Warn("watch reindex failed", zap.String("path", path), zap.Error(err))
			}
		}
		watchSvc := watcher.New(cfg.Content.PostsDir, cfg.Content.Extension, onChange, onRemove,
			watcher.WithDebounce(cfg.Watch.Debounce),
			watcher.WithLogger(logger),
		)
		if err := watchSvc.Start(ctx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		go func() {
			if err := watchSvc.SyncExisting(); err != nil {
				logger.Warn("initial sync failed", zap.Error(err))
			}
		}()
	}

	srv := server.NewServer(c.Repo, c.Engine, c.Counter, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func runInitConfig() {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	overwrite := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])
	path := "config.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	exitOn(initConfig(path, *overwrite), "init-config failed")
	fmt.Printf("Wrote %s\n", path)
}

// initConfig writes a config file holding every default, with paths left relative.
func initConfig(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func printUsage() {
	fmt.Println(`sikfilm - blog content tools and API server

Usage:
  sikfilm colors [flags]          Extract cover image colors into post metadata
  sikfilm list [flags]            List posts, pinned first then newest
  sikfilm show [flags] <slug>     Show one post with headings and related posts
  sikfilm slugs [flags]           Print every post slug
  sikfilm search [flags] <query>  Full-text search over posts
  sikfilm status [flags]          Show content and storage status
  sikfilm server [flags]          Start the HTTP API server
  sikfilm init-config [path]      Write a config file with defaults
  sikfilm version                 Show version
  sikfilm help                    Show this help

Common Flags:
  --config string    Config file path (default: ./config.yaml, then /usr/local/etc/sikfilm/config.yaml)
  --output string    Output format: text or json (list, show, search, status, colors)

Colors Flags:
  --force            Recompute colors even when a post already has them
  --debug            Enable debug logging

List Flags:
  --limit int        Latest N posts (default: all)

Show Flags:
  --related int      Number of related posts (default: content.related_limit)

Search Flags:
  --limit int        Maximum results (default: search.default_limit)
  --category string  Only posts in this category

Server Flags:
  --debug            Enable debug logging and request logs

Examples:
  sikfilm colors
  sikfilm colors --force
  sikfilm list --limit 5
  sikfilm show behind-the-scenes
  sikfilm search kyoto --category travel
  sikfilm status --output json
  sikfilm server --debug`)
}
