// Package main provides the subreddit downloader CLI: posts plus comment
// trees, persisted as line-delimited JSON or grouped text.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/NagyLevin/Redditscrape/internal/config"
	"github.com/NagyLevin/Redditscrape/internal/crawler"
	"github.com/NagyLevin/Redditscrape/internal/logger"
	"github.com/NagyLevin/Redditscrape/internal/reddit"
	"github.com/NagyLevin/Redditscrape/internal/sink"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	outDir := flag.String("out", "", "Output directory (overrides config)")
	format := flag.String("format", "", "Output format: ndjson or text (overrides config)")
	after := flag.String("after", "", "Lower time bound: epoch, YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS (UTC)")
	before := flag.String("before", "", "Upper time bound, same shapes as -after")
	limit := flag.Int("limit", -1, "Max post count per subreddit (0 = unlimited)")
	sleep := flag.Float64("sleep", -1, "Seconds to wait between posts")
	noComments := flag.Bool("no-comments", false, "Skip comment expansion")
	listFile := flag.String("file", "", "Newline-delimited subreddit list file")
	authTest := flag.Bool("auth-test", false, "Only test authentication, then exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfiguration(*configFile)
	applyOverrides(cfg, *outDir, *format, *after, *before, *limit, *sleep, *noComments, *listFile)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	window, err := crawler.NewWindow(cfg.Scrape.After, cfg.Scrape.Before)
	if err != nil {
		log.Fatalf("❌ Invalid time bound: %v\n", err)
	}

	subreddits, err := resolveSubreddits(cfg, flag.Args())
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		log.Fatalf("❌ Missing credential material: %v\n", err)
	}

	appLog := logger.NewLogger(cfg.Logging.Level)
	ctx := context.Background()

	fmt.Println("🕷️  Redditscrape")
	fmt.Printf("Subreddits: %d, format: %s, output: %s\n\n", len(subreddits), cfg.Output.Format, cfg.Output.Dir)

	session, err := reddit.NewSession(ctx, creds, &cfg.Retry, appLog)
	if err != nil {
		log.Fatalf("❌ Authentication failed: %v\n", err)
	}

	if *authTest {
		fmt.Println("✅ Authentication smoke test passed, exiting (-auth-test)")

		return
	}

	orchestrator := crawler.NewOrchestrator(
		crawler.NewResolver(session),
		func(community string) crawler.FeedIterator { return session.NewPosts(community) },
		crawler.NewExpander(session),
		sinkFactory(cfg),
		func(community string) *int64 {
			return sink.OldestSubmission(sink.SubmissionsPath(cfg.Output.Dir, community))
		},
		crawler.Options{
			Window:          window,
			LimitPosts:      cfg.Scrape.LimitPosts,
			Sleep:           time.Duration(cfg.Scrape.SleepMs) * time.Millisecond,
			IncludeComments: cfg.Scrape.IncludeComments,
		},
		appLog,
	)

	results := orchestrator.Run(ctx, subreddits)

	fmt.Println()

	for _, res := range results {
		switch res.Status {
		case crawler.RunDone:
			fmt.Printf("✅ r/%s: %d posts, %d comments saved\n", res.Community, res.State.Posts, res.State.Comments)
		case crawler.RunSkipped:
			fmt.Printf("⚠️  r/%s skipped: %s\n", res.Community, res.Detail)
		case crawler.RunFailed:
			fmt.Printf("❌ r/%s failed after %d posts: %s\n", res.Community, res.State.Posts, res.Detail)
		}
	}

	fmt.Println("\n✨ Scrape complete!")
}

// loadConfiguration loads the YAML config when given, otherwise defaults.
func loadConfiguration(path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	return cfg
}

// applyOverrides layers CLI flags over the loaded configuration.
func applyOverrides(cfg *config.Config, outDir, format, after, before string, limit int, sleep float64, noComments bool, listFile string) {
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	if format != "" {
		cfg.Output.Format = format
	}

	if after != "" {
		cfg.Scrape.After = after
	}

	if before != "" {
		cfg.Scrape.Before = before
	}

	if limit >= 0 {
		cfg.Scrape.LimitPosts = limit
	}

	if sleep >= 0 {
		cfg.Scrape.SleepMs = int(sleep * 1000)
	}

	if noComments {
		cfg.Scrape.IncludeComments = false
	}

	if listFile != "" {
		cfg.Scrape.SubredditFile = listFile
	}
}

// resolveSubreddits picks the subreddit list: positional arguments first,
// then a list file, then the configured defaults.
func resolveSubreddits(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		names := config.CleanSubreddits(args)
		if len(names) == 0 {
			return nil, config.ErrNoSubreddits
		}

		return names, nil
	}

	if cfg.Scrape.SubredditFile != "" {
		return config.LoadSubredditsFromFile(cfg.Scrape.SubredditFile)
	}

	names := config.CleanSubreddits(cfg.Scrape.Subreddits)
	if len(names) == 0 {
		return nil, config.ErrNoSubreddits
	}

	return names, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/redditscrape [OPTIONS] [SUBREDDIT ...]")
	fmt.Println()
	fmt.Println("Downloads posts and full comment trees from subreddits through the")
	fmt.Println("Reddit read API, newest first, bounded by an optional time window.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/redditscrape hikingHungary RealHungary")
	fmt.Println("  ./bin/redditscrape -after 2024-01-01 -before 2024-06-30 -format text golang")
	fmt.Println("  ./bin/redditscrape -file subreddits.txt -out ./reddit_dump -limit 500")
	fmt.Println("  ./bin/redditscrape -auth-test")
}

// sinkFactory selects the sink implementation for the configured format.
func sinkFactory(cfg *config.Config) crawler.SinkFactory {
	return func(community string) (sink.Sink, error) {
		if cfg.Output.Format == config.FormatText {
			return sink.NewTextSink(cfg.Output.Dir, community)
		}

		return sink.NewNDJSONSink(cfg.Output.Dir, community)
	}
}
