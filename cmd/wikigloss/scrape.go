package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tbeaumont/wikigloss/internal/config"
	"github.com/tbeaumont/wikigloss/internal/mediawiki"
	"github.com/tbeaumont/wikigloss/internal/pipeline"
	"github.com/tbeaumont/wikigloss/internal/store"
)

// listBatchSize is how many titles are requested per API call.
const listBatchSize = 50

func scrapeCommand(log *slog.Logger) *cli.Command {
	// Flags default from the env-driven config and override it.
	cfg := config.Load()
	return &cli.Command{
		Name:  "scrape",
		Usage: "Fetch lemma pages from a Wiktionary edition into the local page store.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Wiktionary language edition",
				Value:   cfg.WikiLanguage,
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "page selection: inorder or random",
				Value: cfg.Strategy,
			},
			&cli.IntFlag{
				Name:    "max-pages",
				Aliases: []string{"n"},
				Usage:   "stop after storing this many pages (0 = no limit)",
				Value:   cfg.MaxPages,
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "directory holding the page store",
				Value:   cfg.DataDir,
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "discard previously scraped pages before starting",
			},
			&cli.StringFlag{
				Name:  "user-agent",
				Usage: "User-Agent header for API requests",
				Value: cfg.UserAgent,
			},
		},
		Action: func(c *cli.Context) error {
			return runScrape(c.Context, c, log)
		},
	}
}

func runScrape(ctx context.Context, c *cli.Context, log *slog.Logger) error {
	strategy := c.String("strategy")
	if strategy != "inorder" && strategy != "random" {
		return fmt.Errorf("unknown strategy %q (want inorder or random)", strategy)
	}

	dataDir := c.String("data-dir")
	if c.Bool("overwrite") {
		if err := store.Remove(dataDir); err != nil {
			return err
		}
	}
	st, err := store.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	lang := c.String("language")
	client := mediawiki.NewClient(mediawiki.EndpointForLanguage(lang), c.String("user-agent"))
	defer client.Close()

	maxPages := c.Int("max-pages")

	// Inorder scraping resumes from the last stored title.
	from := "!"
	if strategy == "inorder" {
		last, err := st.LastScraped(ctx)
		if err != nil {
			return err
		}
		if last != nil {
			from = last.Title
			log.Info("resuming scrape", "from", from)
		}
	}

	stored := 0
	for maxPages <= 0 || stored < maxPages {
		var titles []string
		switch strategy {
		case "random":
			titles, err = client.RandomTitles(ctx, listBatchSize)
		case "inorder":
			titles, err = client.AllTitlesFrom(ctx, from, listBatchSize)
		}
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			log.Info("no more titles", "language", lang)
			break
		}
		if strategy == "inorder" {
			next := titles[len(titles)-1]
			if next == from && len(titles) == 1 {
				// The listing is down to the resume title itself.
				log.Info("reached end of title listing", "language", lang)
				break
			}
			from = next
		}

		for _, title := range titles {
			if maxPages > 0 && stored >= maxPages {
				break
			}
			// Namespaced pages (Appendix:, Wiktionary:, ...) are not entries.
			if strings.Contains(title, ":") {
				continue
			}
			exists, err := st.Exists(ctx, title)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			page, err := fetchWithRetry(ctx, client, title, log)
			if err != nil {
				log.Warn("skipping page", "title", title, "error", err)
				continue
			}
			if !mediawiki.IsLemma(page.Categories) {
				log.Debug("skipping non-lemma page", "title", title)
				continue
			}

			err = st.Put(ctx, store.Page{
				Title:         page.Title,
				URL:           page.URL,
				RevID:         page.RevID,
				HTML:          page.HTML,
				FileSafeTitle: store.FileSafe(page.Title),
			})
			if err != nil {
				return err
			}
			stored++
			log.Info("stored page", "title", page.Title, "stored", stored)
		}
	}

	count, err := st.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("scrape finished", "stored_this_run", stored, "total_pages", count)
	return nil
}

func fetchWithRetry(ctx context.Context, client *mediawiki.Client, title string, log *slog.Logger) (*mediawiki.Page, error) {
	var lastErr error
	for attempt := 0; attempt <= pipeline.MaxRetries; attempt++ {
		page, err := client.FetchPage(ctx, title)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !pipeline.IsRetryable(err) {
			return nil, err
		}
		delay := pipeline.Backoff(attempt)
		log.Warn("transient fetch error, backing off", "title", title, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("giving up after %d retries: %w", pipeline.MaxRetries, lastErr)
}
