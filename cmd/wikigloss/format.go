package main

import (
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/tbeaumont/wikigloss/internal/config"
	"github.com/tbeaumont/wikigloss/internal/engine"
	"github.com/tbeaumont/wikigloss/internal/pipeline"
	"github.com/tbeaumont/wikigloss/internal/store"
	"github.com/tbeaumont/wikigloss/internal/token"
)

func formatCommand(log *slog.Logger) *cli.Command {
	// Flags default from the env-driven config and override it.
	cfg := config.Load()
	return &cli.Command{
		Name:  "format",
		Usage: "Convert stored pages into per-language annotated token records.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "directory holding the page store",
				Value:   cfg.DataDir,
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Usage:   "directory for corpus output",
				Value:   cfg.CorpusDir,
			},
			&cli.BoolFlag{
				Name:  "individual",
				Usage: "also write one file per page",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of concurrent page workers",
				Value: cfg.WorkerCount,
			},
		},
		Action: func(c *cli.Context) error {
			st, err := store.Open(c.String("data-dir"))
			if err != nil {
				return err
			}
			defer st.Close()

			eng := engine.New(token.New(), log)
			stats, err := pipeline.RunFormat(
				c.Context, st, eng,
				c.String("out-dir"),
				c.Bool("individual"),
				c.Int("workers"),
				log,
			)
			if err != nil {
				return err
			}
			log.Info("format finished",
				"pages", stats.Pages,
				"failed", stats.Failed,
				"out_dir", c.String("out-dir"),
			)
			return nil
		},
	}
}
