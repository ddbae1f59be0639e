package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

func newApp(log *slog.Logger) *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Build annotated token corpora from Wiktionary pages.",
		Commands: []*cli.Command{
			scrapeCommand(log),
			formatCommand(log),
			serveCommand(log),
		},
	}
}
