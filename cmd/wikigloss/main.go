package main

import (
	"log/slog"
	"os"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	app := newApp(log)
	if err := app.Run(os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
