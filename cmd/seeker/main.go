package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/app"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/config"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/logger"
)

// env is filled in by the app's Before hook so every command shares one set
// of components.
type env struct {
	app *app.App
	log *zap.Logger
}

func main() {
	e := &env{}
	cliApp := &cli.App{
		Name:  "seeker",
		Usage: "Browse the iTunes catalog and keep playlists and ratings.",
		Before: func(c *cli.Context) error {
			return e.open()
		},
		After: func(c *cli.Context) error {
			return e.close()
		},
		Commands: []*cli.Command{
			serveCommand(e),
			playlistCommand(e),
			searchCommand(e),
			browseCommand(e),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (e *env) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	e.app, e.log = a, log
	return nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	_ = e.log.Sync()
	return e.app.Close()
}
