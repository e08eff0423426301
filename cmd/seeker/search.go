package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
)

func searchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search songs in the catalog",
		ArgsUsage: "[term]",
		Action: func(c *cli.Context) error {
			term := strings.Join(c.Args().Slice(), " ")
			if term == "" {
				if err := huh.NewInput().Title("Search").Value(&term).Run(); err != nil {
					return err
				}
			}
			tracks, err := searchWithSpinner(c.Context, e.app.Catalog, term)
			if err != nil {
				return err
			}
			for _, t := range tracks {
				fmt.Printf("%d  %s\n", t.TrackID, trackLine(t))
			}
			fmt.Printf("%d results\n", len(tracks))
			return nil
		},
	}
}
