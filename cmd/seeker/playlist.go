package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/playlist"
)

func playlistCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage local playlists",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show every playlist",
				Action: func(c *cli.Context) error {
					all, err := e.app.Playlists.List(c.Context)
					if err != nil {
						return err
					}
					if len(all) == 0 {
						fmt.Println("no playlists yet")
						return nil
					}
					for _, pl := range all {
						fmt.Println(playlistLine(pl))
					}
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "image", Usage: "cover image URL"},
				},
				Action: func(c *cli.Context) error {
					name, image := c.String("name"), c.String("image")
					if name == "" || image == "" {
						err := huh.NewForm(huh.NewGroup(
							huh.NewInput().Title("Playlist name").Value(&name).Validate(required("name")),
							huh.NewInput().Title("Cover image URL").Value(&image).Validate(required("image")),
						)).Run()
						if err != nil {
							return err
						}
					}
					pl, err := e.app.Playlists.Create(c.Context, name, image)
					if err != nil {
						return err
					}
					fmt.Printf("created %s\n", playlistLine(pl))
					return nil
				},
			},
			{
				Name:      "add-track",
				Usage:     "Look a track up in the catalog and add it to a playlist",
				ArgsUsage: "<playlist-id> <search term>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return cli.ShowSubcommandHelp(c)
					}
					id := c.Args().First()
					term := strings.Join(c.Args().Tail(), " ")

					tracks, err := searchWithSpinner(c.Context, e.app.Catalog, term)
					if err != nil {
						return err
					}
					if len(tracks) == 0 {
						fmt.Println("no results")
						return nil
					}
					track, err := pickTrack(tracks)
					if err != nil {
						return err
					}
					res, err := e.app.Playlists.AddTrack(c.Context, id, track)
					if err != nil {
						return err
					}
					fmt.Println(resultLine(res, "added", track))
					return nil
				},
			},
		},
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func searchWithSpinner(ctx context.Context, cat catalog.Catalog, term string) ([]catalog.Track, error) {
	var tracks []catalog.Track
	search := func(ctx context.Context) error {
		var err error
		tracks, err = cat.Search(ctx, term)
		return err
	}
	err := spinner.New().Title("Searching...").Context(ctx).ActionWithErr(search).Run()
	return tracks, err
}

func pickTrack(tracks []catalog.Track) (catalog.Track, error) {
	opts := make([]huh.Option[int], len(tracks))
	for i, t := range tracks {
		opts[i] = huh.NewOption(trackLine(t), i)
	}
	var idx int
	err := huh.NewSelect[int]().
		Height(12).
		Title("Choose a track").
		Options(opts...).
		Value(&idx).
		Run()
	if err != nil {
		return catalog.Track{}, err
	}
	return tracks[idx], nil
}

func playlistLine(pl playlist.Playlist) string {
	return fmt.Sprintf("%s  %s (%d songs)", pl.ID, pl.Name, len(pl.Songs))
}

func trackLine(t catalog.Track) string {
	line := fmt.Sprintf("%s - %s", t.TrackName, t.ArtistName)
	if t.CollectionName != "" {
		line += " [" + t.CollectionName + "]"
	}
	return line
}

func resultLine(res playlist.Result, verb string, t catalog.Track) string {
	switch {
	case !res.Found:
		return "playlist not found"
	case !res.Changed:
		return fmt.Sprintf("%q already there", t.TrackName)
	default:
		return fmt.Sprintf("%s %q", verb, t.TrackName)
	}
}
