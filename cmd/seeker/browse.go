package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/app"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/playlist"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/preview"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/rating"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

var errBack = errors.New("back")

func browseCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Interactive catalog and playlist browser",
		Action: func(c *cli.Context) error {
			b := newBrowser(e.app, e.log)
			err := b.run(c.Context)
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		},
	}
}

// browser keeps one view per screen for the whole session, so returning to a
// screen is a focus and not a fresh mount.
type browser struct {
	a        *app.App
	log      *zap.Logger
	contract *viewsync.Contract
	entered  map[*viewsync.View]bool

	home      *homeScreen
	playlists *playlistsScreen
	settings  *settingsScreen
}

func newBrowser(a *app.App, log *zap.Logger) *browser {
	b := &browser{
		a:        a,
		log:      log.Named("browse"),
		contract: viewsync.NewContract(a.Journal, log.Named("viewsync")),
		entered:  make(map[*viewsync.View]bool),
	}
	b.home = newHomeScreen(b)
	b.playlists = newPlaylistsScreen(b)
	b.settings = newSettingsScreen(b)
	return b
}

// enter mounts a view the first time and focuses it on every return.
func (b *browser) enter(ctx context.Context, v *viewsync.View) error {
	if !b.entered[v] {
		b.entered[v] = true
		return v.Mount(ctx)
	}
	return v.Focus(ctx)
}

// mutated reloads the views that depend on kind. Views not on screen are
// only marked stale through the journal.
func (b *browser) mutated(ctx context.Context, kind viewsync.Kind, onScreen ...*viewsync.View) {
	for _, v := range onScreen {
		if err := v.AfterLocalMutation(ctx, kind); err != nil {
			fmt.Println(err)
		}
	}
}

func (b *browser) run(ctx context.Context) error {
	if err := b.signIn(ctx); err != nil {
		return err
	}
	for {
		var dest string
		err := huh.NewSelect[string]().
			Title("iTunes Seeker").
			Options(
				huh.NewOption("Featured albums", "home"),
				huh.NewOption("Search songs", "search"),
				huh.NewOption("Playlists", "playlists"),
				huh.NewOption("Settings", "settings"),
				huh.NewOption("Quit", "quit"),
			).
			Value(&dest).
			Run()
		if err != nil {
			return err
		}

		switch dest {
		case "home":
			err = b.home.show(ctx)
		case "search":
			err = b.search(ctx)
		case "playlists":
			err = b.playlists.show(ctx)
		case "settings":
			err = b.settings.show(ctx)
			if errors.Is(err, errSignedOut) {
				err = b.signIn(ctx)
			}
		case "quit":
			return nil
		}
		if err != nil && !errors.Is(err, errBack) {
			if errors.Is(err, huh.ErrUserAborted) {
				return err
			}
			fmt.Println(err)
		}
	}
}

var errSignedOut = errors.New("signed out")

// signIn loops on the login screen until a session exists.
func (b *browser) signIn(ctx context.Context) error {
	for {
		if email, ok, err := b.a.Users.CurrentSession(ctx); err != nil {
			return err
		} else if ok {
			fmt.Printf("signed in as %s\n", email)
			return nil
		}

		var (
			mode            string
			email, password string
		)
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Welcome").Options(
				huh.NewOption("Sign in", "login"),
				huh.NewOption("Create account", "register"),
			).Value(&mode),
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		)).Run()
		if err != nil {
			return err
		}
		if mode == "register" {
			if err := b.a.Users.Register(ctx, email, password); err != nil {
				fmt.Println(err)
				continue
			}
		}
		if err := b.a.Users.Authenticate(ctx, email, password); err != nil {
			fmt.Println(err)
		}
	}
}

func (b *browser) search(ctx context.Context) error {
	var term string
	if err := huh.NewInput().Title("Search").Value(&term).Run(); err != nil {
		return err
	}
	s := newTrackListScreen(b, "search:"+term, func(ctx context.Context) ([]catalog.Track, error) {
		return b.a.Catalog.Search(ctx, term)
	})
	return s.show(ctx)
}

// homeScreen lists albums for a random featured keyword.
type homeScreen struct {
	b       *browser
	view    *viewsync.View
	keyword string
	albums  []catalog.Album
}

func newHomeScreen(b *browser) *homeScreen {
	h := &homeScreen{b: b}
	h.view = b.contract.NewView("home", func(ctx context.Context) error {
		t := h.view.Begin()
		var (
			kw     string
			albums []catalog.Album
		)
		err := spinner.New().Title("Loading albums...").Context(ctx).ActionWithErr(func(ctx context.Context) error {
			var err error
			kw, albums, err = b.a.Catalog.FeaturedAlbums(ctx)
			return err
		}).Run()
		if err != nil {
			return err
		}
		t.Apply(func() { h.keyword, h.albums = kw, albums })
		return nil
	})
	return h
}

func (h *homeScreen) show(ctx context.Context) error {
	if err := h.b.enter(ctx, h.view); err != nil {
		return err
	}
	defer h.view.Blur()

	opts := []huh.Option[int]{huh.NewOption("< Back", -1)}
	for i, a := range h.albums {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s - %s", a.CollectionName, a.ArtistName), i))
	}
	idx := -1
	err := huh.NewSelect[int]().
		Height(15).
		Title(fmt.Sprintf("Albums for %q", h.keyword)).
		Options(opts...).
		Value(&idx).
		Run()
	if err != nil || idx < 0 {
		return err
	}
	album := h.albums[idx]
	s := newTrackListScreen(h.b, "album:"+strconv.FormatInt(album.CollectionID, 10), func(ctx context.Context) ([]catalog.Track, error) {
		return h.b.a.Catalog.Lookup(ctx, album.CollectionID)
	})
	return s.show(ctx)
}

// trackListScreen shows catalog results. It lives for one visit; its deck is
// released when the visit ends.
type trackListScreen struct {
	b       *browser
	view    *viewsync.View
	deck    *preview.Deck
	tracks  []catalog.Track
	ratings rating.Map
}

func newTrackListScreen(b *browser, name string, fetch func(context.Context) ([]catalog.Track, error)) *trackListScreen {
	s := &trackListScreen{b: b, deck: preview.NewDeck(b.a.Player, b.log)}
	s.view = b.contract.NewView(name, func(ctx context.Context) error {
		t := s.view.Begin()
		var tracks []catalog.Track
		err := spinner.New().Title("Loading...").Context(ctx).ActionWithErr(func(ctx context.Context) error {
			var err error
			tracks, err = fetch(ctx)
			return err
		}).Run()
		if err != nil {
			return err
		}
		ratings, err := b.a.Ratings.All(ctx)
		if err != nil {
			return err
		}
		t.Apply(func() { s.tracks, s.ratings = tracks, ratings })
		return nil
	}, viewsync.RatingSet)
	return s
}

func (s *trackListScreen) show(ctx context.Context) error {
	if err := s.view.Mount(ctx); err != nil {
		return err
	}
	defer func() {
		s.view.Unmount()
		_ = s.deck.Close()
	}()

	for {
		opts := []huh.Option[int]{huh.NewOption("< Back", -1)}
		for i, t := range s.tracks {
			opts = append(opts, huh.NewOption(s.label(t), i))
		}
		idx := -1
		err := huh.NewSelect[int]().Height(15).Title(s.view.Name()).Options(opts...).Value(&idx).Run()
		if err != nil || idx < 0 {
			return err
		}
		if err := s.b.trackActions(ctx, s.deck, s.tracks[idx], s.view); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return err
			}
			fmt.Println(err)
		}
	}
}

func (s *trackListScreen) label(t catalog.Track) string {
	line := trackLine(t)
	if r, ok := s.ratings[strconv.FormatInt(t.TrackID, 10)]; ok {
		line += fmt.Sprintf(" %d/5", r)
	}
	if id, ok := s.deck.Playing(); ok && id == t.TrackID {
		line += " (playing)"
	}
	return line
}

// trackActions is the track detail screen: preview, rate, add to playlist.
func (b *browser) trackActions(ctx context.Context, deck *preview.Deck, t catalog.Track, onScreen ...*viewsync.View) error {
	var action string
	opts := []huh.Option[string]{
		huh.NewOption("Rate", "rate"),
		huh.NewOption("Add to playlist", "add"),
		huh.NewOption("< Back", "back"),
	}
	if t.HasPreview() {
		opts = append([]huh.Option[string]{huh.NewOption("Play preview", "play"), huh.NewOption("Pause", "pause")}, opts...)
	}
	err := huh.NewSelect[string]().Title(trackLine(t)).Options(opts...).Value(&action).Run()
	if err != nil {
		return err
	}

	switch action {
	case "play":
		return deck.Play(ctx, t.TrackID, t.PreviewURL)
	case "pause":
		return deck.Pause()
	case "rate":
		value := rating.Max
		err := huh.NewSelect[int]().Title("Rating").Options(
			huh.NewOption("1", 1), huh.NewOption("2", 2), huh.NewOption("3", 3),
			huh.NewOption("4", 4), huh.NewOption("5", 5),
		).Value(&value).Run()
		if err != nil {
			return err
		}
		if err := b.a.Ratings.Set(ctx, t.TrackID, value); err != nil {
			return err
		}
		b.mutated(ctx, viewsync.RatingSet, onScreen...)
	case "add":
		all, err := b.a.Playlists.List(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return errors.New("create a playlist first")
		}
		pOpts := make([]huh.Option[string], len(all))
		for i, pl := range all {
			pOpts[i] = huh.NewOption(pl.Name, pl.ID)
		}
		var id string
		if err := huh.NewSelect[string]().Title("Add to").Options(pOpts...).Value(&id).Run(); err != nil {
			return err
		}
		res, err := b.a.Playlists.AddTrack(ctx, id, t)
		if err != nil {
			return err
		}
		fmt.Println(resultLine(res, "added", t))
		if res.Changed {
			b.mutated(ctx, viewsync.TrackAdded, onScreen...)
		}
	}
	return nil
}

// playlistsScreen is the library tab.
type playlistsScreen struct {
	b     *browser
	view  *viewsync.View
	items []playlist.Playlist
}

func newPlaylistsScreen(b *browser) *playlistsScreen {
	p := &playlistsScreen{b: b}
	p.view = b.contract.NewView("playlists", func(ctx context.Context) error {
		all, err := b.a.Playlists.List(ctx)
		if err != nil {
			return err
		}
		p.items = all
		return nil
	}, viewsync.PlaylistKinds...)
	return p
}

func (p *playlistsScreen) show(ctx context.Context) error {
	if err := p.b.enter(ctx, p.view); err != nil {
		return err
	}
	defer p.view.Blur()

	for {
		opts := []huh.Option[string]{huh.NewOption("< Back", ""), huh.NewOption("+ New playlist", "+")}
		for _, pl := range p.items {
			opts = append(opts, huh.NewOption(playlistLine(pl), pl.ID))
		}
		var id string
		if err := huh.NewSelect[string]().Title("Playlists").Options(opts...).Value(&id).Run(); err != nil {
			return err
		}
		switch id {
		case "":
			return nil
		case "+":
			var name, image string
			err := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Playlist name").Value(&name).Validate(required("name")),
				huh.NewInput().Title("Cover image URL").Value(&image).Validate(required("image")),
			)).Run()
			if err != nil {
				return err
			}
			if _, err := p.b.a.Playlists.Create(ctx, name, image); err != nil {
				fmt.Println(err)
				continue
			}
			p.b.mutated(ctx, viewsync.PlaylistCreated, p.view)
		default:
			if err := p.detail(ctx, id); err != nil && !errors.Is(err, errBack) {
				if errors.Is(err, huh.ErrUserAborted) {
					return err
				}
				fmt.Println(err)
			}
			if err := p.view.Focus(ctx); err != nil {
				fmt.Println(err)
			}
		}
	}
}

func (p *playlistsScreen) detail(ctx context.Context, id string) error {
	var (
		pl      playlist.Playlist
		found   bool
		ratings rating.Map
	)
	deck := preview.NewDeck(p.b.a.Player, p.b.log)
	defer deck.Close()

	view := p.b.contract.NewView("playlist:"+id, func(ctx context.Context) error {
		var err error
		if pl, found, err = p.b.a.Playlists.Get(ctx, id); err != nil {
			return err
		}
		ratings, err = p.b.a.Ratings.All(ctx)
		return err
	}, append([]viewsync.Kind{viewsync.RatingSet}, viewsync.PlaylistKinds...)...)
	if err := view.Mount(ctx); err != nil {
		return err
	}
	defer view.Unmount()

	for {
		if !found {
			return errors.New("playlist not found")
		}
		opts := []huh.Option[string]{
			huh.NewOption("< Back", "back"),
			huh.NewOption("Rename", "rename"),
			huh.NewOption("Delete playlist", "delete"),
		}
		for i, t := range pl.Songs {
			label := trackLine(t)
			if r, ok := ratings[strconv.FormatInt(t.TrackID, 10)]; ok {
				label += fmt.Sprintf(" %d/5", r)
			}
			opts = append(opts, huh.NewOption(label, strconv.Itoa(i)))
		}
		var choice string
		if err := huh.NewSelect[string]().Height(15).Title(pl.Name).Options(opts...).Value(&choice).Run(); err != nil {
			return err
		}

		switch choice {
		case "back":
			return errBack
		case "rename":
			name := pl.Name
			if err := huh.NewInput().Title("New name").Value(&name).Run(); err != nil {
				return err
			}
			if _, _, err := p.b.a.Playlists.Update(ctx, id, playlist.Changes{Name: &name}); err != nil {
				fmt.Println(err)
				continue
			}
			p.b.mutated(ctx, viewsync.PlaylistUpdated, view)
		case "delete":
			confirm := false
			if err := huh.NewConfirm().Title("Delete " + pl.Name + "?").Value(&confirm).Run(); err != nil {
				return err
			}
			if !confirm {
				continue
			}
			if _, err := p.b.a.Playlists.Delete(ctx, id); err != nil {
				return err
			}
			return errBack
		default:
			i, _ := strconv.Atoi(choice)
			track := pl.Songs[i]
			if err := p.songActions(ctx, deck, id, track, view); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return err
				}
				fmt.Println(err)
			}
		}
	}
}

func (p *playlistsScreen) songActions(ctx context.Context, deck *preview.Deck, id string, t catalog.Track, view *viewsync.View) error {
	var action string
	err := huh.NewSelect[string]().Title(trackLine(t)).Options(
		huh.NewOption("Track details", "details"),
		huh.NewOption("Remove from playlist", "remove"),
		huh.NewOption("< Back", "back"),
	).Value(&action).Run()
	if err != nil {
		return err
	}
	switch action {
	case "details":
		return p.b.trackActions(ctx, deck, t, view)
	case "remove":
		res, err := p.b.a.Playlists.RemoveTrack(ctx, id, t.TrackID)
		if err != nil {
			return err
		}
		fmt.Println(resultLine(res, "removed", t))
		p.b.mutated(ctx, viewsync.TrackRemoved, view)
	}
	return nil
}

// settingsScreen toggles the theme and ends the session.
type settingsScreen struct {
	b    *browser
	view *viewsync.View
	dark bool
}

func newSettingsScreen(b *browser) *settingsScreen {
	s := &settingsScreen{b: b}
	s.view = b.contract.NewView("settings", func(ctx context.Context) error {
		dark, err := b.a.Theme.Dark(ctx)
		if err != nil {
			return err
		}
		s.dark = dark
		return nil
	}, viewsync.ThemeChanged)
	return s
}

func (s *settingsScreen) show(ctx context.Context) error {
	if err := s.b.enter(ctx, s.view); err != nil {
		return err
	}
	defer s.view.Blur()

	for {
		mode := "off"
		if s.dark {
			mode = "on"
		}
		var action string
		err := huh.NewSelect[string]().Title("Settings").Options(
			huh.NewOption("Dark mode: "+mode, "theme"),
			huh.NewOption("Sign out", "logout"),
			huh.NewOption("< Back", "back"),
		).Value(&action).Run()
		if err != nil {
			return err
		}
		switch action {
		case "theme":
			if _, err := s.b.a.Theme.Toggle(ctx); err != nil {
				return err
			}
			s.b.mutated(ctx, viewsync.ThemeChanged, s.view)
		case "logout":
			if err := s.b.a.Users.EndSession(ctx); err != nil {
				return err
			}
			return errSignedOut
		default:
			return nil
		}
	}
}
