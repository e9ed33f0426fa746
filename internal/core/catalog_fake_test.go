package core

import (
	"context"
	"fmt"
)

// fakeCatalog is an in-memory CatalogClient. Searches ignore the query and
// return the configured results. Calls named in failures return that error.
type fakeCatalog struct {
	searchTracks    []TrackRecord
	searchArtists   []Entity
	searchAlbums    []Entity
	searchPlaylists []Entity

	tracks    map[string]TrackRecord
	artists   map[string]Entity
	albums    map[string]Entity
	playlists map[string]Entity

	albumTracks    map[string][]TrackRecord
	topTracks      map[string][]TrackRecord
	artistAlbums   map[string][]Entity
	related        map[string][]Entity
	playlistItems  map[string][]PlaylistItem
	userPlaylists  map[string][]Entity
	featured       []Entity
	newReleases    []Entity
	genres         []string
	recommendation map[Seed][]TrackRecord

	saved      []TrackRecord
	recent     []TrackRecord
	top        []TrackRecord
	topArtists []Entity
	user       string

	failures map[string]error
	calls    map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks:         map[string]TrackRecord{},
		artists:        map[string]Entity{},
		albums:         map[string]Entity{},
		playlists:      map[string]Entity{},
		albumTracks:    map[string][]TrackRecord{},
		topTracks:      map[string][]TrackRecord{},
		artistAlbums:   map[string][]Entity{},
		related:        map[string][]Entity{},
		playlistItems:  map[string][]PlaylistItem{},
		userPlaylists:  map[string][]Entity{},
		recommendation: map[Seed][]TrackRecord{},
		failures:       map[string]error{},
		calls:          map[string]int{},
	}
}

func (f *fakeCatalog) call(name string) error {
	f.calls[name]++
	return f.failures[name]
}

func paginate[T any](items []T, limit, offset int) Page[T] {
	if offset > len(items) {
		offset = len(items)
	}
	end := min(offset+limit, len(items))
	return Page[T]{Items: items[offset:end], Offset: offset, Total: len(items)}
}

func (f *fakeCatalog) SearchTracks(_ context.Context, _ string, limit, offset int) (Page[TrackRecord], error) {
	if err := f.call("SearchTracks"); err != nil {
		return Page[TrackRecord]{}, err
	}
	return paginate(f.searchTracks, limit, offset), nil
}

func (f *fakeCatalog) SearchArtists(_ context.Context, _ string, limit, offset int) (Page[Entity], error) {
	if err := f.call("SearchArtists"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.searchArtists, limit, offset), nil
}

func (f *fakeCatalog) SearchAlbums(_ context.Context, _ string, limit, offset int) (Page[Entity], error) {
	if err := f.call("SearchAlbums"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.searchAlbums, limit, offset), nil
}

func (f *fakeCatalog) SearchPlaylists(_ context.Context, _ string, limit, offset int) (Page[Entity], error) {
	if err := f.call("SearchPlaylists"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.searchPlaylists, limit, offset), nil
}

func lookup[T any](items map[string]T, id string) (T, error) {
	item, ok := items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return item, nil
}

func (f *fakeCatalog) Track(_ context.Context, id string) (TrackRecord, error) {
	if err := f.call("Track"); err != nil {
		return TrackRecord{}, err
	}
	return lookup(f.tracks, id)
}

func (f *fakeCatalog) Artist(_ context.Context, id string) (Entity, error) {
	if err := f.call("Artist"); err != nil {
		return Entity{}, err
	}
	return lookup(f.artists, id)
}

func (f *fakeCatalog) Album(_ context.Context, id string) (Entity, error) {
	if err := f.call("Album"); err != nil {
		return Entity{}, err
	}
	return lookup(f.albums, id)
}

func (f *fakeCatalog) Playlist(_ context.Context, id string) (Entity, error) {
	if err := f.call("Playlist"); err != nil {
		return Entity{}, err
	}
	return lookup(f.playlists, id)
}

func (f *fakeCatalog) AlbumTracks(_ context.Context, albumID string, limit, offset int) (Page[TrackRecord], error) {
	if err := f.call("AlbumTracks"); err != nil {
		return Page[TrackRecord]{}, err
	}
	return paginate(f.albumTracks[albumID], limit, offset), nil
}

func (f *fakeCatalog) ArtistTopTracks(_ context.Context, artistID string) ([]TrackRecord, error) {
	if err := f.call("ArtistTopTracks"); err != nil {
		return nil, err
	}
	return f.topTracks[artistID], nil
}

func (f *fakeCatalog) ArtistAlbums(_ context.Context, artistID string, limit, offset int) (Page[Entity], error) {
	if err := f.call("ArtistAlbums"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.artistAlbums[artistID], limit, offset), nil
}

func (f *fakeCatalog) RelatedArtists(_ context.Context, artistID string) ([]Entity, error) {
	if err := f.call("RelatedArtists"); err != nil {
		return nil, err
	}
	return f.related[artistID], nil
}

func (f *fakeCatalog) PlaylistTracks(_ context.Context, playlistID string, limit, offset int) (Page[PlaylistItem], error) {
	if err := f.call("PlaylistTracks"); err != nil {
		return Page[PlaylistItem]{}, err
	}
	return paginate(f.playlistItems[playlistID], limit, offset), nil
}

func (f *fakeCatalog) UserPlaylists(_ context.Context, owner string, limit, offset int) (Page[Entity], error) {
	if err := f.call("UserPlaylists"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.userPlaylists[owner], limit, offset), nil
}

func (f *fakeCatalog) FeaturedPlaylists(_ context.Context, limit, offset int) (Page[Entity], error) {
	if err := f.call("FeaturedPlaylists"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.featured, limit, offset), nil
}

func (f *fakeCatalog) NewReleases(_ context.Context, limit, offset int) (Page[Entity], error) {
	if err := f.call("NewReleases"); err != nil {
		return Page[Entity]{}, err
	}
	return paginate(f.newReleases, limit, offset), nil
}

func (f *fakeCatalog) GenreSeeds(_ context.Context) ([]string, error) {
	if err := f.call("GenreSeeds"); err != nil {
		return nil, err
	}
	return f.genres, nil
}

func (f *fakeCatalog) Recommendations(_ context.Context, seed Seed, limit int) ([]TrackRecord, error) {
	if err := f.call("Recommendations"); err != nil {
		return nil, err
	}
	tracks := f.recommendation[seed]
	return tracks[:min(limit, len(tracks))], nil
}

func (f *fakeCatalog) CurrentUser(_ context.Context) (string, error) {
	if err := f.call("CurrentUser"); err != nil {
		return "", err
	}
	return f.user, nil
}

func (f *fakeCatalog) SavedTracks(_ context.Context, limit, offset int) (Page[TrackRecord], error) {
	if err := f.call("SavedTracks"); err != nil {
		return Page[TrackRecord]{}, err
	}
	return paginate(f.saved, limit, offset), nil
}

func (f *fakeCatalog) RecentTracks(_ context.Context, limit int) ([]TrackRecord, error) {
	if err := f.call("RecentTracks"); err != nil {
		return nil, err
	}
	return f.recent[:min(limit, len(f.recent))], nil
}

func (f *fakeCatalog) TopTracks(_ context.Context, limit int) ([]TrackRecord, error) {
	if err := f.call("TopTracks"); err != nil {
		return nil, err
	}
	return f.top[:min(limit, len(f.top))], nil
}

func (f *fakeCatalog) TopArtists(_ context.Context, limit int) ([]Entity, error) {
	if err := f.call("TopArtists"); err != nil {
		return nil, err
	}
	return f.topArtists[:min(limit, len(f.topArtists))], nil
}

// recordingSink keeps every line it receives.
type recordingSink struct {
	infos    []string
	advice   []string
	warnings []string
}

func (s *recordingSink) Info(msg string) { s.infos = append(s.infos, msg) }
func (s *recordingSink) Advice(msg string) { s.advice = append(s.advice, msg) }
func (s *recordingSink) Warning(msg string) { s.warnings = append(s.warnings, msg) }

func track(id, name, artist string) TrackRecord {
	return TrackRecord{
		ID:         id,
		URI:        "spotify:track:" + id,
		Name:       name,
		Artists:    []ArtistRef{{ID: "artist-" + artist, URI: "spotify:artist:" + artist, Name: artist}},
		DurationMs: 180000,
	}
}

func tracks(prefix string, n int) []TrackRecord {
	records := make([]TrackRecord, 0, n)
	for i := range n {
		id := fmt.Sprintf("%s%d", prefix, i)
		records = append(records, track(id, "Song "+id, "Band"))
	}
	return records
}

func entity(kind EntityKind, id, name string) Entity {
	return Entity{Kind: kind, ID: id, URI: fmt.Sprintf("spotify:%s:%s", kind, id), Name: name}
}
