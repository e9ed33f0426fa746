package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a request that added nothing to the playback queue.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated reports a catalog call that needs a user token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidID reports an identifier that is neither a bare ID, a URI nor a link.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnsupportedKind reports a request for an entity kind the operation cannot expand.
	ErrUnsupportedKind = errors.New("unsupported entity kind")
)

// NotFoundError is returned by every enqueue operation that leaves the queue
// length unchanged. Message is the localized text for the user.
type NotFoundError struct {
	Intent  Intent
	Query   string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no tracks found for %s %q", e.Intent, e.Query)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type EntityKind int

const (
	EntityTrack EntityKind = iota
	EntityArtist
	EntityAlbum
	EntityPlaylist
	EntityGenre
)

func (k EntityKind) String() string {
	switch k {
	case EntityTrack:
		return "track"
	case EntityArtist:
		return "artist"
	case EntityAlbum:
		return "album"
	case EntityPlaylist:
		return "playlist"
	case EntityGenre:
		return "genre"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Entity is a resolved catalog object. Only playlists carry OwnerID and
// TrackCount, and only albums carry ReleaseDate and ImageURL.
type Entity struct {
	Kind        EntityKind
	ID          string
	URI         string
	Name        string
	OwnerID     string
	TrackCount  int
	ReleaseDate string
	ImageURL    string
}

// Album returns the album reference used to fill gaps in album track records.
func (e Entity) Album() AlbumRef {
	return AlbumRef{
		ID:          e.ID,
		URI:         e.URI,
		Name:        e.Name,
		ReleaseDate: e.ReleaseDate,
		ImageURL:    e.ImageURL,
	}
}

type ArtistRef struct {
	ID   string
	URI  string
	Name string
}

type AlbumRef struct {
	ID          string
	URI         string
	Name        string
	ReleaseDate string
	ImageURL    string
}

// IsZero reports whether the reference carries no album at all.
func (a AlbumRef) IsZero() bool {
	return a == AlbumRef{}
}

// TrackRecord is a raw track as returned by the catalog. Album is zero when
// the catalog call omits album data, which album track listings do.
type TrackRecord struct {
	ID          string
	URI         string
	Name        string
	Artists     []ArtistRef
	Album       AlbumRef
	ReleaseDate string
	DurationMs  int
	Explicit    bool
}

// PrimaryArtist returns the first credited artist, or a zero reference.
func (t TrackRecord) PrimaryArtist() ArtistRef {
	if len(t.Artists) == 0 {
		return ArtistRef{}
	}
	return t.Artists[0]
}

// ArtistNames returns the credited artist names joined by ", ".
func (t TrackRecord) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// PlaylistItem wraps a playlist entry. Track is nil for entries that are not
// playable tracks, such as podcast episodes or removed local files.
type PlaylistItem struct {
	Track *TrackRecord
}

// Page is one page of a paginated catalog listing.
type Page[T any] struct {
	Items  []T
	Offset int
	Total  int
}

// HasNext reports whether the listing continues past this page.
func (p Page[T]) HasNext() bool {
	return len(p.Items) > 0 && p.Offset+len(p.Items) < p.Total
}

// NextOffset is the continuation token of the following page.
func (p Page[T]) NextOffset() int {
	return p.Offset + len(p.Items)
}

// walkPages fetches pages from offset 0 until the listing is exhausted, visit
// returns true, or maxPages pages were read.
func walkPages[T any](ctx context.Context, maxPages int,
	fetch func(ctx context.Context, offset int) (Page[T], error), visit func(T) bool,
) error {
	offset := 0
	for range maxPages {
		page, err := fetch(ctx, offset)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			if visit(item) {
				return nil
			}
		}
		if !page.HasNext() {
			return nil
		}
		offset = page.NextOffset()
	}
	return nil
}

type SeedKind int

const (
	SeedTrack SeedKind = iota
	SeedArtist
	SeedGenre
)

// Seed is a single recommendation seed. Value is an identifier for track and
// artist seeds and a genre name for genre seeds.
type Seed struct {
	Kind  SeedKind
	Value string
}

type Searcher interface {
	SearchTracks(ctx context.Context, query string, limit, offset int) (Page[TrackRecord], error)
	SearchArtists(ctx context.Context, query string, limit, offset int) (Page[Entity], error)
	SearchAlbums(ctx context.Context, query string, limit, offset int) (Page[Entity], error)
	SearchPlaylists(ctx context.Context, query string, limit, offset int) (Page[Entity], error)
}

type Lookup interface {
	Track(ctx context.Context, id string) (TrackRecord, error)
	Artist(ctx context.Context, id string) (Entity, error)
	Album(ctx context.Context, id string) (Entity, error)
	Playlist(ctx context.Context, id string) (Entity, error)
}

type Lister interface {
	AlbumTracks(ctx context.Context, albumID string, limit, offset int) (Page[TrackRecord], error)
	ArtistTopTracks(ctx context.Context, artistID string) ([]TrackRecord, error)
	ArtistAlbums(ctx context.Context, artistID string, limit, offset int) (Page[Entity], error)
	RelatedArtists(ctx context.Context, artistID string) ([]Entity, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (Page[PlaylistItem], error)
	// UserPlaylists lists the playlists of owner, or of the authenticated
	// user when owner is empty.
	UserPlaylists(ctx context.Context, owner string, limit, offset int) (Page[Entity], error)
	FeaturedPlaylists(ctx context.Context, limit, offset int) (Page[Entity], error)
	NewReleases(ctx context.Context, limit, offset int) (Page[Entity], error)
}

type Recommender interface {
	GenreSeeds(ctx context.Context) ([]string, error)
	Recommendations(ctx context.Context, seed Seed, limit int) ([]TrackRecord, error)
}

// Library covers calls on the authenticated user's own data.
type Library interface {
	CurrentUser(ctx context.Context) (string, error)
	SavedTracks(ctx context.Context, limit, offset int) (Page[TrackRecord], error)
	RecentTracks(ctx context.Context, limit int) ([]TrackRecord, error)
	TopTracks(ctx context.Context, limit int) ([]TrackRecord, error)
	TopArtists(ctx context.Context, limit int) ([]Entity, error)
}

// CatalogClient is the music catalog the proxy resolves requests against.
type CatalogClient interface {
	Searcher
	Lookup
	Lister
	Recommender
	Library
}

// Sink receives user-facing progress, advice and warning lines.
type Sink interface {
	Info(msg string)
	Advice(msg string)
	Warning(msg string)
}
