// Package spotify implements the catalog client on the Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"

	"spotifyproxy/internal/core"
	"spotifyproxy/internal/store"
)

const (
	// genreSeedsKey caches the single genre seed listing
	genreSeedsKey = "genres"
)

// Client serves catalog requests with an application token and library
// requests with an optional user token.
type Client struct {
	config  *core.SpotifyConfig
	logger  *zap.Logger
	auth    *spotifyauth.Authenticator
	catalog *spotify.Client
	user    *spotify.Client

	artists   *store.LookupCache[core.Entity]
	topTracks *store.LookupCache[[]core.TrackRecord]
	genres    *store.LookupCache[[]string]
}

func NewClient(config *core.SpotifyConfig, cache core.CacheConfig, logger *zap.Logger) *Client {
	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(config.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopeUserReadRecentlyPlayed,
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
		),
		spotifyauth.WithClientID(config.ClientID),
		spotifyauth.WithClientSecret(config.ClientSecret),
	)

	return &Client{
		config:    config,
		logger:    logger.Named("spotify"),
		auth:      auth,
		artists:   store.NewLookupCache[core.Entity](cache.Size, cache.FalsePositiveRate),
		topTracks: store.NewLookupCache[[]core.TrackRecord](cache.Size, cache.FalsePositiveRate),
		genres:    store.NewLookupCache[[]string](1, cache.FalsePositiveRate),
	}
}

// CacheStats returns the lookup cache counters by cache name.
func (c *Client) CacheStats() map[string]store.Stats {
	return map[string]store.Stats{
		"artist":     c.artists.Stats(),
		"top_tracks": c.topTracks.Stats(),
		"genres":     c.genres.Stats(),
	}
}

// HasUser reports whether library requests can be served.
func (c *Client) HasUser() bool {
	return c.user != nil
}

func (c *Client) SearchTracks(ctx context.Context, query string, limit, offset int) (core.Page[core.TrackRecord], error) {
	results, err := c.search(ctx, query, spotify.SearchTypeTrack, limit, offset)
	if err != nil || results.Tracks == nil {
		return core.Page[core.TrackRecord]{}, err
	}
	return core.Page[core.TrackRecord]{
		Items:  convertFullTracks(results.Tracks.Tracks),
		Offset: int(results.Tracks.Offset),
		Total:  int(results.Tracks.Total),
	}, nil
}

func (c *Client) SearchArtists(ctx context.Context, query string, limit, offset int) (core.Page[core.Entity], error) {
	results, err := c.search(ctx, query, spotify.SearchTypeArtist, limit, offset)
	if err != nil || results.Artists == nil {
		return core.Page[core.Entity]{}, err
	}
	return core.Page[core.Entity]{
		Items:  convertArtistList(results.Artists.Artists),
		Offset: int(results.Artists.Offset),
		Total:  int(results.Artists.Total),
	}, nil
}

func (c *Client) SearchAlbums(ctx context.Context, query string, limit, offset int) (core.Page[core.Entity], error) {
	results, err := c.search(ctx, query, spotify.SearchTypeAlbum, limit, offset)
	if err != nil || results.Albums == nil {
		return core.Page[core.Entity]{}, err
	}
	return core.Page[core.Entity]{
		Items:  convertAlbumList(results.Albums.Albums),
		Offset: int(results.Albums.Offset),
		Total:  int(results.Albums.Total),
	}, nil
}

func (c *Client) SearchPlaylists(ctx context.Context, query string, limit, offset int) (core.Page[core.Entity], error) {
	results, err := c.search(ctx, query, spotify.SearchTypePlaylist, limit, offset)
	if err != nil || results.Playlists == nil {
		return core.Page[core.Entity]{}, err
	}
	return core.Page[core.Entity]{
		Items:  convertPlaylistList(results.Playlists.Playlists),
		Offset: int(results.Playlists.Offset),
		Total:  int(results.Playlists.Total),
	}, nil
}

func (c *Client) search(ctx context.Context, query string, kind spotify.SearchType, limit, offset int) (*spotify.SearchResult, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	c.logger.Debug("Searching catalog",
		zap.String("query", query),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	results, err := c.catalog.Search(ctx, query, kind, c.pageOptions(limit, offset)...)
	if err != nil {
		return nil, wrapError("search failed", err)
	}
	return results, nil
}

func (c *Client) Track(ctx context.Context, id string) (core.TrackRecord, error) {
	if c.catalog == nil {
		return core.TrackRecord{}, fmt.Errorf("client not authenticated")
	}

	track, err := c.catalog.GetTrack(ctx, spotify.ID(id), c.marketOptions()...)
	if err != nil {
		return core.TrackRecord{}, wrapError("failed to get track "+id, err)
	}
	return convertFullTrack(track), nil
}

// Artist looks up an artist through the lookup cache. Unknown IDs are
// remembered and not requested again.
func (c *Client) Artist(ctx context.Context, id string) (core.Entity, error) {
	if c.catalog == nil {
		return core.Entity{}, fmt.Errorf("client not authenticated")
	}

	artist, err := c.artists.GetOrFetch(ctx, id, func(ctx context.Context) (core.Entity, error) {
		artist, err := c.catalog.GetArtist(ctx, spotify.ID(id))
		if err != nil {
			return core.Entity{}, wrapError("failed to get artist "+id, err)
		}
		return convertArtist(artist), nil
	}, isNotFound)
	if errors.Is(err, store.ErrMissing) {
		return core.Entity{}, fmt.Errorf("artist %s: %w", id, core.ErrNotFound)
	}
	return artist, err
}

func (c *Client) Album(ctx context.Context, id string) (core.Entity, error) {
	if c.catalog == nil {
		return core.Entity{}, fmt.Errorf("client not authenticated")
	}

	album, err := c.catalog.GetAlbum(ctx, spotify.ID(id), c.marketOptions()...)
	if err != nil {
		return core.Entity{}, wrapError("failed to get album "+id, err)
	}
	return convertAlbum(&album.SimpleAlbum), nil
}

func (c *Client) Playlist(ctx context.Context, id string) (core.Entity, error) {
	client, err := c.playlistClient()
	if err != nil {
		return core.Entity{}, err
	}

	playlist, err := client.GetPlaylist(ctx, spotify.ID(id), c.marketOptions()...)
	if err != nil {
		return core.Entity{}, wrapError("failed to get playlist "+id, err)
	}
	return convertPlaylist(&playlist.SimplePlaylist), nil
}

func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit, offset int) (core.Page[core.TrackRecord], error) {
	if c.catalog == nil {
		return core.Page[core.TrackRecord]{}, fmt.Errorf("client not authenticated")
	}

	page, err := c.catalog.GetAlbumTracks(ctx, spotify.ID(albumID), c.pageOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.TrackRecord]{}, wrapError("failed to get album tracks", err)
	}
	return core.Page[core.TrackRecord]{
		Items:  convertSimpleTracks(page.Tracks),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

func (c *Client) ArtistTopTracks(ctx context.Context, artistID string) ([]core.TrackRecord, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	tracks, err := c.topTracks.GetOrFetch(ctx, artistID, func(ctx context.Context) ([]core.TrackRecord, error) {
		tracks, err := c.catalog.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.market())
		if err != nil {
			return nil, wrapError("failed to get top tracks", err)
		}
		return convertFullTracks(tracks), nil
	}, isNotFound)
	if errors.Is(err, store.ErrMissing) {
		return nil, fmt.Errorf("top tracks of %s: %w", artistID, core.ErrNotFound)
	}
	return tracks, err
}

func (c *Client) ArtistAlbums(ctx context.Context, artistID string, limit, offset int) (core.Page[core.Entity], error) {
	if c.catalog == nil {
		return core.Page[core.Entity]{}, fmt.Errorf("client not authenticated")
	}

	page, err := c.catalog.GetArtistAlbums(ctx, spotify.ID(artistID),
		[]spotify.AlbumType{spotify.AlbumTypeAlbum, spotify.AlbumTypeSingle},
		c.pageOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.Entity]{}, wrapError("failed to get artist albums", err)
	}
	return core.Page[core.Entity]{
		Items:  convertAlbumList(page.Albums),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

func (c *Client) RelatedArtists(ctx context.Context, artistID string) ([]core.Entity, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	artists, err := c.catalog.GetRelatedArtists(ctx, spotify.ID(artistID))
	if err != nil {
		return nil, wrapError("failed to get related artists", err)
	}
	return convertArtistList(artists), nil
}

func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (core.Page[core.PlaylistItem], error) {
	client, err := c.playlistClient()
	if err != nil {
		return core.Page[core.PlaylistItem]{}, err
	}

	page, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID), c.pageOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.PlaylistItem]{}, wrapError("failed to get playlist items", err)
	}
	return core.Page[core.PlaylistItem]{
		Items:  convertPlaylistItems(page.Items),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

// UserPlaylists lists owner's public playlists, or every playlist of the
// authenticated user when owner is empty.
func (c *Client) UserPlaylists(ctx context.Context, owner string, limit, offset int) (core.Page[core.Entity], error) {
	var (
		page *spotify.SimplePlaylistPage
		err  error
	)
	if owner == "" {
		if c.user == nil {
			return core.Page[core.Entity]{}, fmt.Errorf("current user playlists: %w", core.ErrNotAuthenticated)
		}
		page, err = c.user.CurrentUsersPlaylists(ctx, spotify.Limit(limit), spotify.Offset(offset))
	} else {
		client, clientErr := c.playlistClient()
		if clientErr != nil {
			return core.Page[core.Entity]{}, clientErr
		}
		page, err = client.GetPlaylistsForUser(ctx, owner, spotify.Limit(limit), spotify.Offset(offset))
	}
	if err != nil {
		return core.Page[core.Entity]{}, wrapError("failed to list playlists", err)
	}

	return core.Page[core.Entity]{
		Items:  convertPlaylistList(page.Playlists),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

func (c *Client) FeaturedPlaylists(ctx context.Context, limit, offset int) (core.Page[core.Entity], error) {
	if c.catalog == nil {
		return core.Page[core.Entity]{}, fmt.Errorf("client not authenticated")
	}

	message, page, err := c.catalog.FeaturedPlaylists(ctx, c.listingOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.Entity]{}, wrapError("failed to get featured playlists", err)
	}
	c.logger.Debug("Featured playlists", zap.String("message", message), zap.Int("total", int(page.Total)))

	return core.Page[core.Entity]{
		Items:  convertPlaylistList(page.Playlists),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

func (c *Client) NewReleases(ctx context.Context, limit, offset int) (core.Page[core.Entity], error) {
	if c.catalog == nil {
		return core.Page[core.Entity]{}, fmt.Errorf("client not authenticated")
	}

	page, err := c.catalog.NewReleases(ctx, c.listingOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.Entity]{}, wrapError("failed to get new releases", err)
	}
	return core.Page[core.Entity]{
		Items:  convertAlbumList(page.Albums),
		Offset: int(page.Offset),
		Total:  int(page.Total),
	}, nil
}

// GenreSeeds returns the recommendation genres. The listing is cached for the
// lifetime of the client.
func (c *Client) GenreSeeds(ctx context.Context) ([]string, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	return c.genres.GetOrFetch(ctx, genreSeedsKey, func(ctx context.Context) ([]string, error) {
		genres, err := c.catalog.GetAvailableGenreSeeds(ctx)
		if err != nil {
			return nil, wrapError("failed to get genre seeds", err)
		}
		return genres, nil
	}, nil)
}

func (c *Client) Recommendations(ctx context.Context, seed core.Seed, limit int) ([]core.TrackRecord, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	var seeds spotify.Seeds
	switch seed.Kind {
	case core.SeedTrack:
		seeds.Tracks = []spotify.ID{spotify.ID(seed.Value)}
	case core.SeedArtist:
		seeds.Artists = []spotify.ID{spotify.ID(seed.Value)}
	case core.SeedGenre:
		seeds.Genres = []string{seed.Value}
	}

	opts := append(c.marketOptions(), spotify.Limit(limit))
	recommendations, err := c.catalog.GetRecommendations(ctx, seeds, nil, opts...)
	if err != nil {
		return nil, wrapError("failed to get recommendations", err)
	}
	return convertSimpleTracks(recommendations.Tracks), nil
}

func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if c.user == nil {
		return "", fmt.Errorf("current user: %w", core.ErrNotAuthenticated)
	}

	user, err := c.user.CurrentUser(ctx)
	if err != nil {
		return "", wrapError("failed to get current user", err)
	}
	return user.ID, nil
}

func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (core.Page[core.TrackRecord], error) {
	if c.user == nil {
		return core.Page[core.TrackRecord]{}, fmt.Errorf("saved tracks: %w", core.ErrNotAuthenticated)
	}

	page, err := c.user.CurrentUsersTracks(ctx, c.pageOptions(limit, offset)...)
	if err != nil {
		return core.Page[core.TrackRecord]{}, wrapError("failed to get saved tracks", err)
	}

	records := make([]core.TrackRecord, 0, len(page.Tracks))
	for i := range page.Tracks {
		records = append(records, convertFullTrack(&page.Tracks[i].FullTrack))
	}
	return core.Page[core.TrackRecord]{Items: records, Offset: int(page.Offset), Total: int(page.Total)}, nil
}

func (c *Client) RecentTracks(ctx context.Context, limit int) ([]core.TrackRecord, error) {
	if c.user == nil {
		return nil, fmt.Errorf("recent tracks: %w", core.ErrNotAuthenticated)
	}

	played, err := c.user.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: limit})
	if err != nil {
		return nil, wrapError("failed to get recently played tracks", err)
	}

	records := make([]core.TrackRecord, 0, len(played))
	for i := range played {
		records = append(records, convertSimpleTrack(&played[i].Track))
	}
	return records, nil
}

func (c *Client) TopTracks(ctx context.Context, limit int) ([]core.TrackRecord, error) {
	if c.user == nil {
		return nil, fmt.Errorf("top tracks: %w", core.ErrNotAuthenticated)
	}

	page, err := c.user.CurrentUsersTopTracks(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, wrapError("failed to get top tracks", err)
	}
	return convertFullTracks(page.Tracks), nil
}

func (c *Client) TopArtists(ctx context.Context, limit int) ([]core.Entity, error) {
	if c.user == nil {
		return nil, fmt.Errorf("top artists: %w", core.ErrNotAuthenticated)
	}

	page, err := c.user.CurrentUsersTopArtists(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, wrapError("failed to get top artists", err)
	}
	return convertArtistList(page.Artists), nil
}

// playlistClient prefers the user token so private playlists resolve.
func (c *Client) playlistClient() (*spotify.Client, error) {
	if c.user != nil {
		return c.user, nil
	}
	if c.catalog == nil {
		return nil, fmt.Errorf("client not authenticated")
	}
	return c.catalog, nil
}

func (c *Client) market() string {
	if c.config.Market == "" {
		return core.DefaultMarket
	}
	return c.config.Market
}

func (c *Client) marketOptions() []spotify.RequestOption {
	return []spotify.RequestOption{spotify.Market(c.market())}
}

func (c *Client) pageOptions(limit, offset int) []spotify.RequestOption {
	return append(c.marketOptions(), spotify.Limit(limit), spotify.Offset(offset))
}

// listingOptions scopes browse listings by country instead of market.
func (c *Client) listingOptions(limit, offset int) []spotify.RequestOption {
	return []spotify.RequestOption{
		spotify.Country(c.market()),
		spotify.Limit(limit),
		spotify.Offset(offset),
	}
}

// wrapError maps Spotify status codes onto the catalog error kinds.
func wrapError(msg string, err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", msg, core.ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", msg, core.ErrNotAuthenticated, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
