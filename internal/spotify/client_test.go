package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotifyproxy/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&core.SpotifyConfig{Market: "CH"},
		core.CacheConfig{Size: 16, FalsePositiveRate: 0.01}, zap.NewNop())
	client.catalog = spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
	return client
}

func TestClientArtistIsCached(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/artists/a1" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id":"a1","uri":"spotify:artist:a1","name":"Daft Punk","images":[{"url":"https://i.scdn.co/image/a1"}]}`)
	}))

	for range 2 {
		artist, err := client.Artist(context.Background(), "a1")
		if err != nil {
			t.Fatalf("Artist() error = %v", err)
		}
		if artist.Name != "Daft Punk" || artist.Kind != core.EntityArtist {
			t.Errorf("Artist() = %+v", artist)
		}
		if artist.ImageURL != "https://i.scdn.co/image/a1" {
			t.Errorf("ImageURL = %q", artist.ImageURL)
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestClientArtistNotFoundIsRemembered(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"status":404,"message":"non existing id"}}`)
	}))

	for range 3 {
		if _, err := client.Artist(context.Background(), "ghost"); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("Artist() error = %v, want ErrNotFound", err)
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
	if stats := client.CacheStats()["artist"]; stats.Negatives != 2 {
		t.Errorf("Negatives = %d, want 2", stats.Negatives)
	}
}

func TestClientSearchTracks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		query := r.URL.Query()
		if query.Get("type") != "track" || query.Get("limit") != "50" || query.Get("market") != "CH" {
			t.Errorf("unexpected search query %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"tracks":{"limit":50,"offset":0,"total":1,"items":[{
			"id":"t1","uri":"spotify:track:t1","name":"One More Time","duration_ms":320357,"explicit":true,
			"artists":[{"id":"a1","uri":"spotify:artist:a1","name":"Daft Punk"}],
			"album":{"id":"al1","uri":"spotify:album:al1","name":"Discovery","release_date":"2001-03-12",
				"images":[{"url":"https://i.scdn.co/image/al1"}]}}]}}`)
	}))

	page, err := client.SearchTracks(context.Background(), "one more time", 50, 0)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
	if len(page.Items) != 1 || page.Total != 1 || page.HasNext() {
		t.Fatalf("SearchTracks() = %+v", page)
	}

	record := page.Items[0]
	if record.Name != "One More Time" || record.PrimaryArtist().Name != "Daft Punk" {
		t.Errorf("record = %+v", record)
	}
	if record.Album.Name != "Discovery" || record.Album.ReleaseDate != "2001-03-12" {
		t.Errorf("album = %+v", record.Album)
	}
	if record.DurationMs != 320357 || !record.Explicit {
		t.Errorf("duration %d explicit %v", record.DurationMs, record.Explicit)
	}
}

func TestClientUnauthorizedMapsToNotAuthenticated(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"status":401,"message":"The access token expired"}}`)
	}))

	_, err := client.Track(context.Background(), "t1")
	if !errors.Is(err, core.ErrNotAuthenticated) {
		t.Errorf("Track() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestClientLibraryRequiresUser(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	ctx := context.Background()

	if client.HasUser() {
		t.Fatal("HasUser() = true without a user token")
	}

	calls := map[string]func() error{
		"CurrentUser":   func() error { _, err := client.CurrentUser(ctx); return err },
		"SavedTracks":   func() error { _, err := client.SavedTracks(ctx, 50, 0); return err },
		"RecentTracks":  func() error { _, err := client.RecentTracks(ctx, 50); return err },
		"TopTracks":     func() error { _, err := client.TopTracks(ctx, 50); return err },
		"TopArtists":    func() error { _, err := client.TopArtists(ctx, 20); return err },
		"UserPlaylists": func() error { _, err := client.UserPlaylists(ctx, "", 50, 0); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, core.ErrNotAuthenticated) {
			t.Errorf("%s() error = %v, want ErrNotAuthenticated", name, err)
		}
	}
}

func TestClientWithoutAuthentication(t *testing.T) {
	client := NewClient(&core.SpotifyConfig{}, core.CacheConfig{Size: 4, FalsePositiveRate: 0.01}, zap.NewNop())

	_, err := client.SearchTracks(context.Background(), "anything", 10, 0)
	if err == nil || !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("SearchTracks() error = %v, want not authenticated", err)
	}
	if err := client.Authenticate(context.Background()); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Authenticate() error = %v, want ErrMissingCredentials", err)
	}
}
