package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"spotifyproxy/internal/i18n"
)

func newTestResolver(catalog CatalogClient) (*Resolver, *recordingSink) {
	sink := &recordingSink{}
	return NewResolver(catalog, DefaultLimits(), sink, i18n.NewLocalizer(i18n.DefaultLanguage), zap.NewNop()), sink
}

func TestResolveArtistExactMatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchArtists = []Entity{
		entity(EntityArtist, "a1", "Daft Punk Tribute"),
		entity(EntityArtist, "a2", "Daft Punk"),
	}
	resolver, sink := newTestResolver(catalog)

	artist, ok := resolver.ResolveArtist(context.Background(), "daft punk")
	if !ok {
		t.Fatal("ResolveArtist() found nothing")
	}
	if artist.ID != "a2" {
		t.Errorf("ResolveArtist() = %q, want %q", artist.ID, "a2")
	}
	if len(sink.advice) != 0 {
		t.Errorf("exact match produced advice: %v", sink.advice)
	}
	if catalog.calls["SearchTracks"] != 0 {
		t.Error("exact match should not fall back to a track search")
	}
}

func TestResolveArtistSingleCandidate(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchArtists = []Entity{
		entity(EntityArtist, "a1", "Daft Punk Tribute"),
		entity(EntityArtist, "a2", "Zzz"),
	}
	resolver, sink := newTestResolver(catalog)

	artist, ok := resolver.ResolveArtist(context.Background(), "daft punk")
	if !ok {
		t.Fatal("ResolveArtist() found nothing")
	}
	if artist.ID != "a1" {
		t.Errorf("ResolveArtist() = %q, want %q", artist.ID, "a1")
	}
	if len(sink.advice) != 1 {
		t.Fatalf("advice = %v, want one line", sink.advice)
	}
	if !strings.Contains(sink.advice[0], "Daft Punk Tribute") {
		t.Errorf("advice %q does not name the substitute", sink.advice[0])
	}
}

func TestResolveArtistTrackFallback(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchArtists = []Entity{entity(EntityArtist, "a1", "Zzz")}
	catalog.searchTracks = []TrackRecord{
		track("t1", "One More Time", "Daft Punk"),
		track("t2", "Around the World", "Daft Punk"),
	}
	catalog.artists["artist-Daft Punk"] = entity(EntityArtist, "artist-Daft Punk", "Daft Punk")
	resolver, sink := newTestResolver(catalog)

	artist, ok := resolver.ResolveArtist(context.Background(), "daft punk")
	if !ok {
		t.Fatal("ResolveArtist() found nothing")
	}
	if artist.Name != "Daft Punk" {
		t.Errorf("ResolveArtist() = %q, want %q", artist.Name, "Daft Punk")
	}
	if catalog.calls["Artist"] != 1 {
		t.Errorf("Artist() called %d times, want 1", catalog.calls["Artist"])
	}
	if len(sink.advice) != 1 {
		t.Errorf("advice = %v, want the fallback line", sink.advice)
	}
}

func TestResolveArtistNothingFound(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failures["SearchTracks"] = errors.New("boom")
	resolver, _ := newTestResolver(catalog)

	if _, ok := resolver.ResolveArtist(context.Background(), "nobody"); ok {
		t.Error("ResolveArtist() found an artist in an empty catalog")
	}
}

func TestResolveAlbumFirstHitFallback(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchAlbums = []Entity{
		entity(EntityAlbum, "al1", "Zzz"),
		entity(EntityAlbum, "al2", "Qqq"),
	}
	resolver, _ := newTestResolver(catalog)

	album, ok := resolver.ResolveAlbum(context.Background(), "abba gold")
	if !ok {
		t.Fatal("ResolveAlbum() found nothing")
	}
	if album.ID != "al1" {
		t.Errorf("ResolveAlbum() = %q, want the first hit", album.ID)
	}
}

func ownerPlaylists(n, exactAt int) []Entity {
	playlists := make([]Entity, 0, n)
	for i := range n {
		name := fmt.Sprintf("Zzz %03d", i)
		if i == exactAt {
			name = "Road Trip"
		}
		playlists = append(playlists, entity(EntityPlaylist, fmt.Sprintf("p%d", i), name))
	}
	return playlists
}

func TestResolveOwnerPlaylistPagination(t *testing.T) {
	tests := []struct {
		name      string
		exactAt   int
		wantID    string
		wantCalls int
	}{
		{name: "match on last page", exactAt: 110, wantID: "p110", wantCalls: 3},
		{name: "match stops the walk", exactAt: 60, wantID: "p60", wantCalls: 2},
		{name: "match on first page", exactAt: 3, wantID: "p3", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newFakeCatalog()
			catalog.userPlaylists["bob"] = ownerPlaylists(120, tt.exactAt)
			resolver, _ := newTestResolver(catalog)

			playlist, ok := resolver.ResolveOwnerPlaylist(context.Background(), "road trip", "bob")
			if !ok {
				t.Fatal("ResolveOwnerPlaylist() found nothing")
			}
			if playlist.ID != tt.wantID {
				t.Errorf("ResolveOwnerPlaylist() = %q, want %q", playlist.ID, tt.wantID)
			}
			if got := catalog.calls["UserPlaylists"]; got != tt.wantCalls {
				t.Errorf("UserPlaylists() called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestResolveOwnerPlaylistNoMatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.userPlaylists["bob"] = ownerPlaylists(120, -1)
	resolver, _ := newTestResolver(catalog)

	if _, ok := resolver.ResolveOwnerPlaylist(context.Background(), "road trip", "bob"); ok {
		t.Error("ResolveOwnerPlaylist() matched an unrelated playlist")
	}
	if got := catalog.calls["UserPlaylists"]; got != 3 {
		t.Errorf("UserPlaylists() called %d times, want every page", got)
	}
}

func TestResolveGenre(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.genres = []string{"rock", "hard-rock", "pop"}
	resolver, sink := newTestResolver(catalog)

	genre, ok := resolver.ResolveGenre(context.Background(), "roc")
	if !ok {
		t.Fatal("ResolveGenre() found nothing")
	}
	if genre != "rock" {
		t.Errorf("ResolveGenre() = %q, want %q", genre, "rock")
	}
	if len(sink.advice) != 1 {
		t.Errorf("advice = %v, want one substitute line", sink.advice)
	}

	genre, ok = resolver.ResolveGenre(context.Background(), "POP")
	if !ok || genre != "pop" {
		t.Errorf("ResolveGenre(POP) = %q, %v, want pop", genre, ok)
	}
}

func TestResolveTrack(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchTracks = []TrackRecord{
		track("t1", "Yesterday Once More", "Carpenters"),
		track("t2", "Yesterday", "Boyz II Men"),
		track("t3", "Yesterday - Remastered 2009", "The Beatles"),
	}
	resolver, _ := newTestResolver(catalog)

	tests := []struct {
		name   string
		title  string
		author string
		want   string
	}{
		{name: "exact title", title: "yesterday", want: "t2"},
		{name: "author wins over exact title", title: "yesterday", author: "beatles", want: "t3"},
		{name: "author with unmatched name", title: "yesterday", author: "nobody", want: "t2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := resolver.ResolveTrack(context.Background(), tt.title, tt.author)
			if !ok {
				t.Fatal("ResolveTrack() found nothing")
			}
			if record.ID != tt.want {
				t.Errorf("ResolveTrack() = %q, want %q", record.ID, tt.want)
			}
		})
	}
}

func TestResolveTrackEditionWordTitles(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchTracks = []TrackRecord{
		track("t1", "Some Other Song", "Pink"),
		track("t2", "Clean", "Pink"),
		track("t3", "Unclean Hands", "Pink"),
	}
	resolver, _ := newTestResolver(catalog)

	tests := []struct {
		title string
		want  string
	}{
		{title: "Clean", want: "t2"},
		{title: "unclean hands", want: "t3"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			record, ok := resolver.ResolveTrack(context.Background(), tt.title, "pink")
			if !ok || record.ID != tt.want {
				t.Errorf("ResolveTrack(%q, pink) = %q, %v, want %q", tt.title, record.ID, ok, tt.want)
			}
		})
	}
}

func TestResolveDispatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchPlaylists = []Entity{entity(EntityPlaylist, "g1", "Road Trip")}
	catalog.userPlaylists["bob"] = []Entity{entity(EntityPlaylist, "o1", "Road Trip")}
	resolver, _ := newTestResolver(catalog)
	ctx := context.Background()

	if playlist, _ := resolver.Resolve(ctx, "road trip", EntityPlaylist, AnyOwner); playlist.ID != "g1" {
		t.Errorf("Resolve(anyuser) = %q, want the global playlist", playlist.ID)
	}
	if playlist, _ := resolver.Resolve(ctx, "road trip", EntityPlaylist, "bob"); playlist.ID != "o1" {
		t.Errorf("Resolve(bob) = %q, want the owner's playlist", playlist.ID)
	}
}

func TestSelectionDeduplicatesNames(t *testing.T) {
	resolver, _ := newTestResolver(newFakeCatalog())
	sel := newSelection[int]("daft punk", resolver.matcher)

	sel.offer("Daft Punk Live", 1)
	sel.offer("Daft Punk Live", 2)
	if len(sel.eligible) != 1 {
		t.Fatalf("eligible = %d, want 1", len(sel.eligible))
	}

	winner, exact, ok := sel.best()
	if !ok || exact || winner.value != 1 {
		t.Errorf("best() = %v, %v, %v, want first seen candidate", winner.value, exact, ok)
	}
}
