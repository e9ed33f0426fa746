package spotify

import (
	"github.com/zmb3/spotify/v2"

	"spotifyproxy/internal/core"
)

func convertArtists(artists []spotify.SimpleArtist) []core.ArtistRef {
	refs := make([]core.ArtistRef, 0, len(artists))
	for _, artist := range artists {
		refs = append(refs, core.ArtistRef{
			ID:   string(artist.ID),
			URI:  string(artist.URI),
			Name: artist.Name,
		})
	}
	return refs
}

func convertAlbumRef(album *spotify.SimpleAlbum) core.AlbumRef {
	return core.AlbumRef{
		ID:          string(album.ID),
		URI:         string(album.URI),
		Name:        album.Name,
		ReleaseDate: album.ReleaseDate,
		ImageURL:    firstImage(album.Images),
	}
}

// convertFullTrack keeps the album the track appears on.
func convertFullTrack(track *spotify.FullTrack) core.TrackRecord {
	record := convertSimpleTrack(&track.SimpleTrack)
	record.Album = convertAlbumRef(&track.Album)
	return record
}

// convertSimpleTrack leaves Album zero; album track listings and
// recommendations do not carry reliable album data.
func convertSimpleTrack(track *spotify.SimpleTrack) core.TrackRecord {
	return core.TrackRecord{
		ID:         string(track.ID),
		URI:        string(track.URI),
		Name:       track.Name,
		Artists:    convertArtists(track.Artists),
		DurationMs: int(track.Duration),
		Explicit:   track.Explicit,
	}
}

func convertFullTracks(tracks []spotify.FullTrack) []core.TrackRecord {
	records := make([]core.TrackRecord, 0, len(tracks))
	for i := range tracks {
		records = append(records, convertFullTrack(&tracks[i]))
	}
	return records
}

func convertSimpleTracks(tracks []spotify.SimpleTrack) []core.TrackRecord {
	records := make([]core.TrackRecord, 0, len(tracks))
	for i := range tracks {
		records = append(records, convertSimpleTrack(&tracks[i]))
	}
	return records
}

func convertArtist(artist *spotify.FullArtist) core.Entity {
	return core.Entity{
		Kind:     core.EntityArtist,
		ID:       string(artist.ID),
		URI:      string(artist.URI),
		Name:     artist.Name,
		ImageURL: firstImage(artist.Images),
	}
}

func convertArtistList(artists []spotify.FullArtist) []core.Entity {
	entities := make([]core.Entity, 0, len(artists))
	for i := range artists {
		entities = append(entities, convertArtist(&artists[i]))
	}
	return entities
}

func convertAlbum(album *spotify.SimpleAlbum) core.Entity {
	return core.Entity{
		Kind:        core.EntityAlbum,
		ID:          string(album.ID),
		URI:         string(album.URI),
		Name:        album.Name,
		ReleaseDate: album.ReleaseDate,
		ImageURL:    firstImage(album.Images),
	}
}

func convertAlbumList(albums []spotify.SimpleAlbum) []core.Entity {
	entities := make([]core.Entity, 0, len(albums))
	for i := range albums {
		entities = append(entities, convertAlbum(&albums[i]))
	}
	return entities
}

func convertPlaylist(playlist *spotify.SimplePlaylist) core.Entity {
	return core.Entity{
		Kind:    core.EntityPlaylist,
		ID:      string(playlist.ID),
		URI:     string(playlist.URI),
		Name:    playlist.Name,
		OwnerID: playlist.Owner.ID,
		// Spotify playlist counts are reasonable for int conversion
		TrackCount: int(playlist.Tracks.Total), //nolint:gosec
		ImageURL:   firstImage(playlist.Images),
	}
}

func convertPlaylistList(playlists []spotify.SimplePlaylist) []core.Entity {
	entities := make([]core.Entity, 0, len(playlists))
	for i := range playlists {
		entities = append(entities, convertPlaylist(&playlists[i]))
	}
	return entities
}

// convertPlaylistItems maps episodes and unavailable entries to items
// without a track.
func convertPlaylistItems(items []spotify.PlaylistItem) []core.PlaylistItem {
	entries := make([]core.PlaylistItem, 0, len(items))
	for i := range items {
		var entry core.PlaylistItem
		if track := items[i].Track.Track; track != nil && track.ID != "" {
			record := convertFullTrack(track)
			entry.Track = &record
		}
		entries = append(entries, entry)
	}
	return entries
}

// firstImage returns the largest image; Spotify lists images widest first.
func firstImage(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
