package core

import (
	"fmt"
	"strings"
)

// Intent names one kind of enqueue request.
type Intent int

const (
	IntentTracks Intent = iota
	IntentArtist
	IntentAlbum
	IntentPlaylist
	IntentGlobalPlaylist
	IntentTrackID
	IntentArtistID
	IntentAlbumID
	IntentPlaylistID
	IntentRelatedArtists
	IntentFeaturedPlaylist
	IntentNewRelease
	IntentRecommendationsByTrack
	IntentRecommendationsByArtist
	IntentRecommendationsByGenre
	IntentRecommendationsByTrackID
	IntentRecommendationsByArtistID
	IntentUserPlaylist
	IntentUserLikedTracks
	IntentUserRecentTracks
	IntentUserTopTracks
	IntentUserTopArtists
)

var intentNames = map[Intent]string{
	IntentTracks:                    "tracks",
	IntentArtist:                    "artist",
	IntentAlbum:                     "album",
	IntentPlaylist:                  "playlist",
	IntentGlobalPlaylist:            "global_playlist",
	IntentTrackID:                   "track_id",
	IntentArtistID:                  "artist_id",
	IntentAlbumID:                   "album_id",
	IntentPlaylistID:                "playlist_id",
	IntentRelatedArtists:            "related_artists",
	IntentFeaturedPlaylist:          "featured_playlist",
	IntentNewRelease:                "new_release",
	IntentRecommendationsByTrack:    "recommendations_by_track",
	IntentRecommendationsByArtist:   "recommendations_by_artist",
	IntentRecommendationsByGenre:    "recommendations_by_genre",
	IntentRecommendationsByTrackID:  "recommendations_by_track_id",
	IntentRecommendationsByArtistID: "recommendations_by_artist_id",
	IntentUserPlaylist:              "user_playlist",
	IntentUserLikedTracks:           "user_liked_tracks",
	IntentUserRecentTracks:          "user_recent_tracks",
	IntentUserTopTracks:             "user_top_tracks",
	IntentUserTopArtists:            "user_top_artists",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// NeedsQuery reports whether the intent requires a non-empty query.
func (i Intent) NeedsQuery() bool {
	switch i {
	case IntentUserLikedTracks, IntentUserRecentTracks, IntentUserTopTracks, IntentUserTopArtists:
		return false
	default:
		return true
	}
}

func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_")))
	for intent, name := range intentNames {
		if name == s {
			return intent, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown intent %q", ErrUnsupportedKind, s)
}

// Intents lists every intent in declaration order.
func Intents() []Intent {
	intents := make([]Intent, 0, len(intentNames))
	for i := IntentTracks; i <= IntentUserTopArtists; i++ {
		intents = append(intents, i)
	}
	return intents
}
