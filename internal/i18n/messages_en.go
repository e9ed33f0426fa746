package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages
	"error.generic":           "Something went wrong. Please try again.",
	"error.not_found":         "%s not found: %s (or no suitable tracks in queue)",
	"error.invalid_id":        "Not a valid %s identifier: %s",
	"error.not_authenticated": "Spotify user authorization is required for %s",
	"error.rate_limited":      "Too many requests. Please slow down.",
	"error.unknown_intent":    "Unknown request type: %s",
	"error.queue_empty":       "The playback queue is empty.",
	"error.bad_request":       "Invalid request: %s",

	// Request labels used in not-found messages
	"label.tracks":                       "Tracks",
	"label.artist":                       "Artist",
	"label.album":                        "Album",
	"label.playlist":                     "Playlist",
	"label.global_playlist":              "Playlist",
	"label.track_id":                     "Track",
	"label.artist_id":                    "Artist",
	"label.album_id":                     "Album",
	"label.playlist_id":                  "Playlist",
	"label.related_artists":              "Related artists of",
	"label.featured_playlist":            "Featured playlist",
	"label.new_release":                  "New release",
	"label.recommendations_by_track":     "Recommendations for track",
	"label.recommendations_by_artist":    "Recommendations for artist",
	"label.recommendations_by_genre":     "Recommendations for genre",
	"label.recommendations_by_track_id":  "Recommendations for track",
	"label.recommendations_by_artist_id": "Recommendations for artist",
	"label.user_playlist":                "Your playlist",
	"label.user_liked_tracks":            "Your liked tracks",
	"label.user_recent_tracks":           "Your recent tracks",
	"label.user_top_tracks":              "Your top tracks",
	"label.user_top_artists":             "Your top artists",

	// Progress lines
	"request.search":  "[Spotify] Looking for %s '%s'.",
	"request.library": "[Spotify] Loading %s.",

	// Resolver trace and advice
	"trace.candidate":         "[Spotify] %s: '%s'.",
	"trace.owner_playlist":    "[Spotify] Playlist '%s' by '%s'.",
	"advice.substitute":       "[Spotify] '%s' not found. Playing '%s' instead.",
	"advice.artist_fallback":  "[Spotify] No artist named '%s'. Found '%s' through a track search.",
	"warning.expansion":       "[Spotify] Could not load the tracks of %s '%s'.",
	"warning.user_identity":   "[Spotify] Could not determine the current user.",
	"warning.global_fallback": "[Spotify] Playlist '%s' not found for '%s'. Searching all playlists.",

	// Queue lines
	"queue.entry":            "[Spotify] #%s '%s' [%s] (%s).",
	"queue.summary":          "[Spotify] %d tracks in the playback queue.",
	"queue.explicit_removed": "[Spotify] Removed %d explicit tracks.",
	"queue.cleared":          "[Spotify] Playback queue cleared.",
	"queue.play_mode":        "[Spotify] Play mode: %s.",
	"queue.explicit_filter":  "[Spotify] Explicit content: %s.",
}
