package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// Error messages
	"error.generic":           "Öppis isch schief gloffe. Probier's haut nomau, bitte.",
	"error.not_found":         "%s nid gfunde: %s (oder kei passendi Lieder i dr Warteschlange)",
	"error.invalid_id":        "Das isch kei gültigi %s-ID: %s",
	"error.not_authenticated": "Für %s bruchts es Spotify-Login.",
	"error.rate_limited":      "Z viu Aafrage. Nimm's chli gmüetlecher.",
	"error.unknown_intent":    "Die Aafrag kenne mir nid: %s",
	"error.queue_empty":       "D Warteschlange isch läär.",
	"error.bad_request":       "Ungültigi Aafrag: %s",

	// Request labels used in not-found messages
	"label.tracks":                       "Lieder",
	"label.artist":                       "Künstler",
	"label.album":                        "Album",
	"label.playlist":                     "Playlist",
	"label.global_playlist":              "Playlist",
	"label.track_id":                     "Lied",
	"label.artist_id":                    "Künstler",
	"label.album_id":                     "Album",
	"label.playlist_id":                  "Playlist",
	"label.related_artists":              "Verwandti Künstler vo",
	"label.featured_playlist":            "Empfohleni Playlist",
	"label.new_release":                  "Neuerschiinig",
	"label.recommendations_by_track":     "Vorschläg zum Lied",
	"label.recommendations_by_artist":    "Vorschläg zum Künstler",
	"label.recommendations_by_genre":     "Vorschläg zum Genre",
	"label.recommendations_by_track_id":  "Vorschläg zum Lied",
	"label.recommendations_by_artist_id": "Vorschläg zum Künstler",
	"label.user_playlist":                "Dini Playlist",
	"label.user_liked_tracks":            "Dini Lieblingslieder",
	"label.user_recent_tracks":           "Dini letschte Lieder",
	"label.user_top_tracks":              "Dini Top-Lieder",
	"label.user_top_artists":             "Dini Top-Künstler",

	// Progress lines
	"request.search":  "[Spotify] Sueche %s '%s'.",
	"request.library": "[Spotify] Lade %s.",

	// Resolver trace and advice
	"trace.candidate":         "[Spotify] %s: '%s'.",
	"trace.owner_playlist":    "[Spotify] Playlist '%s' vo '%s'.",
	"advice.substitute":       "[Spotify] '%s' nid gfunde. Mir spile '%s' derfür.",
	"advice.artist_fallback":  "[Spotify] Kei Künstler mit em Name '%s'. '%s' über d Liedsuechi gfunde.",
	"warning.expansion":       "[Spotify] D Lieder vo %s '%s' hei nid chönne glade wärde.",
	"warning.user_identity":   "[Spotify] Dr aktuell Benutzer isch nid bekannt.",
	"warning.global_fallback": "[Spotify] Playlist '%s' vo '%s' nid gfunde. Mir sueche i allne Playlists.",

	// Queue lines
	"queue.entry":            "[Spotify] #%s '%s' [%s] (%s).",
	"queue.summary":          "[Spotify] %d Lieder i dr Warteschlange.",
	"queue.explicit_removed": "[Spotify] %d explizit Lieder usegnoh.",
	"queue.cleared":          "[Spotify] Warteschlange glärt.",
	"queue.play_mode":        "[Spotify] Wiedergabemodus: %s.",
	"queue.explicit_filter":  "[Spotify] Explizite Inhalt: %s.",
}
