package core

import (
	"fmt"
	"strings"
)

const (
	unknownReleaseDate = "unknown"
	secondsPerMinute   = 60
	secondsPerHour     = 3600
	msPerSecond        = 1000
)

// QueueItem is a flattened, immutable view of one playable track.
type QueueItem struct {
	Title        string
	Artist       string
	ArtistURI    string
	Album        string
	AlbumURI     string
	ReleaseDate  string
	Duration     int
	DurationText string
	URI          string
	ThumbnailURL string
	Explicit     bool
}

// NewQueueItem flattens a track record. Album fields missing from the record
// are taken from fallback, and the release date falls back to the album's
// and then to "unknown".
func NewQueueItem(record TrackRecord, fallback AlbumRef) QueueItem {
	album := record.Album
	if album.IsZero() {
		album = fallback
	}

	albumName := album.Name
	if albumName == "" {
		albumName = fallback.Name
	}
	albumURI := album.URI
	if albumURI == "" {
		albumURI = fallback.URI
	}
	thumbnail := album.ImageURL
	if thumbnail == "" {
		thumbnail = fallback.ImageURL
	}

	releaseDate := record.ReleaseDate
	for _, candidate := range []string{album.ReleaseDate, fallback.ReleaseDate} {
		if releaseDate != "" {
			break
		}
		releaseDate = candidate
	}
	if releaseDate == "" {
		releaseDate = unknownReleaseDate
	}

	seconds := (record.DurationMs + msPerSecond/2) / msPerSecond
	primary := record.PrimaryArtist()

	return QueueItem{
		Title:        record.Name,
		Artist:       primary.Name,
		ArtistURI:    primary.URI,
		Album:        albumName,
		AlbumURI:     albumURI,
		ReleaseDate:  releaseDate,
		Duration:     seconds,
		DurationText: FormatDuration(seconds),
		URI:          record.URI,
		ThumbnailURL: thumbnail,
		Explicit:     record.Explicit,
	}
}

// NewQueueItems flattens a batch of records against the same album fallback.
func NewQueueItems(records []TrackRecord, fallback AlbumRef) []QueueItem {
	items := make([]QueueItem, 0, len(records))
	for _, record := range records {
		items = append(items, NewQueueItem(record, fallback))
	}
	return items
}

// FormatDuration renders seconds as "1h:2m:05s", "2m:05s" or "05s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / secondsPerHour
	minutes := seconds % secondsPerHour / secondsPerMinute
	secs := seconds % secondsPerMinute

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh:%dm:%02ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm:%02ds", minutes, secs)
	default:
		return fmt.Sprintf("%02ds", secs)
	}
}

// Explicitness returns "Explicit" for explicit items and "" otherwise.
func (i QueueItem) Explicitness() string {
	if i.Explicit {
		return "Explicit"
	}
	return ""
}

func (i QueueItem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s", i.Artist, i.Title)
	if i.Album != "" {
		fmt.Fprintf(&b, " [%s]", i.Album)
	}
	fmt.Fprintf(&b, " (%s)", i.DurationText)
	return b.String()
}

type PlayMode int

const (
	PlayModeNormal PlayMode = iota
	PlayModeShuffle
)

func (m PlayMode) String() string {
	switch m {
	case PlayModeNormal:
		return "NORMAL"
	case PlayModeShuffle:
		return "SHUFFLE"
	default:
		return fmt.Sprintf("PlayMode(%d)", int(m))
	}
}

func ParsePlayMode(s string) (PlayMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return PlayModeNormal, nil
	case "SHUFFLE":
		return PlayModeShuffle, nil
	default:
		return PlayModeNormal, fmt.Errorf("invalid play mode %q", s)
	}
}

type ExplicitFilter int

const (
	ExplicitAllow ExplicitFilter = iota
	ExplicitDisallow
)

func (f ExplicitFilter) String() string {
	switch f {
	case ExplicitAllow:
		return "ALLOW"
	case ExplicitDisallow:
		return "DISALLOW"
	default:
		return fmt.Sprintf("ExplicitFilter(%d)", int(f))
	}
}

func ParseExplicitFilter(s string) (ExplicitFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALLOW":
		return ExplicitAllow, nil
	case "DISALLOW":
		return ExplicitDisallow, nil
	default:
		return ExplicitDisallow, fmt.Errorf("invalid explicit filter %q", s)
	}
}
