package core

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"spotifyproxy/internal/i18n"
	"spotifyproxy/pkg/text"
)

// Proxy is one playback session of one user. It is not safe for concurrent
// use; callers serialize access.
type Proxy struct {
	config    *Config
	catalog   CatalogClient
	resolver  *Resolver
	builder   *Builder
	queue     *PlaybackQueue
	parser    *text.Parser
	sink      Sink
	localizer *i18n.Localizer
	logger    *zap.Logger

	user string
}

// TrackInfo is the metadata of the track most recently handed out. Every
// field is empty while nothing has been played.
type TrackInfo struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	ReleaseDate  string `json:"release_date"`
	Duration     int    `json:"duration"`
	DurationText string `json:"duration_text"`
	URI          string `json:"uri"`
	ArtistURI    string `json:"artist_uri"`
	AlbumURI     string `json:"album_uri"`
	Explicitness string `json:"explicitness"`
	ThumbnailURL string `json:"thumbnail_url"`
	Position     int    `json:"position"`
	QueueLength  int    `json:"queue_length"`
}

func NewProxy(config *Config, catalog CatalogClient, sink Sink, logger *zap.Logger) (*Proxy, error) {
	mode, err := ParsePlayMode(config.App.PlayMode)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	filter, err := ParseExplicitFilter(config.App.ExplicitFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger = logger.Named("proxy")
	localizer := i18n.NewLocalizer(config.App.Language)

	return &Proxy{
		config:    config,
		catalog:   catalog,
		resolver:  NewResolver(catalog, config.Limits, sink, localizer, logger),
		builder:   NewBuilder(catalog, config.Limits, sink, localizer, logger),
		queue:     NewPlaybackQueue(mode, filter, logger),
		parser:    text.NewParser(),
		sink:      sink,
		localizer: localizer,
		logger:    logger,
		user:      config.Spotify.User,
	}, nil
}

func (p *Proxy) Localizer() *i18n.Localizer {
	return p.localizer
}

// QueueLength returns the number of items in the playback queue.
func (p *Proxy) QueueLength() int {
	return p.queue.Len()
}

func (p *Proxy) SetPlayMode(mode PlayMode) {
	p.queue.SetPlayMode(mode)
	p.sink.Info(p.localizer.T("queue.play_mode", mode))
}

// SetExplicitFilter applies the filter and returns the number of removed items.
func (p *Proxy) SetExplicitFilter(filter ExplicitFilter) int {
	removed := p.queue.SetExplicitFilter(filter)
	p.sink.Info(p.localizer.T("queue.explicit_filter", filter))
	if removed > 0 {
		p.sink.Info(p.localizer.T("queue.explicit_removed", removed))
	}
	return removed
}

// Next advances to the following track, wrapping at the end of the queue.
func (p *Proxy) Next() (QueueItem, bool) {
	return p.queue.Next()
}

// Prev goes back to the previous track, wrapping at the start of the queue.
func (p *Proxy) Prev() (QueueItem, bool) {
	return p.queue.Prev()
}

// Seek hands out the track at a 1-based position. Positions outside the
// queue return the track under the cursor.
func (p *Proxy) Seek(position int) (QueueItem, bool) {
	return p.queue.Seek(position)
}

func (p *Proxy) RemoveCurrent() (QueueItem, bool) {
	return p.queue.RemoveCurrent()
}

func (p *Proxy) ClearQueue() {
	p.queue.Clear()
	p.sink.Info(p.localizer.T("queue.cleared"))
}

// Position returns the 1-based cursor position and the queue length.
func (p *Proxy) Position() (int, int) {
	return p.queue.Position()
}

// Current returns the metadata of the track most recently handed out.
func (p *Proxy) Current() TrackInfo {
	position, length := p.queue.Position()
	info := TrackInfo{Position: position, QueueLength: length}

	item, ok := p.queue.NowPlaying()
	if !ok {
		return info
	}

	info.Title = item.Title
	info.Artist = item.Artist
	info.Album = item.Album
	info.ReleaseDate = item.ReleaseDate
	info.Duration = item.Duration
	info.DurationText = item.DurationText
	info.URI = item.URI
	info.ArtistURI = item.ArtistURI
	info.AlbumURI = item.AlbumURI
	info.Explicitness = item.Explicitness()
	info.ThumbnailURL = item.ThumbnailURL
	return info
}

// Listing renders the queue in play order, one line per item followed by a
// count line. Explicit items are only listed under ALLOW.
func (p *Proxy) Listing() []string {
	items := p.queue.Items()
	width := len(strconv.Itoa(len(items)))

	lines := make([]string, 0, len(items)+1)
	for i, item := range items {
		if item.Explicit && p.queue.ExplicitFilter() != ExplicitAllow {
			continue
		}
		number := fmt.Sprintf("%0*d", width, i+1)
		lines = append(lines, p.localizer.T("queue.entry", number, item.Title, item.Artist, item.DurationText))
	}
	lines = append(lines, p.localizer.T("queue.summary", len(items)))

	return lines
}

func (p *Proxy) printQueue() {
	for _, line := range p.Listing() {
		p.sink.Info(line)
	}
}

// sessionUser returns the configured user or asks the catalog for it once.
func (p *Proxy) sessionUser(ctx context.Context) string {
	if p.user != "" {
		return p.user
	}

	user, err := p.catalog.CurrentUser(ctx)
	if err != nil {
		p.logger.Debug("Current user unavailable", zap.Error(err))
		p.sink.Warning(p.localizer.T("warning.user_identity"))
		return ""
	}
	p.user = user
	return user
}
