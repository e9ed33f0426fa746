package core

import (
	"context"

	"go.uber.org/zap"

	"spotifyproxy/internal/i18n"
)

// Builder expands resolved entities into queue items. Expansion never fails:
// a catalog call that errors contributes no items and is logged.
type Builder struct {
	catalog   CatalogClient
	limits    LimitsConfig
	sink      Sink
	localizer *i18n.Localizer
	logger    *zap.Logger
}

func NewBuilder(catalog CatalogClient, limits LimitsConfig, sink Sink,
	localizer *i18n.Localizer, logger *zap.Logger,
) *Builder {
	return &Builder{
		catalog:   catalog,
		limits:    limits,
		sink:      sink,
		localizer: localizer,
		logger:    logger.Named("builder"),
	}
}

// Expand dispatches on the entity kind. Genre entities expand into genre
// seeded recommendations.
func (b *Builder) Expand(ctx context.Context, entity Entity) []QueueItem {
	switch entity.Kind {
	case EntityTrack:
		track, err := b.catalog.Track(ctx, entity.ID)
		if err != nil {
			b.expansionFailed(entity, err)
			return nil
		}
		return b.ExpandTrack(track)
	case EntityArtist:
		return b.ExpandArtist(ctx, entity, true)
	case EntityAlbum:
		return b.ExpandAlbum(ctx, entity)
	case EntityPlaylist:
		return b.ExpandPlaylist(ctx, entity)
	case EntityGenre:
		return b.ExpandRecommendations(ctx, Seed{Kind: SeedGenre, Value: entity.Name})
	default:
		b.logger.Warn("Unsupported entity kind", zap.Stringer("kind", entity.Kind))
		return nil
	}
}

func (b *Builder) ExpandTrack(track TrackRecord) []QueueItem {
	return []QueueItem{NewQueueItem(track, AlbumRef{})}
}

// ExpandTracks flattens a batch of track records.
func (b *Builder) ExpandTracks(tracks []TrackRecord) []QueueItem {
	return NewQueueItems(tracks, AlbumRef{})
}

// ExpandArtist yields the artist's top tracks followed, when includeAlbums is
// set, by every track of every album in a bounded album listing.
func (b *Builder) ExpandArtist(ctx context.Context, artist Entity, includeAlbums bool) []QueueItem {
	b.logger.Debug("Expanding artist",
		zap.String("artist", artist.Name),
		zap.Bool("includeAlbums", includeAlbums))

	var items []QueueItem
	top, err := b.catalog.ArtistTopTracks(ctx, artist.ID)
	if err != nil {
		b.expansionFailed(artist, err)
	} else {
		items = append(items, b.ExpandTracks(top)...)
	}

	if !includeAlbums {
		return items
	}

	albums, err := b.catalog.ArtistAlbums(ctx, artist.ID, b.limits.ArtistAlbums, 0)
	if err != nil {
		b.logger.Warn("Artist album listing failed",
			zap.String("artist", artist.Name),
			zap.Error(err))
		return items
	}
	for _, album := range albums.Items {
		items = append(items, b.ExpandAlbum(ctx, album)...)
	}

	return items
}

// ExpandAlbum walks the album's full track listing. Album fields missing
// from the track records are taken from the album entity.
func (b *Builder) ExpandAlbum(ctx context.Context, album Entity) []QueueItem {
	b.logger.Debug("Expanding album", zap.String("album", album.Name))

	var items []QueueItem
	fallback := album.Album()
	err := walkPages(ctx, b.limits.MaxPages,
		func(ctx context.Context, offset int) (Page[TrackRecord], error) {
			return b.catalog.AlbumTracks(ctx, album.ID, b.limits.AlbumTracks, offset)
		},
		func(track TrackRecord) bool {
			items = append(items, NewQueueItem(track, fallback))
			return false
		})
	if err != nil {
		b.expansionFailed(album, err)
	}

	return items
}

// ExpandPlaylist walks every page of the playlist, skipping entries that are
// not playable tracks.
func (b *Builder) ExpandPlaylist(ctx context.Context, playlist Entity) []QueueItem {
	b.logger.Debug("Expanding playlist",
		zap.String("playlist", playlist.Name),
		zap.String("owner", playlist.OwnerID))

	var items []QueueItem
	skipped := 0
	err := walkPages(ctx, b.limits.MaxPages,
		func(ctx context.Context, offset int) (Page[PlaylistItem], error) {
			return b.catalog.PlaylistTracks(ctx, playlist.ID, b.limits.PlaylistTracks, offset)
		},
		func(entry PlaylistItem) bool {
			if entry.Track == nil {
				skipped++
				return false
			}
			items = append(items, NewQueueItem(*entry.Track, AlbumRef{}))
			return false
		})
	if err != nil {
		b.expansionFailed(playlist, err)
	}
	if skipped > 0 {
		b.logger.Debug("Skipped playlist entries without a track", zap.Int("skipped", skipped))
	}

	return items
}

// ExpandRelatedArtists yields the top tracks of the artist and of each of its
// related artists, without albums.
func (b *Builder) ExpandRelatedArtists(ctx context.Context, artist Entity) []QueueItem {
	items := b.ExpandArtist(ctx, artist, false)

	related, err := b.catalog.RelatedArtists(ctx, artist.ID)
	if err != nil {
		b.expansionFailed(artist, err)
		return items
	}
	for _, other := range related {
		items = append(items, b.ExpandArtist(ctx, other, false)...)
	}

	return items
}

// ExpandRecommendations yields the catalog's recommendations for one seed.
func (b *Builder) ExpandRecommendations(ctx context.Context, seed Seed) []QueueItem {
	tracks, err := b.catalog.Recommendations(ctx, seed, b.limits.Recommendations)
	if err != nil {
		b.logger.Warn("Recommendations failed",
			zap.String("seed", seed.Value),
			zap.Error(err))
		return nil
	}
	return b.ExpandTracks(tracks)
}

func (b *Builder) expansionFailed(entity Entity, err error) {
	b.logger.Warn("Expansion failed",
		zap.Stringer("kind", entity.Kind),
		zap.String("id", entity.ID),
		zap.String("name", entity.Name),
		zap.Error(err))
	b.sink.Warning(b.localizer.T("warning.expansion", entity.Kind, entity.Name))
}
