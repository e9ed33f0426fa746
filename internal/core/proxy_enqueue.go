package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Enqueue resolves and expands one request and appends the result to the
// playback queue. It returns the number of items added. A request that adds
// nothing after explicit filtering fails with a *NotFoundError; the queue
// keeps whatever filtering already removed.
func (p *Proxy) Enqueue(ctx context.Context, intent Intent, query, owner string) (int, error) {
	query = p.parser.Normalize(query)
	label := p.localizer.T("label." + intent.String())

	if intent.NeedsQuery() {
		if query == "" {
			return 0, p.notFound(intent, query)
		}
		p.sink.Info(p.localizer.T("request.search", label, query))
	} else {
		p.sink.Info(p.localizer.T("request.library", label))
	}

	p.logger.Info("Enqueue request",
		zap.Stringer("intent", intent),
		zap.String("query", query),
		zap.String("owner", owner))

	before := p.queue.Len()
	items, err := p.collect(ctx, intent, query, owner)
	if err != nil {
		return 0, err
	}

	p.queue.Append(items...)
	added, err := p.queue.Finalize(before)
	if removed := before + len(items) - p.queue.Len(); removed > 0 {
		p.sink.Info(p.localizer.T("queue.explicit_removed", removed))
	}
	if err != nil {
		p.logger.Info("Nothing added to the playback queue",
			zap.Stringer("intent", intent),
			zap.String("query", query),
			zap.Int("candidates", len(items)))
		return 0, p.notFound(intent, query)
	}

	p.printQueue()
	p.logger.Info("Enqueued tracks",
		zap.Stringer("intent", intent),
		zap.Int("added", added),
		zap.Int("queueLength", p.queue.Len()))
	return added, nil
}

func (p *Proxy) notFound(intent Intent, query string) *NotFoundError {
	label := p.localizer.T("label." + intent.String())
	return &NotFoundError{
		Intent:  intent,
		Query:   query,
		Message: p.localizer.T("error.not_found", label, query),
	}
}

// collect returns the items of one request. Only malformed identifiers
// produce an error; catalog failures yield no items.
func (p *Proxy) collect(ctx context.Context, intent Intent, query, owner string) ([]QueueItem, error) {
	switch intent {
	case IntentTracks:
		page, err := p.catalog.SearchTracks(ctx, query, p.config.Limits.SearchTracks, 0)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		return p.builder.ExpandTracks(page.Items), nil

	case IntentArtist:
		entity, ok := p.resolver.ResolveArtist(ctx, query)
		return p.expandIf(ctx, entity, ok), nil
	case IntentAlbum:
		entity, ok := p.resolver.ResolveAlbum(ctx, query)
		return p.expandIf(ctx, entity, ok), nil
	case IntentPlaylist:
		return p.collectPlaylist(ctx, query, owner), nil
	case IntentGlobalPlaylist:
		entity, ok := p.resolver.ResolveGlobalPlaylist(ctx, query)
		return p.expandIf(ctx, entity, ok), nil
	case IntentUserPlaylist:
		return p.collectUserPlaylist(ctx, query), nil
	case IntentFeaturedPlaylist:
		entity, ok := p.resolver.ResolveFeaturedPlaylist(ctx, query)
		return p.expandIf(ctx, entity, ok), nil
	case IntentNewRelease:
		entity, ok := p.resolver.ResolveNewRelease(ctx, query)
		return p.expandIf(ctx, entity, ok), nil

	case IntentRelatedArtists:
		artist, ok := p.resolver.SearchArtist(ctx, query)
		if !ok {
			return nil, nil
		}
		return p.builder.ExpandRelatedArtists(ctx, artist), nil

	case IntentTrackID, IntentArtistID, IntentAlbumID, IntentPlaylistID:
		return p.collectByID(ctx, intent, query)

	case IntentRecommendationsByTrackID:
		id, err := p.extractID(EntityTrack, query)
		if err != nil {
			return nil, err
		}
		return p.builder.ExpandRecommendations(ctx, Seed{Kind: SeedTrack, Value: id}), nil
	case IntentRecommendationsByArtistID:
		id, err := p.extractID(EntityArtist, query)
		if err != nil {
			return nil, err
		}
		return p.builder.ExpandRecommendations(ctx, Seed{Kind: SeedArtist, Value: id}), nil
	case IntentRecommendationsByTrack:
		request := p.parser.ParseRequest(query)
		track, ok := p.resolver.ResolveTrack(ctx, request.Title, request.Author)
		if !ok {
			return nil, nil
		}
		p.logger.Debug("Seeding recommendations with track",
			zap.String("track", track.Name),
			zap.String("artist", track.PrimaryArtist().Name))
		return p.builder.ExpandRecommendations(ctx, Seed{Kind: SeedTrack, Value: track.ID}), nil
	case IntentRecommendationsByArtist:
		artist, ok := p.resolver.ResolveArtist(ctx, query)
		if !ok {
			return nil, nil
		}
		return p.builder.ExpandRecommendations(ctx, Seed{Kind: SeedArtist, Value: artist.ID}), nil
	case IntentRecommendationsByGenre:
		genre, ok := p.resolver.ResolveGenre(ctx, query)
		if !ok {
			return nil, nil
		}
		return p.builder.ExpandRecommendations(ctx, Seed{Kind: SeedGenre, Value: genre}), nil

	case IntentUserLikedTracks:
		page, err := p.catalog.SavedTracks(ctx, p.config.Limits.UserTracks, 0)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		return p.builder.ExpandTracks(page.Items), nil
	case IntentUserRecentTracks:
		tracks, err := p.catalog.RecentTracks(ctx, p.config.Limits.UserTracks)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		return p.builder.ExpandTracks(tracks), nil
	case IntentUserTopTracks:
		tracks, err := p.catalog.TopTracks(ctx, p.config.Limits.UserTracks)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		return p.builder.ExpandTracks(tracks), nil
	case IntentUserTopArtists:
		artists, err := p.catalog.TopArtists(ctx, p.config.Limits.UserTopArtists)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		var items []QueueItem
		for _, artist := range artists {
			items = append(items, p.builder.ExpandArtist(ctx, artist, false)...)
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, intent)
	}
}

func (p *Proxy) collectByID(ctx context.Context, intent Intent, query string) ([]QueueItem, error) {
	var kind EntityKind
	switch intent {
	case IntentTrackID:
		kind = EntityTrack
	case IntentArtistID:
		kind = EntityArtist
	case IntentAlbumID:
		kind = EntityAlbum
	default:
		kind = EntityPlaylist
	}

	id, err := p.extractID(kind, query)
	if err != nil {
		return nil, err
	}

	var entity Entity
	switch kind {
	case EntityTrack:
		track, err := p.catalog.Track(ctx, id)
		if err != nil {
			p.catalogFailed(intent, err)
			return nil, nil
		}
		return p.builder.ExpandTrack(track), nil
	case EntityArtist:
		entity, err = p.catalog.Artist(ctx, id)
	case EntityAlbum:
		entity, err = p.catalog.Album(ctx, id)
	default:
		entity, err = p.catalog.Playlist(ctx, id)
	}
	if err != nil {
		p.catalogFailed(intent, err)
		return nil, nil
	}
	return p.builder.Expand(ctx, entity), nil
}

// collectPlaylist scopes a playlist request by owner. AnyOwner, or no owner,
// searches all playlists. The session user searches their own library first.
// Any other owner has their playlists walked, and the global search is the
// fallback when that adds nothing.
func (p *Proxy) collectPlaylist(ctx context.Context, query, owner string) []QueueItem {
	if owner == "" || owner == AnyOwner {
		entity, ok := p.resolver.ResolveGlobalPlaylist(ctx, query)
		return p.expandIf(ctx, entity, ok)
	}
	if owner == p.sessionUser(ctx) {
		return p.collectUserPlaylist(ctx, query)
	}

	playlist, ok := p.resolver.ResolveOwnerPlaylist(ctx, query, owner)
	items := p.expandIf(ctx, playlist, ok)
	if len(items) > 0 {
		return items
	}

	p.sink.Warning(p.localizer.T("warning.global_fallback", query, owner))
	entity, ok := p.resolver.ResolveGlobalPlaylist(ctx, query)
	return p.expandIf(ctx, entity, ok)
}

// collectUserPlaylist searches the authenticated user's playlists and falls
// back to all playlists.
func (p *Proxy) collectUserPlaylist(ctx context.Context, query string) []QueueItem {
	playlist, ok := p.resolver.ResolveOwnerPlaylist(ctx, query, "")
	items := p.expandIf(ctx, playlist, ok)
	if len(items) > 0 {
		return items
	}

	p.sink.Warning(p.localizer.T("warning.global_fallback", query, p.user))
	entity, ok := p.resolver.ResolveGlobalPlaylist(ctx, query)
	return p.expandIf(ctx, entity, ok)
}

func (p *Proxy) expandIf(ctx context.Context, entity Entity, ok bool) []QueueItem {
	if !ok {
		return nil
	}
	return p.builder.Expand(ctx, entity)
}

func (p *Proxy) extractID(kind EntityKind, raw string) (string, error) {
	id, err := p.parser.ExtractID(kind.String(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q: %w", ErrInvalidID, kind, raw, err)
	}
	return id, nil
}

func (p *Proxy) catalogFailed(intent Intent, err error) {
	p.logger.Warn("Catalog call failed", zap.Stringer("intent", intent), zap.Error(err))
	if errors.Is(err, ErrNotAuthenticated) {
		p.sink.Warning(p.localizer.T("error.not_authenticated", p.localizer.T("label."+intent.String())))
	}
}
