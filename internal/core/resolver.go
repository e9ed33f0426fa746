package core

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"spotifyproxy/internal/i18n"
	"spotifyproxy/pkg/fuzzy"
)

// EligibilityThreshold is the partial ratio a candidate name must exceed to
// take part in best-match ranking.
const EligibilityThreshold = 50

// Resolver turns a free-text query into the single best matching catalog entity.
//
// Every candidate is compared in listing order. A case-insensitive exact name
// match wins outright and stops the listing walk. Otherwise candidates whose
// partial ratio exceeds EligibilityThreshold are kept in first-seen order, and
// when more than one remains the best one is picked by fuzzy.Matcher.ExtractOne.
type Resolver struct {
	catalog   CatalogClient
	matcher   *fuzzy.Matcher
	limits    LimitsConfig
	sink      Sink
	localizer *i18n.Localizer
	logger    *zap.Logger
}

func NewResolver(catalog CatalogClient, limits LimitsConfig, sink Sink,
	localizer *i18n.Localizer, logger *zap.Logger,
) *Resolver {
	return &Resolver{
		catalog:   catalog,
		matcher:   fuzzy.NewMatcher(),
		limits:    limits,
		sink:      sink,
		localizer: localizer,
		logger:    logger.Named("resolver"),
	}
}

// Resolve dispatches on kind. owner only applies to playlists: empty or
// AnyOwner searches the global catalog, anything else scopes the search to
// that owner's playlists.
func (r *Resolver) Resolve(ctx context.Context, query string, kind EntityKind, owner string) (Entity, bool) {
	switch kind {
	case EntityArtist:
		return r.ResolveArtist(ctx, query)
	case EntityAlbum:
		return r.ResolveAlbum(ctx, query)
	case EntityPlaylist:
		if owner == "" || owner == AnyOwner {
			return r.ResolveGlobalPlaylist(ctx, query)
		}
		return r.ResolveOwnerPlaylist(ctx, query, owner)
	case EntityGenre:
		genre, ok := r.ResolveGenre(ctx, query)
		return Entity{Kind: EntityGenre, ID: genre, Name: genre}, ok
	case EntityTrack:
		track, ok := r.ResolveTrack(ctx, query, "")
		return Entity{Kind: EntityTrack, ID: track.ID, URI: track.URI, Name: track.Name}, ok
	default:
		r.logger.Warn("Unsupported entity kind", zap.Stringer("kind", kind))
		return Entity{}, false
	}
}

// SearchArtist resolves an artist over the artist search results only.
func (r *Resolver) SearchArtist(ctx context.Context, query string) (Entity, bool) {
	return r.pickEntity(ctx, query, EntityArtist, 1, func(ctx context.Context, offset int) (Page[Entity], error) {
		return r.catalog.SearchArtists(ctx, query, r.limits.SearchArtists, offset)
	})
}

// ResolveArtist resolves an artist and, when the artist search has no
// eligible name, falls back to the primary artists of a track search. The
// first primary artist that can be looked up wins.
func (r *Resolver) ResolveArtist(ctx context.Context, query string) (Entity, bool) {
	if artist, ok := r.SearchArtist(ctx, query); ok {
		return artist, true
	}

	r.logger.Debug("No artist found, falling back to track search", zap.String("query", query))
	page, err := r.catalog.SearchTracks(ctx, query, r.limits.ArtistFallbackTracks, 0)
	if err != nil {
		r.logger.Warn("Track search failed", zap.String("query", query), zap.Error(err))
		return Entity{}, false
	}

	tried := make(map[string]bool)
	for _, track := range page.Items {
		primary := track.PrimaryArtist()
		if primary.ID == "" || tried[primary.ID] {
			continue
		}
		tried[primary.ID] = true

		artist, err := r.catalog.Artist(ctx, primary.ID)
		if err != nil {
			r.logger.Debug("Artist lookup failed",
				zap.String("artistID", primary.ID),
				zap.Error(err))
			continue
		}
		r.sink.Advice(r.localizer.T("advice.artist_fallback", query, artist.Name))
		return artist, true
	}

	return Entity{}, false
}

// ResolveAlbum resolves an album over the album search results and falls
// back to the first hit when no name is eligible.
func (r *Resolver) ResolveAlbum(ctx context.Context, query string) (Entity, bool) {
	var first *Entity
	album, ok := r.pickEntity(ctx, query, EntityAlbum, 1, func(ctx context.Context, offset int) (Page[Entity], error) {
		page, err := r.catalog.SearchAlbums(ctx, query, r.limits.SearchAlbums, offset)
		if err == nil && first == nil && len(page.Items) > 0 {
			first = &page.Items[0]
		}
		return page, err
	})
	if ok {
		return album, true
	}
	if first != nil {
		return *first, true
	}
	return Entity{}, false
}

// ResolveGlobalPlaylist resolves a playlist over the global playlist search.
func (r *Resolver) ResolveGlobalPlaylist(ctx context.Context, query string) (Entity, bool) {
	return r.pickEntity(ctx, query, EntityPlaylist, 1, func(ctx context.Context, offset int) (Page[Entity], error) {
		return r.catalog.SearchPlaylists(ctx, query, r.limits.SearchPlaylists, offset)
	})
}

// ResolveOwnerPlaylist walks every page of owner's playlists. An empty owner
// means the authenticated user.
func (r *Resolver) ResolveOwnerPlaylist(ctx context.Context, query, owner string) (Entity, bool) {
	return r.pickEntity(ctx, query, EntityPlaylist, r.limits.MaxPages, func(ctx context.Context, offset int) (Page[Entity], error) {
		return r.catalog.UserPlaylists(ctx, owner, r.limits.Listing, offset)
	})
}

// ResolveFeaturedPlaylist walks the featured playlist listing.
func (r *Resolver) ResolveFeaturedPlaylist(ctx context.Context, query string) (Entity, bool) {
	return r.pickEntity(ctx, query, EntityPlaylist, r.limits.MaxPages, func(ctx context.Context, offset int) (Page[Entity], error) {
		return r.catalog.FeaturedPlaylists(ctx, r.limits.Listing, offset)
	})
}

// ResolveNewRelease walks the new release album listing.
func (r *Resolver) ResolveNewRelease(ctx context.Context, query string) (Entity, bool) {
	return r.pickEntity(ctx, query, EntityAlbum, r.limits.MaxPages, func(ctx context.Context, offset int) (Page[Entity], error) {
		return r.catalog.NewReleases(ctx, r.limits.Listing, offset)
	})
}

// ResolveGenre resolves a genre name over the available recommendation seeds.
func (r *Resolver) ResolveGenre(ctx context.Context, query string) (string, bool) {
	genres, err := r.catalog.GenreSeeds(ctx)
	if err != nil {
		r.logger.Warn("Genre seeds unavailable", zap.Error(err))
		return "", false
	}

	sel := newSelection[string](query, r.matcher)
	for _, genre := range genres {
		r.trace(EntityGenre, genre)
		if sel.offer(genre, genre) {
			break
		}
	}
	return settleSelection(r, query, sel)
}

// ResolveTrack resolves a track over a track search. When author is set, the
// first track whose name contains title and whose primary artist contains
// author wins outright.
func (r *Resolver) ResolveTrack(ctx context.Context, title, author string) (TrackRecord, bool) {
	page, err := r.catalog.SearchTracks(ctx, title, r.limits.ArtistFallbackTracks, 0)
	if err != nil {
		r.logger.Warn("Track search failed", zap.String("query", title), zap.Error(err))
		return TrackRecord{}, false
	}

	sel := newSelection[TrackRecord](title, r.matcher)
	for _, track := range page.Items {
		r.trace(EntityTrack, track.Name)
		if author != "" &&
			r.matcher.TitleContains(track.Name, title) &&
			r.matcher.ArtistContains(track.PrimaryArtist().Name, author) {
			return track, true
		}
		// With an author hint an exact title alone does not end the search.
		if sel.offer(track.Name, track) && author == "" {
			break
		}
	}
	return settleSelection(r, title, sel)
}

func (r *Resolver) pickEntity(ctx context.Context, query string, kind EntityKind, maxPages int,
	fetch func(ctx context.Context, offset int) (Page[Entity], error),
) (Entity, bool) {
	sel := newSelection[Entity](query, r.matcher)
	err := walkPages(ctx, maxPages, fetch, func(entity Entity) bool {
		if entity.Kind == EntityPlaylist && entity.OwnerID != "" {
			r.sink.Info(r.localizer.T("trace.owner_playlist", entity.Name, entity.OwnerID))
			r.logger.Debug("Inspecting candidate",
				zap.Stringer("kind", kind),
				zap.String("name", entity.Name),
				zap.String("owner", entity.OwnerID),
				zap.Int("tracks", entity.TrackCount))
		} else {
			r.trace(kind, entity.Name)
		}
		return sel.offer(entity.Name, entity)
	})
	if err != nil {
		r.logger.Warn("Catalog listing failed",
			zap.Stringer("kind", kind),
			zap.String("query", query),
			zap.Error(err))
	}
	return settleSelection(r, query, sel)
}

func (r *Resolver) trace(kind EntityKind, name string) {
	r.sink.Info(r.localizer.T("trace.candidate", kind, name))
	r.logger.Debug("Inspecting candidate", zap.Stringer("kind", kind), zap.String("name", name))
}

// settleSelection returns the selection's winner and advises the user when it is not
// an exact match for the query.
func settleSelection[T any](r *Resolver, query string, sel *selection[T]) (T, bool) {
	winner, exact, ok := sel.best()
	if !ok {
		var zero T
		r.logger.Debug("No eligible candidate", zap.String("query", query))
		return zero, false
	}
	if !exact {
		r.sink.Advice(r.localizer.T("advice.substitute", query, winner.name))
	}
	r.logger.Debug("Resolved query",
		zap.String("query", query),
		zap.String("name", winner.name),
		zap.Bool("exact", exact))
	return winner.value, true
}

type candidate[T any] struct {
	name  string
	value T
}

// selection accumulates candidates for one query.
type selection[T any] struct {
	query    string
	matcher  *fuzzy.Matcher
	exact    *candidate[T]
	eligible []candidate[T]
	seen     map[string]bool
}

func newSelection[T any](query string, matcher *fuzzy.Matcher) *selection[T] {
	return &selection[T]{
		query:   query,
		matcher: matcher,
		seen:    make(map[string]bool),
	}
}

// offer scores one candidate and reports whether it is an exact match.
func (s *selection[T]) offer(name string, value T) bool {
	if s.exact != nil {
		return true
	}
	if strings.EqualFold(name, s.query) {
		s.exact = &candidate[T]{name: name, value: value}
		return true
	}
	if s.seen[name] {
		return false
	}
	if s.matcher.PartialRatio(s.query, name) > EligibilityThreshold {
		s.seen[name] = true
		s.eligible = append(s.eligible, candidate[T]{name: name, value: value})
	}
	return false
}

// best returns the winner, whether it was an exact match, and whether any
// candidate qualified.
func (s *selection[T]) best() (candidate[T], bool, bool) {
	switch {
	case s.exact != nil:
		return *s.exact, true, true
	case len(s.eligible) == 0:
		return candidate[T]{}, false, false
	case len(s.eligible) == 1:
		return s.eligible[0], false, true
	}

	names := make([]string, len(s.eligible))
	for i, c := range s.eligible {
		names[i] = c.name
	}
	index, _ := s.matcher.ExtractOne(s.query, names)
	return s.eligible[index], false, true
}
