package core

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// PlaybackQueue is the session's ordered collection of queue items, the play
// order permutation over it and the navigation cursor.
//
// The cursor indexes the play order, not the items. It is -1 while no track
// has been handed out. The play order is a permutation of the item indices
// whenever it is non-empty; appending invalidates it and it is rebuilt before
// the next order-dependent operation.
type PlaybackQueue struct {
	logger *zap.Logger
	rng    *rand.Rand

	items      []QueueItem
	order      []int
	orderStale bool
	cursor     int

	mode   PlayMode
	filter ExplicitFilter

	nowPlaying    QueueItem
	hasNowPlaying bool
}

func NewPlaybackQueue(mode PlayMode, filter ExplicitFilter, logger *zap.Logger) *PlaybackQueue {
	return &PlaybackQueue{
		logger: logger.Named("queue"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cursor: -1,
		mode:   mode,
		filter: filter,
	}
}

func (q *PlaybackQueue) Len() int {
	return len(q.items)
}

func (q *PlaybackQueue) Cursor() int {
	return q.cursor
}

func (q *PlaybackQueue) PlayMode() PlayMode {
	return q.mode
}

func (q *PlaybackQueue) ExplicitFilter() ExplicitFilter {
	return q.filter
}

// Order returns a copy of the play order permutation, empty while invalidated.
func (q *PlaybackQueue) Order() []int {
	if !q.orderValid() {
		return []int{}
	}
	order := make([]int, len(q.order))
	copy(order, q.order)
	return order
}

// Items returns the queue items in play order.
func (q *PlaybackQueue) Items() []QueueItem {
	q.ensureOrder()
	items := make([]QueueItem, 0, len(q.order))
	for _, idx := range q.order {
		items = append(items, q.items[idx])
	}
	return items
}

// NowPlaying returns the item most recently handed out. It stays set after
// that item is removed from the queue.
func (q *PlaybackQueue) NowPlaying() (QueueItem, bool) {
	return q.nowPlaying, q.hasNowPlaying
}

// Position returns the 1-based play position of the cursor and the queue length.
// The position is 0 while no track has been handed out.
func (q *PlaybackQueue) Position() (int, int) {
	return q.cursor + 1, len(q.items)
}

// Append adds items at the end of the queue and invalidates the play order.
func (q *PlaybackQueue) Append(items ...QueueItem) {
	if len(items) == 0 {
		return
	}
	q.items = append(q.items, items...)
	q.orderStale = true
}

// Finalize closes an enqueue operation that started at countBefore items. It
// applies the explicit filter, fails with ErrNotFound when the request added
// nothing, and refreshes the play order. It returns the number of items added.
func (q *PlaybackQueue) Finalize(countBefore int) (int, error) {
	removed := q.applyExplicitFilter()
	if removed > 0 {
		q.logger.Debug("Removed explicit tracks", zap.Int("removed", removed))
	}

	if len(q.items) <= countBefore {
		return 0, ErrNotFound
	}

	q.updateOrder()
	return len(q.items) - countBefore, nil
}

// SetPlayMode switches between NORMAL and SHUFFLE. Switching to SHUFFLE always
// reshuffles; switching to NORMAL only builds a sequential order when none exists.
func (q *PlaybackQueue) SetPlayMode(mode PlayMode) {
	q.mode = mode
	q.updateOrder()
	q.logger.Debug("Play mode changed", zap.Stringer("mode", mode))
}

// SetExplicitFilter stores the filter and, for DISALLOW, removes explicit items
// immediately. It returns the number of removed items.
func (q *PlaybackQueue) SetExplicitFilter(filter ExplicitFilter) int {
	q.filter = filter
	removed := q.applyExplicitFilter()
	q.logger.Debug("Explicit filter changed",
		zap.Stringer("filter", filter),
		zap.Int("removed", removed))
	return removed
}

// Next advances the cursor, wrapping from the last position to the first.
func (q *PlaybackQueue) Next() (QueueItem, bool) {
	return q.step(1)
}

// Prev moves the cursor back, wrapping from the first position to the last.
func (q *PlaybackQueue) Prev() (QueueItem, bool) {
	return q.step(-1)
}

// Seek hands out the item at a 1-based play position and moves the cursor
// there. Out of range positions return the item under the current cursor.
func (q *PlaybackQueue) Seek(position int) (QueueItem, bool) {
	if len(q.items) == 0 {
		return QueueItem{}, false
	}
	q.ensureOrder()

	if position >= 1 && position <= len(q.order) {
		q.cursor = position - 1
	}
	if q.cursor < 0 || q.cursor >= len(q.order) {
		return QueueItem{}, false
	}

	return q.handOut(q.order[q.cursor]), true
}

// RemoveCurrent deletes the item under the cursor and steps the cursor back
// one position, never below the first. It returns the removed item.
func (q *PlaybackQueue) RemoveCurrent() (QueueItem, bool) {
	if len(q.items) == 0 || q.cursor < 0 {
		return QueueItem{}, false
	}
	q.ensureOrder()
	if q.cursor >= len(q.order) {
		q.cursor = len(q.order) - 1
	}

	target := q.order[q.cursor]
	removed := q.items[target]
	cursor := q.cursor

	q.retain(func(idx int, _ QueueItem) bool { return idx != target })

	q.cursor = max(cursor-1, 0)
	if len(q.items) == 0 {
		q.cursor = -1
	}

	q.logger.Debug("Removed current track",
		zap.String("uri", removed.URI),
		zap.Int("remaining", len(q.items)))
	return removed, true
}

// Clear empties the queue and resets the cursor.
func (q *PlaybackQueue) Clear() {
	q.items = nil
	q.order = nil
	q.orderStale = false
	q.cursor = -1
}

func (q *PlaybackQueue) step(delta int) (QueueItem, bool) {
	if len(q.items) == 0 {
		q.cursor = -1
		return QueueItem{}, false
	}
	q.ensureOrder()

	next := q.cursor + delta
	switch {
	case next >= len(q.order):
		next = 0
	case next < 0:
		next = len(q.order) - 1
	}

	q.cursor = next
	return q.handOut(q.order[next]), true
}

func (q *PlaybackQueue) handOut(idx int) QueueItem {
	item := q.items[idx]
	q.nowPlaying = item
	q.hasNowPlaying = true
	return item
}

// applyExplicitFilter drops explicit items under DISALLOW.
func (q *PlaybackQueue) applyExplicitFilter() int {
	if q.filter != ExplicitDisallow {
		return 0
	}

	before := len(q.items)
	current := -1
	if q.cursor >= 0 && q.cursor < len(q.order) && q.order[q.cursor] < len(q.items) {
		current = q.order[q.cursor]
	}

	remap := q.retain(func(_ int, item QueueItem) bool { return !item.Explicit })
	removed := before - len(q.items)
	if removed == 0 {
		return 0
	}

	switch {
	case len(q.items) == 0:
		q.cursor = -1
	case current >= 0 && remap[current] >= 0:
		q.cursor = q.orderPosition(remap[current])
	case q.cursor >= 0:
		q.cursor = 0
	}

	return removed
}

// retain keeps the items accepted by keep and carries the play order over to
// the survivors. It returns the old-to-new index map, -1 for dropped items.
func (q *PlaybackQueue) retain(keep func(idx int, item QueueItem) bool) []int {
	remap := make([]int, len(q.items))
	kept := q.items[:0:0]
	for idx, item := range q.items {
		if keep(idx, item) {
			remap[idx] = len(kept)
			kept = append(kept, item)
		} else {
			remap[idx] = -1
		}
	}

	orderValid := q.orderValid() || q.onlyAppendsDropped(remap)
	q.items = kept

	if !orderValid {
		q.order = nil
		q.orderStale = false
		q.ensureOrder()
		return remap
	}
	q.orderStale = false

	order := make([]int, 0, len(kept))
	for _, idx := range q.order {
		if remap[idx] >= 0 {
			order = append(order, remap[idx])
		}
	}
	q.order = order
	return remap
}

// onlyAppendsDropped reports whether a stale order still covers every
// surviving item, which holds when all items appended since it was built are
// being dropped.
func (q *PlaybackQueue) onlyAppendsDropped(remap []int) bool {
	if !q.orderStale || len(q.order) == 0 || len(q.order) > len(remap) {
		return false
	}
	for _, idx := range remap[len(q.order):] {
		if idx >= 0 {
			return false
		}
	}
	return true
}

func (q *PlaybackQueue) orderPosition(idx int) int {
	for pos, candidate := range q.order {
		if candidate == idx {
			return pos
		}
	}
	return 0
}

func (q *PlaybackQueue) orderValid() bool {
	return !q.orderStale && len(q.order) == len(q.items)
}

// ensureOrder rebuilds a sequential play order when the current one was
// invalidated or no longer covers the items.
func (q *PlaybackQueue) ensureOrder() {
	if q.orderValid() {
		return
	}
	if !q.orderStale && len(q.order) > 0 {
		q.logger.Warn("Play order out of sync with queue, rebuilding",
			zap.Int("orderLength", len(q.order)),
			zap.Int("queueLength", len(q.items)))
	}
	q.order = sequentialOrder(len(q.items))
	q.orderStale = false
	if q.cursor >= len(q.order) {
		q.cursor = len(q.order) - 1
	}
}

func (q *PlaybackQueue) updateOrder() {
	if len(q.items) == 0 {
		return
	}
	q.ensureOrder()
	if q.mode == PlayModeShuffle {
		q.rng.Shuffle(len(q.order), func(i, j int) {
			q.order[i], q.order[j] = q.order[j], q.order[i]
		})
	}
}

func sequentialOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
