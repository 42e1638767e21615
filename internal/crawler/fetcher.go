package crawler

import (
	"context"
	"fmt"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// FeedIterator is the upstream reverse-chronological (newest first) post
// iterator. It is assumed neither seekable nor server-side filterable.
type FeedIterator interface {
	Next(ctx context.Context) (models.RawRecord, bool, error)
}

// Fetcher applies a time window and an optional item ceiling to a
// newest-first feed, yielding raw items lazily. It is not restartable.
type Fetcher struct {
	feed    FeedIterator
	window  Window
	limit   int
	emitted int
	done    bool
}

// NewFetcher wraps the feed. limit 0 means no ceiling.
func NewFetcher(feed FeedIterator, window Window, limit int) *Fetcher {
	return &Fetcher{
		feed:   feed,
		window: window,
		limit:  limit,
	}
}

// Next returns the next in-window item, or ok=false when the scan is over.
// Items above the upper bound are skipped and scanning continues; the
// first item below the lower bound ends the scan, since a newest-first
// feed guarantees everything after it is older still.
func (f *Fetcher) Next(ctx context.Context) (models.RawRecord, bool, error) {
	if f.done {
		return nil, false, nil
	}

	for {
		rec, ok, err := f.feed.Next(ctx)
		if err != nil {
			f.done = true

			return nil, false, fmt.Errorf("feed scan: %w", err)
		}

		if !ok {
			f.done = true

			return nil, false, nil
		}

		epoch := models.CreatedUTC(rec)

		if f.window.TooRecent(epoch) {
			continue
		}

		if f.window.TooOld(epoch) {
			f.done = true

			return nil, false, nil
		}

		f.emitted++
		if f.limit > 0 && f.emitted >= f.limit {
			f.done = true
		}

		return rec, true, nil
	}
}
