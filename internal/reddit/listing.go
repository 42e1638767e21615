package reddit

import (
	"context"
	"net/url"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// listingPageSize is the largest page the listing API serves.
const listingPageSize = "100"

// AboutSubreddit probes a subreddit's about endpoint and returns its
// metadata. Missing, private and quarantined subreddits come back as
// *APIError.
func (s *Session) AboutSubreddit(ctx context.Context, name string) (models.RawRecord, error) {
	var th thing

	q := url.Values{"raw_json": {"1"}}
	if err := s.getJSON(ctx, "/r/"+name+"/about", q, &th); err != nil {
		return nil, err
	}

	return th.Data, nil
}

// PostIterator lazily walks a subreddit's new feed, newest first. It is not
// restartable; callers drive it with Next until exhaustion.
type PostIterator struct {
	session   *Session
	community string
	after     string
	page      []models.RawRecord
	idx       int
	done      bool
}

// NewPosts returns an iterator over the subreddit's reverse-chronological
// new feed.
func (s *Session) NewPosts(community string) *PostIterator {
	return &PostIterator{
		session:   s,
		community: community,
	}
}

// Next returns the next post, or ok=false when the feed is exhausted.
func (it *PostIterator) Next(ctx context.Context) (models.RawRecord, bool, error) {
	for {
		if it.idx < len(it.page) {
			rec := it.page[it.idx]
			it.idx++

			return rec, true, nil
		}

		if it.done {
			return nil, false, nil
		}

		if err := it.fetchPage(ctx); err != nil {
			return nil, false, err
		}

		if len(it.page) == 0 {
			it.done = true

			return nil, false, nil
		}
	}
}

func (it *PostIterator) fetchPage(ctx context.Context) error {
	q := url.Values{
		"limit":    {listingPageSize},
		"raw_json": {"1"},
	}
	if it.after != "" {
		q.Set("after", it.after)
	}

	var lst listing
	if err := it.session.getJSON(ctx, "/r/"+it.community+"/new", q, &lst); err != nil {
		return err
	}

	it.page = it.page[:0]
	it.idx = 0

	for _, child := range lst.Data.Children {
		if child.Kind != kindLink || child.Data == nil {
			continue
		}

		it.page = append(it.page, scrubDeleted(child.Data))
	}

	it.after = lst.Data.After
	if it.after == "" {
		it.done = true
	}

	return nil
}
