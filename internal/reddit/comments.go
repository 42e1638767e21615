package reddit

import (
	"context"
	"net/url"
	"strings"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// moreBatchSize is the largest children batch /api/morechildren accepts.
const moreBatchSize = 100

// Comments fetches the full comment forest of a post, resolving every
// deferred "more" placeholder, and returns it flattened depth-first in the
// order the upstream tree provides.
func (s *Session) Comments(ctx context.Context, community, postID string) ([]models.RawRecord, error) {
	var payload []listing

	q := url.Values{
		"limit":    {"500"},
		"raw_json": {"1"},
	}
	if err := s.getJSON(ctx, "/r/"+community+"/comments/"+postID, q, &payload); err != nil {
		return nil, err
	}

	// The endpoint answers with two listings: the post itself, then the
	// comment forest.
	if len(payload) < 2 {
		return nil, nil
	}

	records, more := flattenTree(payload[1].Data.Children)

	link := LinkFullname(postID)

	for len(more) > 0 {
		batch := more
		if len(batch) > moreBatchSize {
			batch = more[:moreBatchSize]
			more = more[moreBatchSize:]
		} else {
			more = nil
		}

		things, err := s.moreChildren(ctx, link, batch)
		if err != nil {
			return nil, err
		}

		recs, deferred := flattenTree(things)
		records = append(records, recs...)
		more = append(more, deferred...)
	}

	return records, nil
}

// moreChildren resolves one batch of deferred comment ids.
func (s *Session) moreChildren(ctx context.Context, linkFullname string, children []string) ([]thing, error) {
	var payload struct {
		JSON struct {
			Data struct {
				Things []thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}

	q := url.Values{
		"api_type":       {"json"},
		"link_id":        {linkFullname},
		"children":       {strings.Join(children, ",")},
		"limit_children": {"false"},
		"raw_json":       {"1"},
	}
	if err := s.getJSON(ctx, "/api/morechildren", q, &payload); err != nil {
		return nil, err
	}

	return payload.JSON.Data.Things, nil
}

// flattenTree walks a comment forest depth-first, collecting resolved
// comments and the ids of deferred "more" placeholders.
func flattenTree(children []thing) ([]models.RawRecord, []string) {
	var records []models.RawRecord

	var more []string

	for _, child := range children {
		switch child.Kind {
		case kindComment:
			if child.Data == nil {
				continue
			}

			records = append(records, scrubDeleted(child.Data))

			recs, deferred := flattenTree(replyThings(child.Data["replies"]))
			records = append(records, recs...)
			more = append(more, deferred...)
		case kindMore:
			more = append(more, moreIDs(child.Data)...)
		}
	}

	return records, more
}

// replyThings converts a comment's replies value into child things. Leaf
// comments carry an empty string instead of a listing.
func replyThings(v any) []thing {
	lst, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	data, ok := lst["data"].(map[string]any)
	if !ok {
		return nil
	}

	children, ok := data["children"].([]any)
	if !ok {
		return nil
	}

	things := make([]thing, 0, len(children))

	for _, c := range children {
		m, ok := c.(map[string]any)
		if !ok {
			continue
		}

		kind, _ := m["kind"].(string)

		childData, ok := m["data"].(map[string]any)
		if !ok {
			continue
		}

		things = append(things, thing{Kind: kind, Data: childData})
	}

	return things
}

// moreIDs extracts the deferred child ids of a "more" placeholder.
func moreIDs(data models.RawRecord) []string {
	raw, ok := data["children"].([]any)
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(raw))

	for _, v := range raw {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}
