package crawler

import (
	"context"
	"fmt"

	"github.com/NagyLevin/Redditscrape/internal/models"
	"github.com/NagyLevin/Redditscrape/internal/normalizer"
)

// CommentSource fetches a post's fully-resolved, depth-first flattened
// comment forest, deferred placeholders included.
type CommentSource interface {
	Comments(ctx context.Context, community, postID string) ([]models.RawRecord, error)
}

// Expander expands and normalizes the comment forest of one post at a
// time.
type Expander struct {
	source CommentSource
}

// NewExpander creates an expander over the given source.
func NewExpander(source CommentSource) *Expander {
	return &Expander{source: source}
}

// Expand returns the post's comments, each normalized onto the comment
// schema. A post reporting zero comments short-circuits without issuing
// an upstream call. Expansion failures propagate to the caller.
func (e *Expander) Expand(ctx context.Context, community string, post models.RawRecord) ([]models.RawRecord, error) {
	if models.AsInt(post["num_comments"]) == 0 {
		return nil, nil
	}

	id, _ := post["id"].(string)
	if id == "" {
		return nil, nil
	}

	raw, err := e.source.Comments(ctx, community, id)
	if err != nil {
		return nil, fmt.Errorf("comment expansion for %s: %w", id, err)
	}

	out := make([]models.RawRecord, 0, len(raw))
	for _, rec := range raw {
		out = append(out, normalizer.Normalize(rec, models.CommentFields))
	}

	return out, nil
}
