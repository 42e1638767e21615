package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// fakeComments counts expansion calls and serves canned forests.
type fakeComments struct {
	forest []models.RawRecord
	err    error
	calls  int
}

func (f *fakeComments) Comments(ctx context.Context, community, postID string) ([]models.RawRecord, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.forest, nil
}

func TestExpander_ZeroCommentsShortCircuits(t *testing.T) {
	source := &fakeComments{}
	e := NewExpander(source)

	post := models.RawRecord{"id": "abc", "num_comments": float64(0)}

	got, err := e.Expand(context.Background(), "golang", post)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Expected no comments, got %d", len(got))
	}

	if source.calls != 0 {
		t.Errorf("Expected zero expansion calls, got %d", source.calls)
	}
}

func TestExpander_NormalizesEachComment(t *testing.T) {
	source := &fakeComments{
		forest: []models.RawRecord{
			{
				"id": "c1", "author": "alice", "subreddit": "golang",
				"created_utc": float64(100), "body": "first", "score": float64(3),
				"parent_id": "t3_abc", "link_id": "t3_abc",
				"permalink": "/r/golang/1", "is_submitter": true,
				"replies": "ignored extra field",
			},
			{
				"id": "c2", "author": nil, "created_utc": float64(90),
				"body": "second", "parent_id": "t1_c1", "link_id": "t3_abc",
			},
		},
	}
	e := NewExpander(source)

	post := models.RawRecord{"id": "abc", "num_comments": float64(2)}

	got, err := e.Expand(context.Background(), "golang", post)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(got))
	}

	if source.calls != 1 {
		t.Errorf("Expected exactly one expansion call, got %d", source.calls)
	}

	for _, rec := range got {
		if len(rec) != len(models.CommentFields) {
			t.Errorf("Expected exactly %d fields, got %d", len(models.CommentFields), len(rec))
		}

		if _, ok := rec["replies"]; ok {
			t.Error("Expected replies to be dropped by normalization")
		}
	}

	if got[1]["score"] != nil {
		t.Errorf("Expected missing score to normalize to nil, got %v", got[1]["score"])
	}
}

func TestExpander_PropagatesFailure(t *testing.T) {
	source := &fakeComments{err: errors.New("access revoked")}
	e := NewExpander(source)

	post := models.RawRecord{"id": "abc", "num_comments": float64(7)}

	if _, err := e.Expand(context.Background(), "golang", post); err == nil {
		t.Fatal("Expected expansion failure to propagate")
	}
}
