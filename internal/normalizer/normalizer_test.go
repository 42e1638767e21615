package normalizer

import (
	"testing"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

func TestNormalize_ExactFieldSet(t *testing.T) {
	raw := models.RawRecord{
		"id":          "abc",
		"title":       "hello",
		"author":      "alice",
		"subreddit":   "golang",
		"created_utc": float64(1722575400),
		"selftext":    "body",
		"url":         "https://example.com",
		"permalink":   "/r/golang/comments/abc/hello/",
		"num_comments": float64(3),
		"score":        float64(42),
		"over_18":      false,
		"spoiler":      false,
		"locked":       false,
		"stickied":     false,
		// Wire noise that must not leak through.
		"thumbnail":      "self",
		"upvote_ratio":   float64(0.97),
		"all_awardings":  []any{},
		"link_flair_css": "meta",
	}

	got := Normalize(raw, models.SubmissionFields)

	if len(got) != len(models.SubmissionFields) {
		t.Fatalf("Expected %d fields, got %d: %v", len(models.SubmissionFields), len(got), got)
	}

	for _, field := range models.SubmissionFields {
		if _, ok := got[field]; !ok {
			t.Errorf("Missing field %q", field)
		}
	}

	if _, leaked := got["thumbnail"]; leaked {
		t.Error("Unrequested field leaked through")
	}

	if got["title"] != "hello" || got["score"] != float64(42) {
		t.Errorf("Pass-through fields mangled: %v", got)
	}
}

func TestNormalize_MissingFieldsBecomeNil(t *testing.T) {
	got := Normalize(models.RawRecord{"id": "abc"}, models.SubmissionFields)

	if got["id"] != "abc" {
		t.Errorf("Expected id preserved, got %v", got["id"])
	}

	for _, field := range []string{"title", "selftext", "score"} {
		if v, ok := got[field]; !ok || v != nil {
			t.Errorf("Expected %q present and nil, got %v (present=%v)", field, v, ok)
		}
	}
}

func TestNormalize_AuthorReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"plain string", "alice", "alice"},
		{"rich object", map[string]any{"name": "bob", "id": "t2_x"}, "bob"},
		{"deleted account", map[string]any{"is_suspended": true}, nil},
		{"explicit nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(models.RawRecord{"author": tt.raw}, []string{"author"})
			if got["author"] != tt.want {
				t.Errorf("Expected author %v, got %v", tt.want, got["author"])
			}
		})
	}
}

func TestNormalize_SubredditReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"plain string", "golang", "golang"},
		{"rich object", map[string]any{"display_name": "RealHungary"}, "RealHungary"},
		{"explicit nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(models.RawRecord{"subreddit": tt.raw}, []string{"subreddit"})
			if got["subreddit"] != tt.want {
				t.Errorf("Expected subreddit %v, got %v", tt.want, got["subreddit"])
			}
		})
	}
}

func TestNormalize_RichSubredditWithoutDisplayNameFallsBack(t *testing.T) {
	got := Normalize(models.RawRecord{"subreddit": map[string]any{"id": "t5_x"}}, []string{"subreddit"})

	s, ok := got["subreddit"].(string)
	if !ok || s == "" {
		t.Errorf("Expected non-empty string fallback, got %v", got["subreddit"])
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := models.RawRecord{"author": map[string]any{"name": "bob"}, "title": "x"}

	Normalize(raw, models.SubmissionFields)

	if _, ok := raw["author"].(map[string]any); !ok {
		t.Error("Input record was mutated")
	}
}
