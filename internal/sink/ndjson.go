package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// Flush thresholds. Buffering exists purely for I/O efficiency; a hard
// crash before a threshold loses at most one buffer's worth of records
// per file, which is the accepted durability limit of this format.
const (
	postFlushThreshold    = 50
	commentFlushThreshold = 200
)

// NDJSONSink buffers normalized records and appends them to two per-
// community files, one JSON object per line, non-ASCII left unescaped.
type NDJSONSink struct {
	submissionsPath string
	commentsPath    string
	posts           []models.RawRecord
	comments        []models.RawRecord
}

// NewNDJSONSink creates the sink for one community, ensuring the output
// directory exists.
func NewNDJSONSink(dir, community string) (*NDJSONSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &NDJSONSink{
		submissionsPath: SubmissionsPath(dir, community),
		commentsPath:    CommentsPath(dir, community),
	}, nil
}

// Add buffers the post and its comments, flushing whichever buffer has
// reached its threshold.
func (s *NDJSONSink) Add(post models.RawRecord, comments []models.RawRecord) error {
	s.posts = append(s.posts, post)
	s.comments = append(s.comments, comments...)

	if len(s.posts) >= postFlushThreshold {
		if err := appendLines(s.submissionsPath, s.posts); err != nil {
			return err
		}

		s.posts = s.posts[:0]
	}

	if len(s.comments) >= commentFlushThreshold {
		if err := appendLines(s.commentsPath, s.comments); err != nil {
			return err
		}

		s.comments = s.comments[:0]
	}

	return nil
}

// Flush drains both buffers.
func (s *NDJSONSink) Flush() error {
	if len(s.posts) > 0 {
		if err := appendLines(s.submissionsPath, s.posts); err != nil {
			return err
		}

		s.posts = s.posts[:0]
	}

	if len(s.comments) > 0 {
		if err := appendLines(s.commentsPath, s.comments); err != nil {
			return err
		}

		s.comments = s.comments[:0]
	}

	return nil
}

// Discard drops the unflushed buffers.
func (s *NDJSONSink) Discard() {
	s.posts = nil
	s.comments = nil
}

// Close is a no-op; files are opened per flush.
func (s *NDJSONSink) Close() error {
	return nil
}

// appendLines appends records to path, one JSON object per line.
func appendLines(path string, records []models.RawRecord) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	w := bufio.NewWriter(f)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			_ = f.Close()

			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()

		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
