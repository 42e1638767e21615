// Package sink persists normalized records for one community's run,
// either as append-only line-delimited JSON or as grouped human-readable
// text.
package sink

import (
	"path/filepath"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// Sink receives normalized records for one community's run. Exactly one
// sink owns the community's output files for the duration of the run.
type Sink interface {
	// Add accepts one normalized post together with its normalized
	// comments.
	Add(post models.RawRecord, comments []models.RawRecord) error

	// Flush drains any remaining buffered records on normal completion.
	Flush() error

	// Discard drops buffered, not-yet-flushed records after a failed run.
	// Already-flushed data is untouched.
	Discard()

	// Close releases the underlying file handles. Safe after Discard.
	Close() error
}

// SubmissionsPath returns the line-delimited submissions file for a
// community. Paths are deterministic so reruns append to the same files.
func SubmissionsPath(dir, community string) string {
	return filepath.Join(dir, community+".submissions.ndjson")
}

// CommentsPath returns the line-delimited comments file for a community.
func CommentsPath(dir, community string) string {
	return filepath.Join(dir, community+".comments.ndjson")
}

// TextPath returns the grouped text file for a community.
func TextPath(dir, community string) string {
	return filepath.Join(dir, community+".txt")
}
