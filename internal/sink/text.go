package sink

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/NagyLevin/Redditscrape/internal/models"
)

// DeletedAuthor is the placeholder rendered for deleted accounts.
const DeletedAuthor = "[deleted]"

const (
	continuationIndent = "    "
	maxLineWidth       = 100
)

// TextSink writes each post immediately as a human-readable block: the
// post line, its reflowed body, then its comments. Nothing is buffered,
// so there is nothing to lose on early termination.
type TextSink struct {
	file      *os.File
	community string
}

// NewTextSink opens (or creates) the community's text file in append
// mode. A one-line community header is written only when the file is
// currently empty.
func NewTextSink(dir, community string) (*TextSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := TextPath(dir, community)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Size() == 0 {
		if _, err := fmt.Fprintf(f, "# r/%s\n\n", community); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	return &TextSink{file: f, community: community}, nil
}

// Add writes the post block immediately.
func (s *TextSink) Add(post models.RawRecord, comments []models.RawRecord) error {
	var sb strings.Builder

	author := stringField(post["author"], DeletedAuthor)
	title := stringField(post["title"], "")

	sb.WriteString("Post:\n")
	sb.WriteString("by " + author + ": " + title + "\n")

	if body := stringField(post["selftext"], ""); body != "" {
		writeIndented(&sb, body)
	}

	for _, c := range comments {
		sb.WriteString("comment:\n")
		writeAuthored(&sb, stringField(c["author"], DeletedAuthor), stringField(c["body"], ""))
	}

	sb.WriteString("\n")

	if _, err := s.file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write post block: %w", err)
	}

	return nil
}

// Flush is a no-op; writes are immediate.
func (s *TextSink) Flush() error {
	return nil
}

// Discard is a no-op; nothing is buffered.
func (s *TextSink) Discard() {}

// Close closes the file handle.
func (s *TextSink) Close() error {
	return s.file.Close()
}

// stringField returns the string value of a field, or the fallback when
// the field is nil or not a string.
func stringField(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fallback
}

// writeIndented writes text with every line indented and reflowed.
func writeIndented(sb *strings.Builder, text string) {
	width := maxLineWidth - runewidth.StringWidth(continuationIndent)

	for _, line := range reflow(text, width) {
		sb.WriteString(continuationIndent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// writeAuthored writes "author: body" with continuation lines indented.
func writeAuthored(sb *strings.Builder, author, body string) {
	prefix := author + ": "

	lines := reflow(body, maxLineWidth-runewidth.StringWidth(prefix))
	if len(lines) == 0 {
		sb.WriteString(prefix + "\n")

		return
	}

	sb.WriteString(prefix + lines[0] + "\n")

	for _, line := range lines[1:] {
		sb.WriteString(continuationIndent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// reflow word-wraps text to the given display width, preserving existing
// line breaks. Width accounting uses display width, not byte length.
func reflow(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var out []string

	for _, raw := range strings.Split(text, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, "")

			continue
		}

		line := words[0]
		lineWidth := runewidth.StringWidth(line)

		for _, word := range words[1:] {
			w := runewidth.StringWidth(word)

			if lineWidth+1+w > width {
				out = append(out, line)
				line = word
				lineWidth = w

				continue
			}

			line += " " + word
			lineWidth += 1 + w
		}

		out = append(out, line)
	}

	// Trim trailing blank lines from the block.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return out
}
