package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSubreddits is returned when a subreddit list is empty after filtering.
var ErrNoSubreddits = errors.New("no usable subreddit names")

// CleanSubreddits filters a raw list of subreddit names: blank entries and
// `#` comments are dropped, only the first whitespace-delimited token is
// kept, a leading "r/" marker is stripped, and duplicates are removed
// preserving first-seen order.
func CleanSubreddits(raw []string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		name := strings.Fields(entry)[0]
		name = StripMarker(name)

		if name == "" || seen[name] {
			continue
		}

		seen[name] = true

		out = append(out, name)
	}

	return out
}

// StripMarker removes the conventional "r/" (or "/r/") prefix from a
// subreddit name.
func StripMarker(name string) string {
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, "r/")

	return name
}

// LoadSubredditsFromFile reads a newline-delimited subreddit list file.
// An empty result after filtering is an error.
func LoadSubredditsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subreddit list: %w", err)
	}

	names := CleanSubreddits(strings.Split(string(data), "\n"))
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSubreddits, path)
	}

	return names, nil
}
