// Package normalizer maps raw listing records onto fixed export schemas.
package normalizer

import (
	"github.com/NagyLevin/Redditscrape/internal/models"
)

// Normalize produces a flat record containing exactly the requested
// fields. Author references reduce to an account name (nil for deleted
// accounts); community references reduce to a display name with a
// raw-string fallback. Everything else passes through unchanged, and a
// missing field becomes nil rather than an error.
func Normalize(raw models.RawRecord, fields []string) models.RawRecord {
	out := make(models.RawRecord, len(fields))

	for _, field := range fields {
		v, ok := raw[field]
		if !ok || v == nil {
			out[field] = nil

			continue
		}

		switch field {
		case "author":
			if ref, ok := models.NewNameRef(v); ok {
				out[field] = ref.AuthorName()

				continue
			}
		case "subreddit":
			if ref, ok := models.NewNameRef(v); ok {
				out[field] = ref.CommunityName()

				continue
			}
		}

		out[field] = v
	}

	return out
}
