package crawler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/NagyLevin/Redditscrape/internal/config"
	"github.com/NagyLevin/Redditscrape/internal/models"
	"github.com/NagyLevin/Redditscrape/internal/reddit"
)

// ResolveStatus classifies the outcome of a subreddit resolution. Every
// non-resolved status skips the community and continues the batch.
type ResolveStatus int

const (
	StatusResolved ResolveStatus = iota
	StatusNotFound
	StatusForbidden
	StatusQuarantined
	StatusUnknown
)

func (s ResolveStatus) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusNotFound:
		return "not found"
	case StatusForbidden:
		return "forbidden"
	case StatusQuarantined:
		return "quarantined"
	default:
		return "unknown failure"
	}
}

// Resolution is the closed result of resolving one community name.
type Resolution struct {
	Handle string
	Detail string
	Status ResolveStatus
}

// SubredditProber performs the single existence/access probe behind the
// resolver.
type SubredditProber interface {
	AboutSubreddit(ctx context.Context, name string) (models.RawRecord, error)
}

// Resolver validates that a community exists and is readable before any
// fetching starts.
type Resolver struct {
	probe SubredditProber
}

// NewResolver creates a resolver over the given prober.
func NewResolver(probe SubredditProber) *Resolver {
	return &Resolver{probe: probe}
}

// Resolve strips the conventional "r/" marker and probes the subreddit.
func (r *Resolver) Resolve(ctx context.Context, raw string) Resolution {
	name := config.StripMarker(strings.TrimSpace(raw))

	about, err := r.probe.AboutSubreddit(ctx, name)
	if err != nil {
		return Resolution{Handle: name, Status: classify(err), Detail: err.Error()}
	}

	// Quarantined subreddits require an opt-in this credential cannot give.
	if q, ok := about["quarantine"].(bool); ok && q {
		return Resolution{Handle: name, Status: StatusQuarantined}
	}

	if dn, ok := about["display_name"].(string); ok && dn != "" {
		name = dn
	}

	return Resolution{Handle: name, Status: StatusResolved}
}

// classify maps a probe failure onto the closed status set. A redirect
// means the lookup bounced to search, which is a miss like a plain 404.
func classify(err error) ResolveStatus {
	var apiErr *reddit.APIError
	if !errors.As(err, &apiErr) {
		return StatusUnknown
	}

	switch {
	case apiErr.StatusCode == http.StatusNotFound:
		return StatusNotFound
	case apiErr.StatusCode >= 300 && apiErr.StatusCode < 400:
		return StatusNotFound
	case apiErr.StatusCode == http.StatusForbidden && apiErr.Reason == "quarantined":
		return StatusQuarantined
	case apiErr.StatusCode == http.StatusForbidden:
		return StatusForbidden
	default:
		return StatusUnknown
	}
}
