// Package crawler drives the incremental fetch-and-normalize pipeline:
// time-windowed pagination over a subreddit's new feed, comment tree
// expansion, normalization and persistence.
package crawler

import (
	"context"
	"time"

	"github.com/NagyLevin/Redditscrape/internal/logger"
	"github.com/NagyLevin/Redditscrape/internal/models"
	"github.com/NagyLevin/Redditscrape/internal/normalizer"
	"github.com/NagyLevin/Redditscrape/internal/sink"
)

// RunStatus is the terminal state of one community's run.
type RunStatus int

const (
	RunDone RunStatus = iota
	RunSkipped
	RunFailed
)

func (s RunStatus) String() string {
	switch s {
	case RunDone:
		return "done"
	case RunSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result reports the outcome of one community's run.
type Result struct {
	Community string
	Detail    string
	State     models.FetchState
	Status    RunStatus
}

// FeedOpener opens the reverse-chronological feed of a community.
type FeedOpener func(community string) FeedIterator

// SinkFactory opens the configured sink for one community.
type SinkFactory func(community string) (sink.Sink, error)

// ResumeProber recovers the oldest previously-seen timestamp for a
// community, or nil when there is none.
type ResumeProber func(community string) *int64

// Options tune one orchestrator run.
type Options struct {
	Window          Window
	LimitPosts      int
	Sleep           time.Duration
	IncludeComments bool
}

// Orchestrator processes the requested communities strictly sequentially:
// resolve, fetch, expand, normalize, sink. A skip or failure of one
// community never aborts the batch.
type Orchestrator struct {
	resolver *Resolver
	openFeed FeedOpener
	expander *Expander
	openSink SinkFactory
	probe    ResumeProber
	opts     Options
	log      *logger.Logger
}

// NewOrchestrator wires the pipeline components together. probe may be
// nil when no resume hint is wanted.
func NewOrchestrator(resolver *Resolver, openFeed FeedOpener, expander *Expander, openSink SinkFactory, probe ResumeProber, opts Options, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		openFeed: openFeed,
		expander: expander,
		openSink: openSink,
		probe:    probe,
		opts:     opts,
		log:      log,
	}
}

// Run processes each community in order and returns one result per
// community.
func (o *Orchestrator) Run(ctx context.Context, communities []string) []Result {
	results := make([]Result, 0, len(communities))

	for _, name := range communities {
		res := o.runCommunity(ctx, name)
		results = append(results, res)

		switch res.Status {
		case RunDone:
			o.log.Info("subreddit complete", "subreddit", res.Community,
				"posts", res.State.Posts, "comments", res.State.Comments)
		case RunSkipped:
			o.log.Warn("subreddit skipped", "subreddit", res.Community, "reason", res.Detail)
		case RunFailed:
			o.log.Error("subreddit failed", "subreddit", res.Community,
				"posts", res.State.Posts, "error", res.Detail)
		}
	}

	return results
}

func (o *Orchestrator) runCommunity(ctx context.Context, name string) Result {
	resolution := o.resolver.Resolve(ctx, name)
	if resolution.Status != StatusResolved {
		return Result{
			Community: resolution.Handle,
			Status:    RunSkipped,
			Detail:    resolution.Status.String(),
		}
	}

	handle := resolution.Handle

	if o.probe != nil && o.opts.Window.After == nil {
		if oldest := o.probe(handle); oldest != nil {
			o.log.Info("previous output found", "subreddit", handle,
				"oldest_created_utc", *oldest, "hint", "pass -after to continue below it")
		}
	}

	snk, err := o.openSink(handle)
	if err != nil {
		return Result{Community: handle, Status: RunFailed, Detail: err.Error()}
	}

	// The handle is released no matter which terminal state is reached.
	defer func() {
		if closeErr := snk.Close(); closeErr != nil {
			o.log.Warn("failed to close sink", "subreddit", handle, "error", closeErr)
		}
	}()

	state, runErr := o.fetchLoop(ctx, handle, snk)

	if runErr != nil {
		// A transport failure mid-run discards buffered line-delimited
		// records; flushed data stays.
		snk.Discard()

		return Result{Community: handle, Status: RunFailed, State: state, Detail: runErr.Error()}
	}

	if err := snk.Flush(); err != nil {
		return Result{Community: handle, Status: RunFailed, State: state, Detail: err.Error()}
	}

	return Result{Community: handle, Status: RunDone, State: state}
}

func (o *Orchestrator) fetchLoop(ctx context.Context, handle string, snk sink.Sink) (models.FetchState, error) {
	var state models.FetchState

	fetcher := NewFetcher(o.openFeed(handle), o.opts.Window, o.opts.LimitPosts)

	for {
		rec, ok, err := fetcher.Next(ctx)
		if err != nil {
			return state, err
		}

		if !ok {
			return state, nil
		}

		var comments []models.RawRecord

		if o.opts.IncludeComments {
			comments, err = o.expander.Expand(ctx, handle, rec)
			if err != nil {
				return state, err
			}
		}

		post := normalizer.Normalize(rec, models.SubmissionFields)

		if err := snk.Add(post, comments); err != nil {
			return state, err
		}

		state.Posts++
		state.Comments += len(comments)

		o.log.Debug("post processed", "subreddit", handle,
			"posts", state.Posts, "comments", state.Comments)

		// Cooperative pacing between posts; not a backpressure signal.
		if o.opts.Sleep > 0 {
			select {
			case <-time.After(o.opts.Sleep):
			case <-ctx.Done():
				return state, ctx.Err()
			}
		}
	}
}
