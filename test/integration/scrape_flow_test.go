package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/NagyLevin/Redditscrape/internal/config"
	"github.com/NagyLevin/Redditscrape/internal/crawler"
	"github.com/NagyLevin/Redditscrape/internal/logger"
	"github.com/NagyLevin/Redditscrape/internal/models"
	"github.com/NagyLevin/Redditscrape/internal/reddit"
	"github.com/NagyLevin/Redditscrape/internal/sink"
)

// fakeRedditAPI serves a minimal slice of the listing API: one subreddit
// with three posts (one commented), plus a missing subreddit.
func fakeRedditAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/r/hikingHungary/about", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind":"t5","data":{"display_name":"hikingHungary","subscribers":1200}}`))
	})

	mux.HandleFunc("/r/hikingHungary/new", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") != "" {
			w.Write([]byte(`{"kind":"Listing","data":{"after":"","children":[]}}`))

			return
		}

		w.Write([]byte(`{"kind":"Listing","data":{"after":"","children":[
			{"kind":"t3","data":{"id":"p3","title":"too new","author":"zed","subreddit":"hikingHungary","created_utc":1722576000,"num_comments":0,"score":1}},
			{"kind":"t3","data":{"id":"p2","title":"Kéktúra tippek","author":"alice","subreddit":"hikingHungary","created_utc":1722575400,"selftext":"Hol érdemes megszállni?","num_comments":2,"score":15}},
			{"kind":"t3","data":{"id":"p1","title":"quiet one","author":"[deleted]","subreddit":"hikingHungary","created_utc":1722575100,"num_comments":0,"score":3}},
			{"kind":"t3","data":{"id":"p0","title":"too old","author":"bob","subreddit":"hikingHungary","created_utc":1722570000,"num_comments":0,"score":2}}
		]}}`))
	})

	mux.HandleFunc("/r/hikingHungary/comments/p2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"p2"}}]}},
			{"kind":"Listing","data":{"children":[
				{"kind":"t1","data":{"id":"c1","author":"carol","body":"A Mátrában jó.","subreddit":"hikingHungary","created_utc":1722575500,"parent_id":"t3_p2","link_id":"t3_p2","replies":{"kind":"Listing","data":{"children":[
					{"kind":"t1","data":{"id":"c2","author":"[deleted]","body":"köszi","subreddit":"hikingHungary","created_utc":1722575600,"parent_id":"t1_c1","link_id":"t3_p2","replies":""}}
				]}}}}
			]}}
		]`))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found","error":404}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newPipeline(t *testing.T, server *httptest.Server, dir string, window crawler.Window, format string) *crawler.Orchestrator {
	t.Helper()

	retry := &config.RetryPolicy{MaxAttempts: 2, BackoffMultiplier: 1.0, TimeoutSec: 5}
	log := logger.NewLoggerTo(io.Discard, "error")
	session := reddit.NewSessionWithClient(server.Client(), "redditscrape-test/1.0", server.URL, retry, log)

	openFeed := func(community string) crawler.FeedIterator {
		return session.NewPosts(community)
	}

	openSink := func(community string) (sink.Sink, error) {
		if format == config.FormatText {
			return sink.NewTextSink(dir, community)
		}

		return sink.NewNDJSONSink(dir, community)
	}

	probe := func(community string) *int64 {
		return sink.OldestSubmission(sink.SubmissionsPath(dir, community))
	}

	opts := crawler.Options{Window: window, IncludeComments: true}

	return crawler.NewOrchestrator(crawler.NewResolver(session), openFeed,
		crawler.NewExpander(session), openSink, probe, opts, log)
}

func readNDJSON(t *testing.T, path string) []models.RawRecord {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	var records []models.RawRecord

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec models.RawRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Malformed line %q: %v", scanner.Text(), err)
		}

		records = append(records, rec)
	}

	return records
}

func TestScrapeFlow_NDJSON(t *testing.T) {
	server := fakeRedditAPI(t)
	dir := t.TempDir()

	after := int64(1722575000)
	before := int64(1722575900)
	window := crawler.Window{After: &after, Before: &before}

	orch := newPipeline(t, server, dir, window, config.FormatNDJSON)

	results := orch.Run(context.Background(), []string{"r/hikingHungary", "ghosttown"})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if results[0].Status != crawler.RunDone {
		t.Fatalf("Expected hikingHungary done, got %v (%s)", results[0].Status, results[0].Detail)
	}

	if results[1].Status != crawler.RunSkipped {
		t.Errorf("Expected ghosttown skipped, got %v", results[1].Status)
	}

	// The too-new post is skipped, the too-old one ends the scan, so the
	// oldest in-window post never loses its place to the bound.
	if results[0].State.Posts != 2 || results[0].State.Comments != 2 {
		t.Errorf("Expected 2 posts and 2 comments, got %+v", results[0].State)
	}

	posts := readNDJSON(t, sink.SubmissionsPath(dir, "hikingHungary"))
	if len(posts) != 2 {
		t.Fatalf("Expected 2 submission lines, got %d", len(posts))
	}

	if posts[0]["id"] != "p2" || posts[1]["id"] != "p1" {
		t.Errorf("Expected feed order p2,p1, got %v,%v", posts[0]["id"], posts[1]["id"])
	}

	// Normalized shape: exact schema, deleted author as null, unicode intact.
	if len(posts[0]) != len(models.SubmissionFields) {
		t.Errorf("Expected %d fields per post, got %d", len(models.SubmissionFields), len(posts[0]))
	}

	if posts[0]["title"] != "Kéktúra tippek" {
		t.Errorf("Unicode title mangled: %v", posts[0]["title"])
	}

	if v, ok := posts[1]["author"]; !ok || v != nil {
		t.Errorf("Expected null author for deleted account, got %v", v)
	}

	comments := readNDJSON(t, sink.CommentsPath(dir, "hikingHungary"))
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comment lines, got %d", len(comments))
	}

	if comments[0]["id"] != "c1" || comments[1]["id"] != "c2" {
		t.Errorf("Expected depth-first order c1,c2, got %v,%v", comments[0]["id"], comments[1]["id"])
	}

	if len(comments[0]) != len(models.CommentFields) {
		t.Errorf("Expected %d fields per comment, got %d", len(models.CommentFields), len(comments[0]))
	}

	// The resume probe over the written file reports the oldest timestamp.
	oldest := sink.OldestSubmission(sink.SubmissionsPath(dir, "hikingHungary"))
	if oldest == nil || *oldest != 1722575100 {
		t.Errorf("Expected resume hint 1722575100, got %v", oldest)
	}
}

func TestScrapeFlow_TextFormat(t *testing.T) {
	server := fakeRedditAPI(t)
	dir := t.TempDir()

	orch := newPipeline(t, server, dir, crawler.Window{}, config.FormatText)

	results := orch.Run(context.Background(), []string{"hikingHungary"})
	if results[0].Status != crawler.RunDone {
		t.Fatalf("Expected done, got %v (%s)", results[0].Status, results[0].Detail)
	}

	data, err := os.ReadFile(sink.TextPath(dir, "hikingHungary"))
	if err != nil {
		t.Fatalf("Failed to read text output: %v", err)
	}

	out := string(data)

	if !strings.HasPrefix(out, "# r/hikingHungary\n\n") {
		t.Errorf("Expected community header, got %q", out[:40])
	}

	if !strings.Contains(out, "by alice: Kéktúra tippek") {
		t.Errorf("Expected post line, got %q", out)
	}

	if !strings.Contains(out, "carol: A Mátrában jó.") {
		t.Errorf("Expected comment line, got %q", out)
	}

	if !strings.Contains(out, "by "+sink.DeletedAuthor+": quiet one") {
		t.Errorf("Expected deleted author placeholder, got %q", out)
	}
}
