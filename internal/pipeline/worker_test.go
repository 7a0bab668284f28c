package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/wikidoc/internal/chunker"
	"github.com/dgallion1/wikidoc/internal/config"
	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/source"
)

type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	failures map[string]int // transient failures before success
	calls    map[string]int
}

func (f *fakeFetcher) Fetch(ctx context.Context, title, lang string) (*source.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[title]++
	if f.failures[title] > 0 {
		f.failures[title]--
		return nil, &source.RetryableError{StatusCode: 503, Err: errors.New("unavailable")}
	}
	if title == "Broken" {
		return nil, errors.New("permanent failure")
	}
	text, ok := f.pages[title]
	if !ok {
		return nil, source.ErrNotFound
	}
	return &source.Article{Title: title, Lang: lang, Wikitext: text}, nil
}

var article = "'''Alpha''' is a [[letter]]. " + strings.Repeat("It is used widely in texts. ", 20) +
	"\n\n==History==\nAlpha came from [[Phoenicia]]. " + strings.Repeat("It was adopted by many. ", 20) +
	"\n[[Category:Letters]]"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(f source.Fetcher, stats *Stats) *Worker {
	w := NewWorker(f, parser.New(nil), testLogger(),
		chunker.Config{ChunkSize: 1500, ChunkOverlap: 100, MinChunk: 1},
		doctree.Options{}, stats, 2)
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func TestWorker_FullMode(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			"Alpha": article,
			"Old":   "#REDIRECT [[Alpha]]",
			"Flaky": "'''Flaky''' recovers. It is fine.",
		},
		failures: map[string]int{"Flaky": 2},
	}
	stats := NewStats(time.Hour)
	job := NewJob([]string{"Alpha", "Old", "Missing", "Flaky", "Broken"}, "en", ModeFull)
	newTestWorker(f, stats).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Errorf("expected status %q, got %q", StatusPartial, snap.Status)
	}
	if snap.Progress.Processed != 5 || snap.Progress.Succeeded != 3 || snap.Progress.Failed != 2 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}

	results := job.Results()
	alpha := results[0]
	if alpha.Status != ResultOK {
		t.Fatalf("expected ok for Alpha, got %+v", alpha)
	}
	if alpha.Sections != 2 {
		t.Errorf("expected 2 sections, got %d", alpha.Sections)
	}
	if alpha.Links != 2 {
		t.Errorf("expected 2 links, got %d", alpha.Links)
	}
	if len(alpha.Categories) != 1 || alpha.Categories[0] != "Letters" {
		t.Errorf("expected [Letters], got %v", alpha.Categories)
	}
	if len(alpha.Chunks) == 0 {
		t.Error("expected chunks for Alpha")
	}
	if alpha.ContentHash != ContentHashHex([]byte(article)) {
		t.Errorf("unexpected content hash %q", alpha.ContentHash)
	}

	if results[1].Status != ResultRedirect || results[1].RedirectTo == nil || results[1].RedirectTo.Page != "Alpha" {
		t.Errorf("expected redirect to Alpha, got %+v", results[1])
	}
	if results[2].Status != ResultNotFound {
		t.Errorf("expected not_found, got %+v", results[2])
	}
	if results[3].Status != ResultOK {
		t.Errorf("expected Flaky to succeed after retries, got %+v", results[3])
	}
	if f.calls["Flaky"] != 3 {
		t.Errorf("expected 3 fetch attempts for Flaky, got %d", f.calls["Flaky"])
	}
	if results[4].Status != ResultFailed || f.calls["Broken"] != 1 {
		t.Errorf("expected Broken to fail without retries, got %+v (calls %d)", results[4], f.calls["Broken"])
	}
	if len(snap.Progress.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", snap.Progress.Errors)
	}

	ops := stats.Snapshot()
	if ops["fetch"].Count != 7 {
		t.Errorf("expected 7 fetch samples, got %d", ops["fetch"].Count)
	}
	if ops["parse"].Count != 3 {
		t.Errorf("expected 3 parse samples, got %d", ops["parse"].Count)
	}
}

func TestWorker_BoundedMode(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"Alpha": article, "Old": "#REDIRECT [[Alpha]]"}}
	job := NewJob([]string{"Alpha", "Old"}, "en", ModeBounded)
	newTestWorker(f, nil).Process(context.Background(), job)

	if job.Snapshot().Status != StatusCompleted {
		t.Errorf("expected completed, got %q", job.Snapshot().Status)
	}
	results := job.Results()
	sum := results[0].Summary
	if sum == nil {
		t.Fatal("expected summary for Alpha")
	}
	if len(sum.Sentences) != doctree.DefaultMaxSentences {
		t.Errorf("expected %d sentences, got %d", doctree.DefaultMaxSentences, len(sum.Sentences))
	}
	if sum.Sentences[0] != "Alpha is a letter." {
		t.Errorf("expected first sentence %q, got %q", "Alpha is a letter.", sum.Sentences[0])
	}
	if len(results[0].Chunks) != 0 {
		t.Error("expected no chunks in bounded mode")
	}
	if results[1].Status != ResultRedirect {
		t.Errorf("expected redirect, got %+v", results[1])
	}
}

func TestWorker_AllFailed(t *testing.T) {
	job := NewJob([]string{"Missing", "Broken"}, "en", ModeFull)
	newTestWorker(&fakeFetcher{}, nil).Process(context.Background(), job)
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected failed, got %q", job.Snapshot().Status)
	}
}

func TestWorker_CancelDuringBackoff(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"Slow": "x"}, failures: map[string]int{"Slow": 5}}
	w := newTestWorker(f, nil)
	w.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	job := NewJob([]string{"Slow"}, "en", ModeFull)
	done := make(chan struct{})
	go func() {
		w.Process(ctx, job)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	if r := job.Results()[0]; r.Status != ResultFailed {
		t.Errorf("expected failed result, got %+v", r)
	}
}

func TestWorker_CancelSkipsUnstartedTitles(t *testing.T) {
	f := &fakeFetcher{
		pages:    map[string]string{"Slow": "x", "Alpha": article, "Beta": article},
		failures: map[string]int{"Slow": 5},
	}
	w := newTestWorker(f, nil)
	w.maxConcurrentFetch = 1
	w.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	job := NewJob([]string{"Slow", "Alpha", "Beta"}, "en", ModeFull)
	done := make(chan struct{})
	go func() {
		w.Process(ctx, job)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	for _, r := range job.Results() {
		if r.Status != ResultFailed {
			t.Errorf("%s: expected failed result, got %+v", r.Title, r)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls["Alpha"] != 0 || f.calls["Beta"] != 0 {
		t.Errorf("expected unstarted titles not to be fetched, got %v", f.calls)
	}
	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Progress.Failed != 3 {
		t.Errorf("expected failed job with 3 failures, got %s %+v", snap.Status, snap.Progress)
	}
}

func TestOrchestrator_SubmitAndQueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, MaxConcurrentFetch: 1, JobTTL: time.Hour}
	f := &fakeFetcher{pages: map[string]string{"Alpha": article}}
	o := NewOrchestrator(cfg, f, parser.New(nil), nil, testLogger())

	// Not started: the second submission overflows the queue.
	first := NewJob([]string{"Alpha"}, "en", ModeFull)
	if err := o.Submit(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := NewJob([]string{"Alpha"}, "en", ModeFull)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected overflowed job to be failed, got %q", second.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}

	o.Start(context.Background())
	deadline := time.Now().Add(5 * time.Second)
	for o.GetJob(first.ID).Snapshot().Status != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %q", o.GetJob(first.ID).Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	o.Stop()
	if o.Stats().Snapshot()["parse"].Count != 1 {
		t.Error("expected one parse sample")
	}
}
