package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/wikidoc/internal/chunker"
	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/source"
)

// Worker processes the titles of a batch job.
type Worker struct {
	fetcher  source.Fetcher
	parser   *parser.Parser
	log      *slog.Logger
	chunkCfg chunker.Config
	opts     doctree.Options
	stats    *Stats

	maxConcurrentFetch int
	backoff            func(attempt int) time.Duration
}

func NewWorker(fetcher source.Fetcher, p *parser.Parser, log *slog.Logger, chunkCfg chunker.Config, opts doctree.Options, stats *Stats, maxFetch int) *Worker {
	if maxFetch <= 0 {
		maxFetch = 1
	}
	return &Worker{
		fetcher:            fetcher,
		parser:             p,
		log:                log,
		chunkCfg:           chunkCfg,
		opts:               opts,
		stats:              stats,
		maxConcurrentFetch: maxFetch,
		backoff:            Backoff,
	}
}

// Process fetches, parses and chunks every title of the job with bounded
// concurrency, then sets the final job status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "lang", job.Lang, "mode", job.Mode)
	job.SetStatus(StatusRunning, "processing")
	log.Info("batch started", "titles", len(job.Titles))

	sem := make(chan struct{}, w.maxConcurrentFetch)
	done := make(chan struct{}, len(job.Titles))
	for i, title := range job.Titles {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			w.cancelRemaining(job, i, err, done)
			break
		}
		go func(i int, title string) {
			defer func() { <-sem; done <- struct{}{} }()
			r := w.processTitle(ctx, log, job, title)
			if r.Error != "" {
				job.AddError(fmt.Sprintf("%s: %s", title, r.Error))
			}
			job.SetResult(i, r)
		}(i, title)
	}
	for range job.Titles {
		<-done
	}

	snap := job.Snapshot()
	switch {
	case snap.Progress.Failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case snap.Progress.Succeeded > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "done")
	}
	log.Info("batch complete",
		"succeeded", snap.Progress.Succeeded,
		"failed", snap.Progress.Failed,
		"chunks", snap.Progress.Chunks,
	)
}

// cancelRemaining marks titles from index i on as failed without
// starting them.
func (w *Worker) cancelRemaining(job *Job, i int, cause error, done chan<- struct{}) {
	for ; i < len(job.Titles); i++ {
		title := job.Titles[i]
		r := TitleResult{Title: title, Status: ResultFailed, Error: fmt.Sprintf("not started: %s", cause)}
		job.AddError(fmt.Sprintf("%s: %s", title, r.Error))
		job.SetResult(i, r)
		done <- struct{}{}
	}
}

func (w *Worker) processTitle(ctx context.Context, log *slog.Logger, job *Job, title string) TitleResult {
	res := TitleResult{Title: title}

	article, err := w.fetch(ctx, log, title, job.Lang)
	if errors.Is(err, source.ErrNotFound) {
		res.Status = ResultNotFound
		res.Error = err.Error()
		return res
	}
	if err != nil {
		log.Error("fetch failed", "title", title, "error", err)
		res.Status = ResultFailed
		res.Error = fmt.Sprintf("fetch: %s", err)
		return res
	}
	res.Title = article.Title
	res.ContentHash = ContentHashHex([]byte(article.Wikitext))

	opts := w.opts
	opts.Title = article.Title
	if job.Mode == ModeBounded {
		return w.summarize(log, res, article.Wikitext, opts)
	}

	start := time.Now()
	doc, err := w.parser.Parse(article.Wikitext, opts)
	w.record("parse", start, err)
	if err != nil {
		log.Error("parse failed", "title", title, "error", err)
		res.Status = ResultFailed
		res.Error = fmt.Sprintf("parse: %s", err)
		return res
	}
	res.Categories = doc.Categories()
	if doc.IsRedirect() {
		res.Status = ResultRedirect
		res.RedirectTo = doc.RedirectTo()
		return res
	}
	res.Status = ResultOK
	res.Sections = len(doc.Sections())
	res.Links = len(doc.Links())
	res.Chunks = chunker.ChunkDocument(doc, w.chunkCfg)
	log.Debug("title parsed", "title", title, "sections", res.Sections, "chunks", len(res.Chunks))
	return res
}

func (w *Worker) summarize(log *slog.Logger, res TitleResult, markup string, opts doctree.Options) TitleResult {
	start := time.Now()
	sum, err := w.parser.ForBudget(true).Summary(markup, opts)
	w.record("summary", start, err)
	if err != nil {
		log.Error("summary failed", "title", res.Title, "error", err)
		res.Status = ResultFailed
		res.Error = fmt.Sprintf("summary: %s", err)
		return res
	}
	res.Summary = sum
	if sum.IsRedirect {
		res.Status = ResultRedirect
		res.RedirectTo = sum.RedirectTo
		return res
	}
	res.Status = ResultOK
	return res
}

// fetch retries transient source failures with backoff.
func (w *Worker) fetch(ctx context.Context, log *slog.Logger, title, lang string) (*source.Article, error) {
	var lastErr error
	for attempt := range MaxRetries {
		start := time.Now()
		a, err := w.fetcher.Fetch(ctx, title, lang)
		w.record("fetch", start, err)
		if err == nil {
			return a, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
		log.Warn("retryable fetch error", "title", title, "attempt", attempt, "error", err)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (w *Worker) record(op string, start time.Time, err error) {
	if w.stats != nil {
		w.stats.Observe(op, start, &err)
	}
}
