package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikidoc/internal/render"
	"github.com/dgallion1/wikidoc/internal/source"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

// handlePage fetches an article from the configured source and returns the
// requested view of it: document (default), summary, links, categories,
// infobox, or a rendered format (markdown, text, html).
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	title, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, wikierr.Invalidf("invalid title: %v", err))
		return
	}
	q := r.URL.Query()
	view := q.Get("view")
	bounded, err := queryBool(r, "bounded", false)
	if err != nil {
		writeError(w, err)
		return
	}
	maxBytes, err := queryInt(r, "maxBytes")
	if err != nil {
		writeError(w, err)
		return
	}
	maxSentences, err := queryInt(r, "maxSentences")
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	article, err := s.fetcher.Fetch(r.Context(), title, lang)
	s.stats.Observe("fetch", start, &err)
	if err != nil {
		s.log.Warn("page fetch failed", "title", title, "lang", lang, "error", err)
		writeError(w, err)
		return
	}
	opts := s.options(article.Title, maxBytes, maxSentences)
	w.Header().Set("X-Wikidoc-Title", article.Title)
	w.Header().Set("X-Wikidoc-Lang", source.NormalizeLang(lang))

	var res any
	start = time.Now()
	e := s.parser.ForBudget(bounded)
	switch view {
	case "", "document":
		res, err = s.parser.Parse(article.Wikitext, opts)
	case "summary":
		res, err = e.Summary(article.Wikitext, opts)
	case "links":
		res, err = e.Links(article.Wikitext, opts)
	case "categories":
		res, err = e.Categories(article.Wikitext, opts)
	case "infobox":
		res, err = e.Infobox(article.Wikitext, opts)
	default:
		format, ferr := render.ParseFormat(view)
		if ferr != nil {
			writeError(w, ferr)
			return
		}
		doc, perr := s.parser.Parse(article.Wikitext, opts)
		s.stats.Observe("parse", start, &perr)
		if perr != nil {
			writeError(w, perr)
			return
		}
		s.writeRendered(w, doc, format)
		return
	}
	op := view
	if op == "" || op == "document" {
		op = "parse"
	}
	s.stats.Observe(op, start, &err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
