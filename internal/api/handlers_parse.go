package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/wikidoc/internal/doctree"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/render"
	"github.com/dgallion1/wikidoc/internal/source"
	"github.com/dgallion1/wikidoc/internal/wikierr"
)

type parseRequest struct {
	Markup       string `json:"markup"`
	Title        string `json:"title"`
	MaxBytes     int    `json:"maxBytes"`
	MaxSentences int    `json:"maxSentences"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	markup, opts, err := s.readMarkup(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	start := time.Now()
	doc, err := s.parser.Parse(markup, opts)
	s.stats.Observe("parse", start, &err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.extract(w, r, "summary", func(e parser.Extractor, markup string, opts doctree.Options) (any, error) {
		return e.Summary(markup, opts)
	})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	s.extract(w, r, "links", func(e parser.Extractor, markup string, opts doctree.Options) (any, error) {
		return e.Links(markup, opts)
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.extract(w, r, "categories", func(e parser.Extractor, markup string, opts doctree.Options) (any, error) {
		return e.Categories(markup, opts)
	})
}

func (s *Server) handleInfobox(w http.ResponseWriter, r *http.Request) {
	s.extract(w, r, "infobox", func(e parser.Extractor, markup string, opts doctree.Options) (any, error) {
		return e.Infobox(markup, opts)
	})
}

type extractFunc func(e parser.Extractor, markup string, opts doctree.Options) (any, error)

// extract runs one Extractor operation. The bounded pipeline is used unless
// the request sets bounded=false.
func (s *Server) extract(w http.ResponseWriter, r *http.Request, op string, fn extractFunc) {
	bounded, err := queryBool(r, "bounded", true)
	if err != nil {
		writeError(w, err)
		return
	}
	markup, opts, err := s.readMarkup(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	start := time.Now()
	res, err := fn(s.parser.ForBudget(bounded), markup, opts)
	s.stats.Observe(op, start, &err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	markup, opts, err := s.readMarkup(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	start := time.Now()
	doc, err := s.parser.Parse(markup, opts)
	s.stats.Observe("parse", start, &err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeRendered(w, doc, format)
}

func (s *Server) writeRendered(w http.ResponseWriter, doc *doctree.Document, format render.Format) {
	out, err := render.Render(doc, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	io.WriteString(w, out)
}

// readMarkup reads the request body as a JSON parseRequest or, for any other
// content type, as raw markup with options in the query string. Zero options
// take the server defaults.
func (s *Server) readMarkup(w http.ResponseWriter, r *http.Request) (string, doctree.Options, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req parseRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if tooLarge(err) {
				return "", doctree.Options{}, err
			}
			return "", doctree.Options{}, wikierr.Invalidf("invalid JSON body: %v", err)
		}
	} else {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", doctree.Options{}, err
		}
		req.Markup = string(data)
		q := r.URL.Query()
		req.Title = q.Get("title")
		if req.MaxBytes, err = queryInt(r, "maxBytes"); err != nil {
			return "", doctree.Options{}, err
		}
		if req.MaxSentences, err = queryInt(r, "maxSentences"); err != nil {
			return "", doctree.Options{}, err
		}
	}
	return req.Markup, s.options(req.Title, req.MaxBytes, req.MaxSentences), nil
}

func (s *Server) options(title string, maxBytes, maxSentences int) doctree.Options {
	opts := doctree.Options{Title: title, MaxBytes: maxBytes, MaxSentences: maxSentences}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = s.cfg.DefaultMaxBytes
	}
	if opts.MaxSentences == 0 {
		opts.MaxSentences = s.cfg.DefaultMaxSentences
	}
	return opts
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, wikierr.Invalidf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func queryBool(r *http.Request, key string, fallback bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, wikierr.Invalidf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var retry *source.RetryableError
	switch {
	case tooLarge(err):
		jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, wikierr.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, source.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &retry):
		jsonError(w, err.Error(), http.StatusBadGateway)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
