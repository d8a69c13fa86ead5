package api

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblechart/pkg/buildinfo"
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/errors"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.cfg.Charts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"charts": ids})
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handlePutChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateChartID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	format, err := bodyFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	ds, err := chart.ParseDataset(data, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.cfg.Charts.Put(r.Context(), id, ds); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cfg.Logger.Info("stored chart", "id", id, "categories", len(ds.Categories))
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Charts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.cfg.Runner.Layout(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.renderSVG(w, r, chart.VizTypeBubbles)
}

func (s *Server) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	s.renderSVG(w, r, chart.VizTypeTree)
}

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request, vizType string) {
	ds, err := s.loadChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.VizType = vizType
	opts.Formats = []string{pipeline.FormatSVG}

	l, err := s.cfg.Runner.Layout(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.cfg.Runner.Render(r.Context(), l, ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// loadChart fetches the dataset named by the {id} URL parameter.
func (s *Server) loadChart(r *http.Request) (chart.Dataset, error) {
	return s.cfg.Charts.Get(r.Context(), chi.URLParam(r, "id"))
}

// requestOptions applies the select, labels and title query parameters to
// the server's base options.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Options
	opts.Logger = s.cfg.Logger
	q := r.URL.Query()

	if v := q.Get("select"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "select must be an integer, got %q", v)
		}
		opts.Select = &i
		opts.Tier = ""
	}
	if v := q.Get("labels"); v != "" {
		labels, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "labels must be a boolean, got %q", v)
		}
		opts.ShowLabels = labels
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	return opts, nil
}

// bodyFormat picks the dataset format from ?format= or the Content-Type.
// JSON is the default.
func bodyFormat(r *http.Request) (string, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		switch f {
		case chart.FormatJSON, chart.FormatYAML, chart.FormatTOML:
			return f, nil
		}
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported dataset format: %q (must be one of: json, yaml, toml)", f)
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return chart.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
	}
	switch mt {
	case "application/json":
		return chart.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return chart.FormatYAML, nil
	case "application/toml":
		return chart.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}
