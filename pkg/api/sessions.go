package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/drilldown"
	"github.com/matzehuels/bubblechart/pkg/errors"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
	"github.com/matzehuels/bubblechart/pkg/session"
)

// sessionView is the response for every session endpoint: the session and
// the layout it currently shows.
type sessionView struct {
	Session *session.Session `json:"session"`
	State   string           `json:"state"`
	Layout  chart.Layout     `json:"layout"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.cfg.Charts.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(id, s.cfg.SessionTTL)
	if err := s.cfg.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cfg.Logger.Debug("created session", "session", sess.ID, "chart", id)
	s.respondSession(w, r, http.StatusCreated, sess, ds)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.cfg.Charts.Get(r.Context(), sess.ChartID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK, sess, ds)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if _, err := s.cfg.Sessions.Get(r.Context(), sid); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cfg.Sessions.Delete(r.Context(), sid); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "index must be an integer, got %q", raw))
		return
	}
	s.transition(w, r, func(sel *drilldown.Selector) error {
		return sel.Select(index)
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(sel *drilldown.Selector) error {
		sel.Back()
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(sel *drilldown.Selector) error {
		sel.Reset()
		return nil
	})
}

// transition rebuilds the session's selector, applies fn, and saves the new
// position with a refreshed expiry. A failing fn leaves the session unchanged.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(*drilldown.Selector) error) {
	ctx := r.Context()
	sess, err := s.cfg.Sessions.Get(ctx, chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.cfg.Charts.Get(ctx, sess.ChartID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sel, err := s.selector(sess, ds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(sel); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Active = session.NoSelection
	if i, ok := sel.Active(); ok {
		sess.Active = i
	}
	sess.Touch(s.cfg.SessionTTL)
	if err := s.cfg.Sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK, sess, ds)
}

// selector rebuilds the session's drill-down position over ds.
func (s *Server) selector(sess *session.Session, ds chart.Dataset) (*drilldown.Selector, error) {
	opts := s.cfg.Options
	opts.Select = nil
	opts.Tier = ""
	sel, err := pipeline.NewSelector(ds, opts)
	if err != nil {
		return nil, err
	}
	if err := sel.Restore(sess.Active); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSelection, err,
			"session %s no longer matches chart %s", sess.ID, sess.ChartID)
	}
	return sel, nil
}

// respondSession writes the session with the layout of its current view.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, ds chart.Dataset) {
	opts := s.cfg.Options
	opts.Logger = s.cfg.Logger
	opts.Tier = ""
	opts.Select = nil
	state := drilldown.ViewingParents
	if sess.Active != session.NoSelection {
		active := sess.Active
		opts.Select = &active
		state = drilldown.ViewingChildren
	}

	l, err := s.cfg.Runner.Layout(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, sessionView{Session: sess, State: state.String(), Layout: l})
}
