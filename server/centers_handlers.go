package server

import (
	"net/http"

	"github.com/jrsteele09/hifz-auth/tenants"
)

// centerView is what the center picker needs
type centerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (s *Server) listCenters(r *http.Request, includeInactive bool) ([]centerView, error) {
	list, err := s.repos.Tenants.List(r.Context(), 0, 0)
	if err != nil {
		return nil, err
	}
	views := make([]centerView, 0, len(list))
	for _, t := range list {
		if !t.Active && !includeInactive {
			continue
		}
		views = append(views, toCenterView(t))
	}
	return views, nil
}

func toCenterView(t *tenants.Tenant) centerView {
	return centerView{ID: t.ID, Name: t.Name, Active: t.Active}
}

// CentersHandler lists the centers a person can pick on the sign in screen
func (s *Server) CentersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := s.listCenters(r, false)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list centers")
			writeJSONError(w, "unavailable", "Centers could not be loaded.", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"centers": views})
	}
}

// AdminCentersHandler lists every center, including inactive ones
func (s *Server) AdminCentersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := s.listCenters(r, true)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list centers")
			writeJSONError(w, "unavailable", "Centers could not be loaded.", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"centers": views})
	}
}
