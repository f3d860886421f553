package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iompar/iompar/filters"
)

type healthResponse struct {
	Status      string `json:"status"`
	MarkerCount int    `json:"markerCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		MarkerCount: len(s.pipeline.Rendered()),
	})
}

// handleMarkers returns the currently visible markers. An optional q
// parameter applies the free-text filter immediately; request/response
// callers have no keystroke stream to debounce.
func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	if q, ok := r.URL.Query()["q"]; ok && len(q) > 0 {
		writeJSON(w, http.StatusOK, s.pipeline.SearchNow(q[0]))
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.Rendered())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.pipeline.Rendered())
}

func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	err := s.pipeline.ToggleFilter(r.PathValue("id"))
	switch {
	case errors.Is(err, filters.ErrLastInSection):
		// Refused, not failed: the section keeps its last member.
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, filters.ErrUnknownNode):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, s.pipeline.Rendered())
	}
}

func (s *Server) handleToggleFavourite(w http.ResponseWriter, r *http.Request) {
	on := s.pipeline.ToggleFavourite(r.PathValue("type"), r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]bool{"favourite": on})
}

func (s *Server) handleSetRadius(w http.ResponseWriter, r *http.Request) {
	km, err := strconv.ParseFloat(r.URL.Query().Get("km"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "km must be a number"})
		return
	}
	s.pipeline.SetRadius(km)
	writeJSON(w, http.StatusOK, s.pipeline.Rendered())
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	if s.details == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "detail lookups not configured"})
		return
	}
	etas, err := s.details.StationETAs(r.Context(), r.PathValue("code"))
	if err != nil {
		s.log.Error().Err(err).Msg("station lookup failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch train data"})
		return
	}
	writeJSON(w, http.StatusOK, etas)
}

func (s *Server) handleLuas(w http.ResponseWriter, r *http.Request) {
	if s.details == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "detail lookups not configured"})
		return
	}
	forecast, err := s.details.LuasForecast(r.Context(), r.PathValue("code"))
	if err != nil {
		s.log.Error().Err(err).Msg("luas lookup failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch Luas data"})
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}
