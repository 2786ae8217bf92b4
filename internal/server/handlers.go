package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shiradev/kabuto/internal/services/directory"
	"github.com/shiradev/kabuto/internal/services/quote"
	"github.com/shiradev/kabuto/internal/services/ranking"
)

// handleQuotes handles GET /api/quotes?symbols=7203,6758.T
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	records := s.app.QuoteService.Fetch(r.Context(), symbols)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"quotes":    records,
		"requested": len(symbols),
		"resolved":  len(records),
	})
}

// handleQuoteDetail handles GET /api/quotes/{symbol}
func (s *Server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/quotes/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	record, err := s.app.QuoteService.FetchDetailed(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "no data available for symbol "+symbol)
			return
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Detailed quote fetch failed")
		WriteError(w, http.StatusInternalServerError, "failed to fetch quote")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// handleDirectory handles GET /api/directory?q=toyota
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")

	entries, err := s.app.DirectoryService.List(r.Context(), query)
	if err != nil {
		if errors.Is(err, directory.ErrUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, "listed directory is unavailable")
			return
		}
		s.logger.Error().Err(err).Msg("Directory listing failed")
		WriteError(w, http.StatusInternalServerError, "failed to list directory")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleRankings handles GET /api/rankings?limit=5&scope=popular
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	scope := r.URL.Query().Get("scope")

	snap, err := s.app.RankingService.Rankings(r.Context(), limit, scope)
	if err != nil {
		if errors.Is(err, ranking.ErrUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, "ranking data is unavailable")
			return
		}
		if errors.Is(err, ranking.ErrUnknownScope) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("scope", scope).Msg("Ranking computation failed")
		WriteError(w, http.StatusInternalServerError, "failed to compute rankings")
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}
