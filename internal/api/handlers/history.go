package handlers

import (
	"net/http"
	"strconv"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/report"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// HistoryHandler handles stored report history endpoints
type HistoryHandler struct {
	repo   *report.Repository
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler. repo may be nil when no
// database is configured.
func NewHistoryHandler(repo *report.Repository, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: log,
	}
}

// HistoryResponse represents a report history response
type HistoryResponse struct {
	Ticker  string                `json:"ticker"`
	Count   int                   `json:"count"`
	Reports []report.HistoryEntry `json:"reports"`
}

// GetHistory returns previously stored reports for a ticker, newest first
// GET /api/research/history?ticker=AAPL&limit=20
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker, err := contracts.NormalizeTicker(r.URL.Query().Get("ticker"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ticker (expected 1-10 letters or digits)")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit (expected 1-100)")
			return
		}
	}

	entries := []report.HistoryEntry{}
	if h.repo != nil {
		entries, err = h.repo.History(ctx, ticker, limit)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load report history")
			respondError(w, http.StatusInternalServerError, "Failed to retrieve report history")
			return
		}
	}

	respondJSON(w, http.StatusOK, HistoryResponse{
		Ticker:  ticker,
		Count:   len(entries),
		Reports: entries,
	})
}
