package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/report"
	"github.com/wonny/openresearch/backend/internal/research"
	"github.com/wonny/openresearch/backend/pkg/logger"
	"github.com/wonny/openresearch/backend/pkg/redis"
)

// ResearchHandler handles report assembly API endpoints
type ResearchHandler struct {
	assembler *research.Assembler
	cache     *redis.Cache
	cacheTTL  time.Duration
	repo      *report.Repository
	mets      *metrics.Registry
	logger    *logger.Logger
}

// NewResearchHandler creates a new research handler. cache and repo may be
// nil; the handler then assembles fresh on every request and skips history.
func NewResearchHandler(
	assembler *research.Assembler,
	cache *redis.Cache,
	cacheTTL time.Duration,
	repo *report.Repository,
	mets *metrics.Registry,
	log *logger.Logger,
) *ResearchHandler {
	return &ResearchHandler{
		assembler: assembler,
		cache:     cache,
		cacheTTL:  cacheTTL,
		repo:      repo,
		mets:      mets,
		logger:    log,
	}
}

// GetResearch assembles and returns a research report
// GET /api/research?ticker=AAPL
func (h *ResearchHandler) GetResearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawTicker := r.URL.Query().Get("ticker")
	ticker, err := contracts.NormalizeTicker(rawTicker)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ticker (expected 1-10 letters or digits)")
		return
	}

	if h.cache != nil {
		var cached json.RawMessage
		hit, err := h.cache.Get(ctx, redis.ReportKey(ticker), &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Report cache read failed")
		}
		h.mets.ObserveCache(hit)
		if hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	rep, err := h.assembler.Assemble(ctx, ticker)
	if err != nil {
		if errors.Is(err, contracts.ErrInvalidTicker) {
			respondError(w, http.StatusBadRequest, "Invalid ticker (expected 1-10 letters or digits)")
			return
		}
		h.logger.WithError(err).Error("Failed to assemble report")
		respondError(w, http.StatusInternalServerError, "Failed to assemble report")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, redis.ReportKey(ticker), rep, h.cacheTTL); err != nil {
			h.logger.WithError(err).Warn("Report cache write failed")
		}
	}

	if h.repo != nil {
		// Persist outside the request deadline so a slow insert cannot
		// fail an already assembled report.
		go func(rep *contracts.Report) {
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.repo.Save(saveCtx, rep); err != nil {
				h.logger.WithError(err).Warn("Failed to persist report")
			}
		}(rep)
	}

	respondJSON(w, http.StatusOK, rep)
}
