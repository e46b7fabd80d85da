package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/plagzap/plagzap/internal/analyze"
	"github.com/plagzap/plagzap/internal/batch"
	"github.com/plagzap/plagzap/internal/model"
)

type handler struct {
	analysis AnalysisService
	batches  BatchService
	store    batch.Store
	log      zerolog.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.analysis.Analyze(r.Context(), userID(r), req.Text)
	if err != nil {
		var limitErr *analyze.LimitError
		switch {
		case errors.Is(err, analyze.ErrEmptyText):
			writeError(w, http.StatusBadRequest, "text is required")
		case errors.As(err, &limitErr):
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":   limitErr.Decision.Reason,
				"limit":   limitErr.Decision.Limit,
				"isDaily": limitErr.Decision.IsDaily,
			})
		default:
			h.log.Error().Err(err).Msg("analysis failed")
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Texts     []string `json:"texts"`
	Filenames []string `json:"filenames"`
}

func (h *handler) submitBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := h.batches.Submit(userID(r), req.Texts, req.Filenames)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"batchId":    b.ID,
		"status":     b.Status,
		"totalItems": b.TotalItems,
		"message":    "Batch accepted for processing",
	})
}

func (h *handler) batchStatus(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.StatusView())
}

func (h *handler) listBatches(w http.ResponseWriter, r *http.Request) {
	entries := h.store.ByOwner(userID(r))
	if entries == nil {
		entries = []model.BatchListEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": entries})
}

func (h *handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBatch(w, r)
	if !ok {
		return
	}
	if b.Status == model.BatchPending || b.Status == model.BatchProcessing {
		writeError(w, http.StatusConflict, "batch is still processing")
		return
	}
	h.store.Delete(b.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Batch deleted"})
}

// ownedBatch loads the requested batch and enforces ownership. Wrong-owner
// and unknown ids are distinguishable on purpose: ids are unguessable UUIDs,
// so revealing existence leaks nothing actionable.
func (h *handler) ownedBatch(w http.ResponseWriter, r *http.Request) (*model.Batch, bool) {
	id := chi.URLParam(r, "id")
	b, found := h.store.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "batch not found")
		return nil, false
	}
	if b.OwnerID != userID(r) {
		writeError(w, http.StatusForbidden, "not your batch")
		return nil, false
	}
	return b, true
}
