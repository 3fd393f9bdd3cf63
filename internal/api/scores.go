package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ScoresHandler struct {
	svc Service
}

func NewScoresHandler(svc Service) *ScoresHandler {
	return &ScoresHandler{svc: svc}
}

func (h *ScoresHandler) Compute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset id"})
		return
	}

	rec, err := h.svc.ComputeScore(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset id"})
		return
	}

	rec, err := h.svc.GetScore(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "score not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type BatchComputeRequest struct {
	AssetIDs []string `json:"asset_ids"`
}

func (h *ScoresHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.AssetIDs))
	for _, raw := range req.AssetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	summary, err := h.svc.BatchCompute(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
