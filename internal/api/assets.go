package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mintmesh/rarityd/internal/engine"
	"github.com/mintmesh/rarityd/internal/scoring"
	"github.com/mintmesh/rarityd/internal/store"
)

type AssetsHandler struct {
	svc Service
}

func NewAssetsHandler(svc Service) *AssetsHandler {
	return &AssetsHandler{svc: svc}
}

type RegisterAssetRequest struct {
	AssetID    string               `json:"asset_id"`
	Attributes scoring.AttributeSet `json:"attributes"`
}

func (h *AssetsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AssetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "asset_id required"})
		return
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset_id"})
		return
	}

	rec, err := h.svc.Register(r.Context(), CallerID(r.Context()), assetID, req.Attributes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid asset id"})
		return
	}

	rec, err := h.svc.GetAttributes(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "asset not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AssetsHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.GetTotalAssets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"total_assets": total})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, engine.ErrNotInitialized):
		status = http.StatusConflict
	case errors.Is(err, scoring.ErrInvalidAttribute), errors.Is(err, scoring.ErrInvalidWeight), errors.Is(err, engine.ErrBatchLimit):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
