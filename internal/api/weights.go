package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type WeightsHandler struct {
	svc Service
}

func NewWeightsHandler(svc Service) *WeightsHandler {
	return &WeightsHandler{svc: svc}
}

func (h *WeightsHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Initialize(r.Context(), CallerID(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	weights, err := h.svc.GetWeights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, weights)
}

type UpdateWeightRequest struct {
	Weight uint32 `json:"weight"`
}

func (h *WeightsHandler) Update(w http.ResponseWriter, r *http.Request) {
	trait := chi.URLParam(r, "trait")

	var req UpdateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateWeight(r.Context(), CallerID(r.Context()), trait, req.Weight); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trait": trait, "weight": req.Weight})
}

func (h *WeightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	trait := chi.URLParam(r, "trait")

	weight, ok, err := h.svc.GetWeight(r.Context(), trait)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "weight not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trait": trait, "weight": weight})
}

func (h *WeightsHandler) List(w http.ResponseWriter, r *http.Request) {
	weights, err := h.svc.GetWeights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}
