package api

import (
	"net/http"
)

type AdminHandler struct {
	svc Service
}

func NewAdminHandler(svc Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
