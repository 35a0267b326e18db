package handler

import (
	"encoding/json"
	"net/http"

	"cp_arena/internal/app/service"
	"cp_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type BadgeHandler struct {
	badgeService *service.BadgeService
}

func NewBadgeHandler(bs *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: bs}
}

func (h *BadgeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/mint", h.mintBadge) // POST /api/v1/badges/mint
}

func (h *BadgeHandler) mintBadge(w http.ResponseWriter, r *http.Request) {
	var req service.MintBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	txHash, err := h.badgeService.MintBadge(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"txHash": txHash})
}
