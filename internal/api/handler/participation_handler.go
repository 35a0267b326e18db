package handler

import (
	"encoding/json"
	"net/http"

	"cp_arena/internal/app/service"
	"cp_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ParticipationHandler struct {
	participationService *service.ParticipationService
}

func NewParticipationHandler(ps *service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

func (h *ParticipationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.checkParticipation)   // GET /api/v1/participation?contestId&walletAddress
	r.Post("/", h.recordParticipation) // POST /api/v1/participation
}

func (h *ParticipationHandler) checkParticipation(w http.ResponseWriter, r *http.Request) {
	contestID := r.URL.Query().Get("contestId")
	walletAddress := r.URL.Query().Get("walletAddress")

	participated, err := h.participationService.HasParticipated(r.Context(), contestID, walletAddress)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"participated": participated})
}

type recordParticipationRequest struct {
	ContestID     string `json:"contestId"`
	WalletAddress string `json:"walletAddress"`
}

func (h *ParticipationHandler) recordParticipation(w http.ResponseWriter, r *http.Request) {
	var req recordParticipationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.participationService.RecordParticipation(r.Context(), req.ContestID, req.WalletAddress); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]bool{"success": true})
}
