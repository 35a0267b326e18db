package handler

import (
	"encoding/json"
	"net/http"

	"cp_arena/internal/app/service"
	"cp_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(ss *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// Routes are registered under /api/v1/contests/{contestID}.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.openSession) // POST /api/v1/contests/{id}/session
	r.Get("/session", h.getSession)   // GET  /api/v1/contests/{id}/session?walletAddress
	r.Post("/finish", h.finish)       // POST /api/v1/contests/{id}/finish
}

type sessionRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (h *SessionHandler) openSession(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, err := h.sessionService.Open(r.Context(), contestID, req.WalletAddress)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")
	walletAddress := r.URL.Query().Get("walletAddress")

	session, err := h.sessionService.Status(r.Context(), contestID, walletAddress)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) finish(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	alreadyRecorded, err := h.sessionService.Finish(r.Context(), contestID, req.WalletAddress)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	status := http.StatusCreated
	if alreadyRecorded {
		status = http.StatusOK
	}
	common.RespondWithJSON(w, status, map[string]bool{
		"success":         true,
		"alreadyRecorded": alreadyRecorded,
	})
}
