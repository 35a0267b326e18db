package handler

import (
	"encoding/json"
	"net/http"

	"cp_arena/internal/api/middleware"
	"cp_arena/internal/app/service"
	"cp_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
}

func NewContestHandler(cs *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: cs}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests) // GET /api/v1/contests

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createContest) // POST /api/v1/contests
	})
}

// RegisterContestRoutes is mounted under /contests/{contestID} alongside the
// session routes.
func (h *ContestHandler) RegisterContestRoutes(r chi.Router) {
	r.Get("/", h.getContest) // GET /api/v1/contests/{id}
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	var req service.CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.CreateContest(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{"id": contest.ID})
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	contest, err := h.contestService.GetContest(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"contest": contest})
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListContests(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"contests": contests})
}
