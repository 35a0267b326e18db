package handler

import (
	"encoding/json"
	"net/http"

	"cp_arena/internal/app/service"
	"cp_arena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ExecuteHandler struct {
	gradingService *service.GradingService
}

func NewExecuteHandler(gs *service.GradingService) *ExecuteHandler {
	return &ExecuteHandler{gradingService: gs}
}

func (h *ExecuteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.gradeSubmission) // POST /api/v1/execute
}

func (h *ExecuteHandler) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	var req service.GradeSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	verdict, err := h.gradingService.GradeSubmission(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, verdict)
}
