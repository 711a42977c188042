// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/hireflow/internal/app"
	"github.com/okian/hireflow/internal/domain/model"
)

// scoreRequest mirrors the POST /assessments/score body.
type scoreRequest struct {
	AssessmentID string `json:"assessmentId"`
}

func (r scoreRequest) validate() error {
	if strings.TrimSpace(r.AssessmentID) == "" {
		return errors.New("missing assessmentId")
	}
	return nil
}

type scoreResponse struct {
	Success bool                 `json:"success"`
	Scores  *model.AIScoreRecord `json:"scores"`
	Stage   model.Stage          `json:"stage"`
}

// ScoreHandler handles scoring requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /assessments/score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.Join(app.ErrValidation, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.ScoreAssessment(r.Context(), req.AssessmentID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, app.ErrScoringUnavailable):
			writeError(w, http.StatusInternalServerError, "scoring_unavailable", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Success: true, Scores: result.Scores, Stage: result.Stage})
}
