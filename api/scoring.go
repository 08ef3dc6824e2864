package api

import (
	"encoding/json"
	"errors"
	"net/http"

	scoringservice "github.com/hackboard-live/hackboard/app/modules/scoring/application"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// ScoringHandler serves judge score endpoints.
type ScoringHandler struct {
	service scoringservice.Service
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(service scoringservice.Service) *ScoringHandler {
	return &ScoringHandler{service: service}
}

type submitScoresRequest struct {
	Entries []sharedtypes.ScoreEntry `json:"entries"`
}

// SubmitScores replaces the calling judge's scores for a team.
func (h *ScoringHandler) SubmitScores(w http.ResponseWriter, r *http.Request) {
	judge, ok := JudgeFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "judge identity required")
		return
	}
	teamID, err := urlUUID(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	var req submitScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.SubmitScores(r.Context(), judge, teamID, req.Entries)
	if err != nil {
		if errors.Is(err, registrydb.ErrTeamNotFound) {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to submit scores")
		return
	}
	if result.Failure != nil {
		respondJSON(w, http.StatusConflict, result.Failure)
		return
	}
	respondJSON(w, http.StatusOK, result.Success)
}

// GetTeamScores returns the raw score rows for a team.
func (h *ScoringHandler) GetTeamScores(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlUUID(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	rows, err := h.service.GetTeamScores(r.Context(), teamID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get team scores")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
