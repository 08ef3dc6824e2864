package api

import (
	"encoding/json"
	"errors"
	"net/http"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	votingservice "github.com/hackboard-live/hackboard/app/modules/voting/application"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// VotingHandler serves public vote endpoints.
type VotingHandler struct {
	service votingservice.Service
}

// NewVotingHandler creates a new VotingHandler.
func NewVotingHandler(service votingservice.Service) *VotingHandler {
	return &VotingHandler{service: service}
}

type castVoteRequest struct {
	Entries []sharedtypes.VoteEntry `json:"entries"`
}

// CastVote records a batch of public votes for a team.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	session, ok := voterSession(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "X-Voter-Session header required")
		return
	}
	teamID, err := urlUUID(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.CastVote(r.Context(), session, teamID, req.Entries)
	if err != nil {
		if errors.Is(err, registrydb.ErrTeamNotFound) {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to cast vote")
		return
	}
	if result.Failure != nil {
		status := http.StatusUnprocessableEntity
		if result.Failure.Reason == votingservice.RateLimitedReason {
			status = http.StatusTooManyRequests
		}
		respondJSON(w, status, result.Failure)
		return
	}
	respondJSON(w, http.StatusOK, result.Success)
}
