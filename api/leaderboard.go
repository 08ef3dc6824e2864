package api

import (
	"encoding/json"
	"net/http"
	"time"

	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	leaderboardqueue "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/queue"
)

// LeaderboardHandler serves standings, breakdown, and finalization
// endpoints.
type LeaderboardHandler struct {
	service leaderboardservice.Service
	queue   leaderboardqueue.QueueService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(service leaderboardservice.Service, queue leaderboardqueue.QueueService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, queue: queue}
}

// GetLeaderboard returns the current standings for a track.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	result, err := h.service.GetLeaderboard(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}
	if result.Failure != nil {
		respondJSON(w, http.StatusServiceUnavailable, result.Failure)
		return
	}
	respondJSON(w, http.StatusOK, result.Success)
}

// GetTeamBreakdown explains one team's score derivation.
func (h *LeaderboardHandler) GetTeamBreakdown(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlUUID(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	result, err := h.service.GetTeamBreakdown(r.Context(), teamID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get team breakdown")
		return
	}
	if result.Failure != nil {
		if result.Failure.Reason == "team not found" {
			respondJSON(w, http.StatusNotFound, result.Failure)
			return
		}
		respondJSON(w, http.StatusServiceUnavailable, result.Failure)
		return
	}
	respondJSON(w, http.StatusOK, result.Success)
}

// FinalizeTrack finalizes a track immediately.
func (h *LeaderboardHandler) FinalizeTrack(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	result, err := h.service.FinalizeTrack(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to finalize track")
		return
	}
	if result.Failure != nil {
		respondJSON(w, http.StatusConflict, result.Failure)
		return
	}
	respondJSON(w, http.StatusOK, result.Success)
}

type scheduleFinalizeRequest struct {
	At time.Time `json:"at"`
}

// ScheduleFinalize schedules a track finalization.
func (h *LeaderboardHandler) ScheduleFinalize(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req scheduleFinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.queue.ScheduleFinalize(r.Context(), trackID, req.At); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{"track_id": trackID, "scheduled_at": req.At})
}

// CancelScheduledFinalize cancels pending finalization jobs for a track.
func (h *LeaderboardHandler) CancelScheduledFinalize(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	if err := h.queue.CancelTrackJobs(r.Context(), trackID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to cancel scheduled finalization")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"track_id": trackID})
}

// ListScheduledFinalize returns pending finalization jobs for a track.
func (h *LeaderboardHandler) ListScheduledFinalize(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	jobs, err := h.queue.GetScheduledJobs(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list scheduled jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}
