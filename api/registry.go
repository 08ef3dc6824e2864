package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	registryservice "github.com/hackboard-live/hackboard/app/modules/registry/application"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// RegistryHandler serves track, room, team, and criterion endpoints.
type RegistryHandler struct {
	service registryservice.Service
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(service registryservice.Service) *RegistryHandler {
	return &RegistryHandler{service: service}
}

func urlUUID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

type createTrackRequest struct {
	Name string `json:"name"`
}

func (h *RegistryHandler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req createTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	track, err := h.service.CreateTrack(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, registryservice.ErrEmptyName) {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create track")
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

func (h *RegistryHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.service.ListTracks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (h *RegistryHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.service.CreateRoom(r.Context(), trackID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, registryservice.ErrEmptyName):
			respondError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, registrydb.ErrTrackNotFound):
			respondError(w, http.StatusNotFound, "track not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create room")
		}
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

func (h *RegistryHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	rooms, err := h.service.ListRooms(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

type createTeamRequest struct {
	RoomID sharedtypes.RoomID `json:"room_id"`
	Name   string             `json:"name"`
}

func (h *RegistryHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := h.service.CreateTeam(r.Context(), trackID, req.RoomID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, registryservice.ErrEmptyName):
			respondError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, registryservice.ErrRoomTrackMismatch):
			respondError(w, http.StatusBadRequest, "room does not belong to the track")
		case errors.Is(err, registrydb.ErrRoomNotFound):
			respondError(w, http.StatusNotFound, "room not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create team")
		}
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (h *RegistryHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	teams, err := h.service.ListTeams(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

func (h *RegistryHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlUUID(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	team, err := h.service.GetTeam(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, registrydb.ErrTeamNotFound) {
			respondError(w, http.StatusNotFound, "team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get team")
		return
	}
	respondJSON(w, http.StatusOK, team)
}

type createCriterionRequest struct {
	Title     string                        `json:"title"`
	MaxScore  sharedtypes.Score             `json:"max_score"`
	Weightage float64                       `json:"weightage"`
	Options   []sharedtypes.CriterionOption `json:"options,omitempty"`
}

func (h *RegistryHandler) CreateCriterion(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	var req createCriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	criterion, err := h.service.CreateCriterion(r.Context(), registryservice.CreateCriterionInput{
		TrackID:   trackID,
		Title:     req.Title,
		MaxScore:  req.MaxScore,
		Weightage: req.Weightage,
		Options:   req.Options,
	})
	if err != nil {
		switch {
		case errors.Is(err, registryservice.ErrEmptyName):
			respondError(w, http.StatusBadRequest, "title is required")
		case errors.Is(err, registryservice.ErrInvalidMaxScore):
			respondError(w, http.StatusBadRequest, "max score must be positive")
		case errors.Is(err, registrydb.ErrTrackNotFound):
			respondError(w, http.StatusNotFound, "track not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create criterion")
		}
		return
	}
	respondJSON(w, http.StatusCreated, criterion)
}

func (h *RegistryHandler) ListCriteria(w http.ResponseWriter, r *http.Request) {
	trackID, err := urlUUID(r, "trackID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}
	criteria, err := h.service.ListCriteria(r.Context(), trackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list criteria")
		return
	}
	respondJSON(w, http.StatusOK, criteria)
}
