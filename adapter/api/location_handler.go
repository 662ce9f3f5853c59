package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/praxis/internal/location/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
)

// LocationHandler serves the location directory API.
type LocationHandler struct {
	directory   domain.Directory
	invalidator func()
	logger      *slog.Logger
}

// NewLocationHandler creates a new LocationHandler. invalidator runs
// after every write so cached hours envelopes do not outlive an edit;
// it may be nil.
func NewLocationHandler(directory domain.Directory, invalidator func(), logger *slog.Logger) *LocationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationHandler{directory: directory, invalidator: invalidator, logger: logger}
}

type dayHoursDTO struct {
	Open  bool   `json:"open"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type locationDTO struct {
	Key    string                 `json:"key"`
	Name   string                 `json:"name"`
	Weekly map[string]dayHoursDTO `json:"weekly"`
}

// List handles GET /api/v1/locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.directory.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]locationDTO, 0, len(locations))
	for _, loc := range locations {
		out = append(out, toLocationDTO(loc))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/locations/{key}.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	loc, err := h.directory.FindByKey(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}
	writeJSON(w, http.StatusOK, toLocationDTO(loc))
}

// Put handles PUT /api/v1/locations/{key}, creating or replacing the
// location's name and weekly hours.
func (h *LocationHandler) Put(w http.ResponseWriter, r *http.Request) {
	var dto locationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	weekly, err := fromWeeklyDTO(dto.Weekly)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc, err := domain.NewLocation(r.PathValue("key"), dto.Name, weekly)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.directory.Save(r.Context(), loc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.invalidator != nil {
		h.invalidator()
	}
	writeJSON(w, http.StatusOK, toLocationDTO(loc))
}

// Delete handles DELETE /api/v1/locations/{key}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Delete(r.Context(), r.PathValue("key")); err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.invalidator != nil {
		h.invalidator()
	}
	w.WriteHeader(http.StatusNoContent)
}

func toLocationDTO(loc *domain.Location) locationDTO {
	dto := locationDTO{
		Key:    loc.Key(),
		Name:   loc.Name(),
		Weekly: make(map[string]dayHoursDTO, len(loc.Weekly())),
	}
	for day, h := range loc.Weekly() {
		dto.Weekly[strconv.Itoa(int(day))] = dayHoursDTO{
			Open:  h.Open,
			Start: h.Start.String(),
			End:   h.End.String(),
		}
	}
	return dto
}

func fromWeeklyDTO(weekly map[string]dayHoursDTO) (domain.WeeklyHours, error) {
	out := make(domain.WeeklyHours, len(weekly))
	for rawDay, dto := range weekly {
		dayNum, err := strconv.Atoi(rawDay)
		if err != nil || dayNum < 0 || dayNum > 6 {
			return nil, errors.New("weekday keys must be 0 (Sunday) through 6 (Saturday)")
		}
		hours := domain.DayHours{Open: dto.Open}
		if dto.Open {
			if hours.Start, err = sharedDomain.ParseTimeOfDay(dto.Start); err != nil {
				return nil, errors.New("invalid start time for weekday " + rawDay)
			}
			if hours.End, err = sharedDomain.ParseTimeOfDay(dto.End); err != nil {
				return nil, errors.New("invalid end time for weekday " + rawDay)
			}
			if !hours.End.After(hours.Start) {
				return nil, errors.New("end must be after start for weekday " + rawDay)
			}
		}
		out[time.Weekday(dayNum)] = hours
	}
	return out, nil
}
