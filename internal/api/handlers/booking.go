package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/api/middleware"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/notify"
	"github.com/kyle/bowling-center-server/internal/repository"
)

type BookingHandler struct {
	bookings  repository.BookingRepository
	publisher notify.Publisher
}

func NewBookingHandler(bookings repository.BookingRepository, publisher notify.Publisher) *BookingHandler {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &BookingHandler{bookings: bookings, publisher: publisher}
}

type CreateBookingRequest struct {
	LaneID   int       `json:"laneId"`
	Kind     string    `json:"kind"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Label    string    `json:"label"`
}

type BookingConflictResponse struct {
	Error     string            `json:"error"`
	Conflicts []*domain.Booking `json:"conflicts"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.LaneID <= 0 || !req.EndsAt.After(req.StartsAt) {
		http.Error(w, "Booking requires a lane and a positive time window", http.StatusBadRequest)
		return
	}

	kind := domain.BookingKind(req.Kind)
	switch kind {
	case "":
		kind = domain.BookingKindOpenPlay
	case domain.BookingKindOpenPlay, domain.BookingKindPrivate:
	default:
		// League bookings are created by schedule generation only.
		http.Error(w, "Invalid booking kind: "+req.Kind, http.StatusBadRequest)
		return
	}

	conflicts, err := h.bookings.GetConflictingEvents(r.Context(), req.LaneID, req.StartsAt, req.EndsAt, nil)
	if err != nil {
		http.Error(w, "Failed to check lane availability", http.StatusInternalServerError)
		return
	}
	if len(conflicts) > 0 {
		writeJSON(w, http.StatusConflict, BookingConflictResponse{
			Error:     "Lane already booked for that window",
			Conflicts: conflicts,
		})
		return
	}

	booking := &domain.Booking{
		LaneID:   req.LaneID,
		Kind:     kind,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Label:    req.Label,
	}
	if err := h.bookings.Create(r.Context(), booking); err != nil {
		http.Error(w, "Failed to create booking", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish(notify.ChannelBookings, notify.EventBookingCreated, map[string]any{
		"booking":  booking,
		"bookedBy": middleware.GetOperatorName(r.Context()),
	})
	writeJSON(w, http.StatusCreated, booking)
}

// ListByLane returns the bookings for one lane inside a time window.
// Defaults to the next seven days when the window is not given.
func (h *BookingHandler) ListByLane(w http.ResponseWriter, r *http.Request) {
	laneID, ok := parseLaneID(w, r)
	if !ok {
		return
	}

	from := time.Now()
	to := from.Add(7 * 24 * time.Hour)
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid from timestamp", http.StatusBadRequest)
			return
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid to timestamp", http.StatusBadRequest)
			return
		}
		to = t
	}

	bookings, err := h.bookings.GetByLane(r.Context(), laneID, from, to)
	if err != nil {
		http.Error(w, "Failed to list bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

type AvailabilityResponse struct {
	LaneID    int  `json:"laneId"`
	Available bool `json:"available"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	laneID, ok := parseLaneID(w, r)
	if !ok {
		return
	}

	startsAt, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "Invalid from timestamp", http.StatusBadRequest)
		return
	}
	endsAt, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Invalid to timestamp", http.StatusBadRequest)
		return
	}

	available, err := h.bookings.IsLaneAvailable(r.Context(), laneID, startsAt, endsAt, nil)
	if err != nil {
		http.Error(w, "Failed to check lane availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{LaneID: laneID, Available: available})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}

	if err := h.bookings.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete booking", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
