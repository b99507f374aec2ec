package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/repository"
	"gorm.io/gorm"
)

type BowlerHandler struct {
	bowlers repository.BowlerRepository
}

func NewBowlerHandler(bowlers repository.BowlerRepository) *BowlerHandler {
	return &BowlerHandler{bowlers: bowlers}
}

type CreateBowlerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *BowlerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBowlerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	bowler := &domain.Bowler{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.bowlers.Create(r.Context(), bowler); err != nil {
		http.Error(w, "Failed to create bowler", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, bowler)
}

func (h *BowlerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	bowlers, err := h.bowlers.List(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list bowlers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bowlers)
}

func (h *BowlerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBowlerID(w, r)
	if !ok {
		return
	}

	bowler, err := h.bowlers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Bowler not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load bowler", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bowler)
}

type UpdateBowlerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *BowlerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBowlerID(w, r)
	if !ok {
		return
	}

	var req UpdateBowlerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bowler, err := h.bowlers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Bowler not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load bowler", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		bowler.Name = *req.Name
	}
	if req.Email != nil {
		bowler.Email = *req.Email
	}
	if req.Phone != nil {
		bowler.Phone = *req.Phone
	}

	if err := h.bowlers.Update(r.Context(), bowler); err != nil {
		http.Error(w, "Failed to update bowler", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bowler)
}

func (h *BowlerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBowlerID(w, r)
	if !ok {
		return
	}

	if err := h.bowlers.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete bowler", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseBowlerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "bowlerId"))
	if err != nil {
		http.Error(w, "Invalid bowler id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
