package transport

import (
	"net/http"
	"time"

	"vetclinic/internal/domain"
	"vetclinic/internal/middleware"
	"vetclinic/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnimalRequest represents the create/update payload for a patient
type AnimalRequest struct {
	OwnerName    string `json:"owner_name" validate:"required"`
	OwnerContact string `json:"owner_contact" validate:"required"`
	Species      string `json:"species" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=admitted discharged"`
}

// AnimalHandler handles HTTP requests for patients
type AnimalHandler struct {
	animalRepo repository.AnimalRepository
	logger     *zap.Logger
}

// NewAnimalHandler creates a new AnimalHandler
func NewAnimalHandler(animalRepo repository.AnimalRepository, logger *zap.Logger) *AnimalHandler {
	return &AnimalHandler{
		animalRepo: animalRepo,
		logger:     logger,
	}
}

// RegisterRoutes registers patient routes
func (h *AnimalHandler) RegisterRoutes(r chi.Router) {
	r.Route("/animals", func(r chi.Router) {
		r.Get("/", h.ListAnimals)
		r.Post("/", h.CreateAnimal)
		r.Get("/count", h.CountAnimals)
		r.Get("/{id}", h.GetAnimal)
		r.Put("/{id}", h.UpdateAnimal)
		r.Delete("/{id}", h.DeleteAnimal)
	})
}

// CreateAnimal admits a new patient
func (h *AnimalHandler) CreateAnimal(w http.ResponseWriter, r *http.Request) {
	var req AnimalRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	status := domain.AnimalStatus(req.Status)
	if status == "" {
		status = domain.StatusAdmitted
	}

	now := time.Now().UTC()
	animal := &domain.Animal{
		ID:           uuid.New(),
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Species:      req.Species,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.animalRepo.Create(r.Context(), animal); err != nil {
		h.logger.Error("Failed to create animal", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create animal")
		return
	}

	h.logger.Info("Animal created", zap.String("animal_id", animal.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, animal)
}

// GetAnimal returns a single patient
func (h *AnimalHandler) GetAnimal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid animal ID")
		return
	}

	animal, err := h.animalRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrAnimalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "animal not found")
			return
		}
		h.logger.Error("Failed to get animal", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get animal")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, animal)
}

// ListAnimals returns all patients
func (h *AnimalHandler) ListAnimals(w http.ResponseWriter, r *http.Request) {
	animals, err := h.animalRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list animals", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list animals")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, animals)
}

// UpdateAnimal replaces a patient's attributes
func (h *AnimalHandler) UpdateAnimal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid animal ID")
		return
	}

	var req AnimalRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	status := domain.AnimalStatus(req.Status)
	if status == "" {
		status = domain.StatusAdmitted
	}

	animal := &domain.Animal{
		ID:           id,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Species:      req.Species,
		Status:       status,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := h.animalRepo.Update(r.Context(), animal); err != nil {
		if err == repository.ErrAnimalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "animal not found")
			return
		}
		h.logger.Error("Failed to update animal", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update animal")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, animal)
}

// DeleteAnimal removes a patient; its diagnoses go with it.
func (h *AnimalHandler) DeleteAnimal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid animal ID")
		return
	}

	if err := h.animalRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrAnimalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "animal not found")
			return
		}
		h.logger.Error("Failed to delete animal", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete animal")
		return
	}

	h.logger.Info("Animal deleted", zap.String("animal_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// CountAnimals returns the number of patients
func (h *AnimalHandler) CountAnimals(w http.ResponseWriter, r *http.Request) {
	count, err := h.animalRepo.Count(r.Context())
	if err != nil {
		h.logger.Error("Failed to count animals", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count animals")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"total_patients": count})
}
