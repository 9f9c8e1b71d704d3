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

// AnimalDiagnosisRequest represents the create/update payload for a diagnosis
type AnimalDiagnosisRequest struct {
	Animal             uuid.UUID  `json:"animal" validate:"required"`
	Diagnosis          string     `json:"diagnosis" validate:"required"`
	PrescribedMedicine string     `json:"prescribed_medicine" validate:"required"`
	Dosage             string     `json:"dosage" validate:"required"`
	NextCheckup        *time.Time `json:"next_checkup,omitempty"`
}

// AnimalDiagnosisHandler handles HTTP requests for diagnoses
type AnimalDiagnosisHandler struct {
	diagnosisRepo repository.AnimalDiagnosisRepository
	logger        *zap.Logger
}

// NewAnimalDiagnosisHandler creates a new AnimalDiagnosisHandler
func NewAnimalDiagnosisHandler(diagnosisRepo repository.AnimalDiagnosisRepository, logger *zap.Logger) *AnimalDiagnosisHandler {
	return &AnimalDiagnosisHandler{
		diagnosisRepo: diagnosisRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers diagnosis routes
func (h *AnimalDiagnosisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/animal-diagnoses", func(r chi.Router) {
		r.Get("/", h.ListDiagnoses)
		r.Post("/", h.CreateDiagnosis)
		r.Get("/{id}", h.GetDiagnosis)
		r.Put("/{id}", h.UpdateDiagnosis)
		r.Delete("/{id}", h.DeleteDiagnosis)
	})
}

// CreateDiagnosis records a diagnosis for a patient
func (h *AnimalDiagnosisHandler) CreateDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req AnimalDiagnosisRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	diagnosis := &domain.AnimalDiagnosis{
		ID:                 uuid.New(),
		AnimalID:           req.Animal,
		Diagnosis:          req.Diagnosis,
		PrescribedMedicine: req.PrescribedMedicine,
		Dosage:             req.Dosage,
		NextCheckup:        req.NextCheckup,
		CreatedAt:          time.Now().UTC(),
	}

	if err := h.diagnosisRepo.Create(r.Context(), diagnosis); err != nil {
		if err == repository.ErrAnimalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "animal not found")
			return
		}
		h.logger.Error("Failed to create diagnosis", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create diagnosis")
		return
	}

	h.logger.Info("Diagnosis created",
		zap.String("diagnosis_id", diagnosis.ID.String()),
		zap.String("animal_id", diagnosis.AnimalID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, diagnosis)
}

// GetDiagnosis returns a single diagnosis
func (h *AnimalDiagnosisHandler) GetDiagnosis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid diagnosis ID")
		return
	}

	diagnosis, err := h.diagnosisRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrDiagnosisNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "diagnosis not found")
			return
		}
		h.logger.Error("Failed to get diagnosis", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get diagnosis")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, diagnosis)
}

// ListDiagnoses returns all diagnoses
func (h *AnimalDiagnosisHandler) ListDiagnoses(w http.ResponseWriter, r *http.Request) {
	diagnoses, err := h.diagnosisRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list diagnoses", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list diagnoses")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, diagnoses)
}

// UpdateDiagnosis replaces a diagnosis
func (h *AnimalDiagnosisHandler) UpdateDiagnosis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid diagnosis ID")
		return
	}

	var req AnimalDiagnosisRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	diagnosis := &domain.AnimalDiagnosis{
		ID:                 id,
		AnimalID:           req.Animal,
		Diagnosis:          req.Diagnosis,
		PrescribedMedicine: req.PrescribedMedicine,
		Dosage:             req.Dosage,
		NextCheckup:        req.NextCheckup,
	}

	if err := h.diagnosisRepo.Update(r.Context(), diagnosis); err != nil {
		if err == repository.ErrDiagnosisNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "diagnosis not found")
			return
		}
		if err == repository.ErrAnimalNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "animal not found")
			return
		}
		h.logger.Error("Failed to update diagnosis", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update diagnosis")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, diagnosis)
}

// DeleteDiagnosis removes a diagnosis
func (h *AnimalDiagnosisHandler) DeleteDiagnosis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid diagnosis ID")
		return
	}

	if err := h.diagnosisRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrDiagnosisNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "diagnosis not found")
			return
		}
		h.logger.Error("Failed to delete diagnosis", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete diagnosis")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
