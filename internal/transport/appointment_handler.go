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

// AppointmentRequest represents the create/update payload for an appointment
type AppointmentRequest struct {
	OwnerName    string    `json:"owner_name" validate:"required"`
	OwnerContact string    `json:"owner_contact" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	Time         string    `json:"time" validate:"required"`
}

// AppointmentHandler handles HTTP requests for appointments
type AppointmentHandler struct {
	appointmentRepo repository.AppointmentRepository
	logger          *zap.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentRepo repository.AppointmentRepository, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// RegisterRoutes registers appointment routes
func (h *AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", h.ListAppointments)
		r.Post("/", h.CreateAppointment)
		r.Get("/count", h.CountAppointments)
		r.Get("/{id}", h.GetAppointment)
		r.Put("/{id}", h.UpdateAppointment)
		r.Delete("/{id}", h.DeleteAppointment)
	})
}

// CreateAppointment schedules a visit
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	appointment := &domain.Appointment{
		ID:           uuid.New(),
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Date:         req.Date,
		Time:         req.Time,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.appointmentRepo.Create(r.Context(), appointment); err != nil {
		h.logger.Error("Failed to create appointment", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.logger.Info("Appointment created", zap.String("appointment_id", appointment.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, appointment)
}

// GetAppointment returns a single appointment
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	appointment, err := h.appointmentRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrAppointmentNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("Failed to get appointment", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get appointment")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, appointment)
}

// ListAppointments returns all appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list appointments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, appointments)
}

// UpdateAppointment replaces an appointment
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	var req AppointmentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	appointment := &domain.Appointment{
		ID:           id,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Date:         req.Date,
		Time:         req.Time,
	}

	if err := h.appointmentRepo.Update(r.Context(), appointment); err != nil {
		if err == repository.ErrAppointmentNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("Failed to update appointment", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment cancels an appointment
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	if err := h.appointmentRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrAppointmentNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("Failed to delete appointment", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CountAppointments returns the number of appointments
func (h *AppointmentHandler) CountAppointments(w http.ResponseWriter, r *http.Request) {
	count, err := h.appointmentRepo.Count(r.Context())
	if err != nil {
		h.logger.Error("Failed to count appointments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count appointments")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"total_appointments": count})
}
