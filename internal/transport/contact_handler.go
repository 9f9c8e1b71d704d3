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

// ContactRequest represents the payload of the public contact form
type ContactRequest struct {
	Subject string `json:"subject" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ContactHandler handles HTTP requests for contact messages
type ContactHandler struct {
	contactRepo repository.ContactRepository
	logger      *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactRepo repository.ContactRepository, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers contact routes. Submitting the form is public;
// reading and managing messages requires authentication.
func (h *ContactHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/contacts", h.CreateContact)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/contacts", h.ListContacts)
		r.Get("/contacts/count", h.CountContacts)
		r.Get("/contacts/{id}", h.GetContact)
		r.Put("/contacts/{id}", h.UpdateContact)
		r.Delete("/contacts/{id}", h.DeleteContact)
	})
}

// CreateContact stores a message from the public contact form
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	contact := &domain.Contact{
		ID:        uuid.New(),
		Subject:   req.Subject,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.contactRepo.Create(r.Context(), contact); err != nil {
		h.logger.Error("Failed to create contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, contact)
}

// GetContact returns a single contact message
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}

	contact, err := h.contactRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrContactNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error("Failed to get contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get contact")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contact)
}

// ListContacts returns all contact messages
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contacts)
}

// UpdateContact replaces a contact message
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}

	var req ContactRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	contact := &domain.Contact{
		ID:      id,
		Subject: req.Subject,
		Email:   req.Email,
		Message: req.Message,
	}

	if err := h.contactRepo.Update(r.Context(), contact); err != nil {
		if err == repository.ErrContactNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error("Failed to update contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, contact)
}

// DeleteContact removes a contact message
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}

	if err := h.contactRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrContactNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.logger.Error("Failed to delete contact", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CountContacts returns the number of contact messages
func (h *ContactHandler) CountContacts(w http.ResponseWriter, r *http.Request) {
	count, err := h.contactRepo.Count(r.Context())
	if err != nil {
		h.logger.Error("Failed to count contacts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count contacts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"total_contacts": count})
}
