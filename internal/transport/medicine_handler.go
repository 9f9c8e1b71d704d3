package transport

import (
	"net/http"
	"time"

	"vetclinic/internal/domain"
	"vetclinic/internal/middleware"
	"vetclinic/internal/repository"
	"vetclinic/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MedicineRequest represents the create/update payload for a medicine
type MedicineRequest struct {
	Name       string    `json:"name" validate:"required"`
	Category   string    `json:"category" validate:"required,oneof=antibiotic painkiller supplement other"`
	Quantity   int       `json:"quantity" validate:"gte=0"`
	Price      float64   `json:"price" validate:"gte=0"`
	ExpiryDate time.Time `json:"expiry_date" validate:"required"`
}

// MedicineResponse is a medicine plus its derived stock value.
type MedicineResponse struct {
	domain.Medicine
	StockValue float64 `json:"stock_value"`
}

// MedicineHandler handles HTTP requests for the medicine inventory
type MedicineHandler struct {
	medicineRepo  repository.MedicineRepository
	reportService service.ReportService
	logger        *zap.Logger
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(medicineRepo repository.MedicineRepository, reportService service.ReportService, logger *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		medicineRepo:  medicineRepo,
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers medicine inventory routes
func (h *MedicineHandler) RegisterRoutes(r chi.Router) {
	r.Route("/medicine", func(r chi.Router) {
		r.Get("/", h.ListMedicines)
		r.Post("/", h.CreateMedicine)
		r.Get("/count", h.CountMedicines)
		r.Get("/low-stock", h.LowStock)
		r.Get("/total-stock-value", h.TotalStockValue)
		r.Get("/{id}", h.GetMedicine)
		r.Put("/{id}", h.UpdateMedicine)
		r.Delete("/{id}", h.DeleteMedicine)
	})
}

// CreateMedicine adds a medicine to the inventory
func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req MedicineRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	now := time.Now().UTC()
	medicine := &domain.Medicine{
		ID:         uuid.New(),
		Name:       req.Name,
		Category:   domain.MedicineCategory(req.Category),
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExpiryDate: req.ExpiryDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.medicineRepo.Create(r.Context(), medicine); err != nil {
		if err == repository.ErrMedicineAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "medicine with this name already exists")
			return
		}
		h.logger.Error("Failed to create medicine", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create medicine")
		return
	}

	h.logger.Info("Medicine created",
		zap.String("medicine_id", medicine.ID.String()),
		zap.String("name", medicine.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, toMedicineResponse(medicine))
}

// GetMedicine returns a single medicine
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid medicine ID")
		return
	}

	medicine, err := h.medicineRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrMedicineNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "medicine not found")
			return
		}
		h.logger.Error("Failed to get medicine", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get medicine")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toMedicineResponse(medicine))
}

// ListMedicines returns the whole inventory
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicineRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list medicines", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list medicines")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toMedicineResponses(medicines))
}

// UpdateMedicine replaces a medicine's attributes
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid medicine ID")
		return
	}

	var req MedicineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	medicine := &domain.Medicine{
		ID:         id,
		Name:       req.Name,
		Category:   domain.MedicineCategory(req.Category),
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExpiryDate: req.ExpiryDate,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := h.medicineRepo.Update(r.Context(), medicine); err != nil {
		if err == repository.ErrMedicineNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "medicine not found")
			return
		}
		if err == repository.ErrMedicineAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "medicine with this name already exists")
			return
		}
		h.logger.Error("Failed to update medicine", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update medicine")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toMedicineResponse(medicine))
}

// DeleteMedicine removes a medicine; its sales go with it.
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid medicine ID")
		return
	}

	if err := h.medicineRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrMedicineNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "medicine not found")
			return
		}
		h.logger.Error("Failed to delete medicine", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete medicine")
		return
	}

	h.logger.Info("Medicine deleted", zap.String("medicine_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// CountMedicines returns the number of medicines in the inventory
func (h *MedicineHandler) CountMedicines(w http.ResponseWriter, r *http.Request) {
	count, err := h.reportService.CountMedicines(r.Context())
	if err != nil {
		h.logger.Error("Failed to count medicines", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count medicines")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"total_medicines": count})
}

// LowStock returns medicines whose quantity is below the restock threshold
func (h *MedicineHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.reportService.LowStock(r.Context())
	if err != nil {
		h.logger.Error("Failed to list low stock medicines", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low stock medicines")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toMedicineResponses(medicines))
}

// TotalStockValue returns the summed quantity x price over the inventory
func (h *MedicineHandler) TotalStockValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.reportService.TotalStockValue(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute total stock value", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute total stock value")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]float64{"total_stock_value": value})
}

func toMedicineResponse(m *domain.Medicine) MedicineResponse {
	return MedicineResponse{Medicine: *m, StockValue: m.StockValue()}
}

func toMedicineResponses(medicines []*domain.Medicine) []MedicineResponse {
	responses := make([]MedicineResponse, 0, len(medicines))
	for _, m := range medicines {
		responses = append(responses, toMedicineResponse(m))
	}
	return responses
}
