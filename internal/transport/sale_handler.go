package transport

import (
	"net/http"

	"vetclinic/internal/middleware"
	"vetclinic/internal/repository"
	"vetclinic/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleRequest represents the payload for recording a sale
type SaleRequest struct {
	Medicine     uuid.UUID `json:"medicine" validate:"required"`
	QuantitySold int       `json:"quantity_sold"`
}

// SaleHandler handles HTTP requests for the sales ledger
type SaleHandler struct {
	saleService   service.SaleService
	reportService service.ReportService
	logger        *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, reportService service.ReportService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the sales routes. The ledger is append-only, so
// there are no update or delete routes.
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Post("/", h.RecordSale)
		r.Get("/count", h.CountSales)
		r.Get("/total-revenue", h.TotalRevenue)
		r.Get("/{id}", h.GetSale)
	})
}

// RecordSale sells a quantity of a medicine, decrementing its stock
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.ValidationMessage(err))
		return
	}

	sale, err := h.saleService.RecordSale(r.Context(), req.Medicine, req.QuantitySold)
	if err != nil {
		switch {
		case err == service.ErrInvalidQuantity:
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity_sold must be a positive integer")
		case err == repository.ErrInsufficientStock:
			middleware.RespondWithError(w, http.StatusBadRequest, "Not enough stock available")
		case err == repository.ErrMedicineNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "medicine not found")
		default:
			h.logger.Error("Failed to record sale", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("medicine_id", sale.MedicineID.String()),
		zap.Int("quantity_sold", sale.QuantitySold))
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// GetSale returns a single ledger entry
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(r.Context(), id)
	if err != nil {
		if err == repository.ErrSaleNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}
		h.logger.Error("Failed to get sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get sale")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// ListSales returns the ledger, newest first
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// CountSales returns the number of ledger entries
func (h *SaleHandler) CountSales(w http.ResponseWriter, r *http.Request) {
	count, err := h.reportService.CountSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to count sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"total_sales": count})
}

// TotalRevenue returns the summed total_price over the ledger
func (h *SaleHandler) TotalRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.reportService.TotalRevenue(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute total revenue", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute total revenue")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]float64{"total_revenue": revenue})
}
