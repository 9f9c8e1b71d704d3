package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"vetclinic/internal/domain"
	"vetclinic/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity_sold must be a positive integer")
)

// SaleService is the single entry point for recording sales. All inventory
// decrements caused by selling go through RecordSale; nothing else mutates
// medicine quantity as a side effect.
type SaleService interface {
	RecordSale(ctx context.Context, medicineID uuid.UUID, quantitySold int) (*domain.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.Sale, error)
}

type saleService struct {
	medicineRepo repository.MedicineRepository
	saleRepo     repository.SaleRepository
	logger       *zap.Logger
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		medicineRepo: medicineRepo,
		saleRepo:     saleRepo,
		logger:       logger,
	}
}

// RecordSale validates the request, atomically decrements inventory, and
// appends a ledger entry. Total price is quantity times the price observed
// when the medicine was resolved; a sale never changes the price field.
//
// The decrement is a conditional compare-and-decrement, so two concurrent
// sales of the same medicine cannot both succeed on the same stock. If the
// ledger append fails after the decrement, the stock is restored before the
// error is returned, keeping inventory and ledger mutually consistent.
func (s *saleService) RecordSale(ctx context.Context, medicineID uuid.UUID, quantitySold int) (*domain.Sale, error) {
	if quantitySold <= 0 {
		return nil, ErrInvalidQuantity
	}

	medicine, err := s.medicineRepo.FindByID(ctx, medicineID)
	if err != nil {
		if err == repository.ErrMedicineNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve medicine: %w", err)
	}

	if err := s.medicineRepo.DecrementStock(ctx, medicineID, quantitySold); err != nil {
		if err == repository.ErrMedicineNotFound || err == repository.ErrInsufficientStock {
			return nil, err
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	sale := &domain.Sale{
		ID:           uuid.New(),
		MedicineID:   medicine.ID,
		MedicineName: medicine.Name,
		QuantitySold: quantitySold,
		TotalPrice:   roundToCents(float64(quantitySold) * medicine.Price),
		SaleDate:     time.Now().UTC(),
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Restore the stock so a failed append leaves no partial mutation.
		if compErr := s.medicineRepo.IncrementStock(ctx, medicineID, quantitySold); compErr != nil {
			s.logger.Error("Failed to restore stock after ledger append failure",
				zap.String("medicine_id", medicineID.String()),
				zap.Int("quantity", quantitySold),
				zap.Error(compErr),
			)
			return nil, fmt.Errorf("failed to record sale and restore stock: %w", errors.Join(err, compErr))
		}
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("medicine_id", medicine.ID.String()),
		zap.Int("quantity_sold", quantitySold),
		zap.Float64("total_price", sale.TotalPrice),
	)

	return sale, nil
}

// GetSale retrieves a single sale by ID
func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrSaleNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

// ListSales retrieves all recorded sales
func (s *saleService) ListSales(ctx context.Context) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// roundToCents keeps monetary values at two decimal places.
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
