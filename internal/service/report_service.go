package service

import (
	"context"
	"fmt"

	"vetclinic/internal/domain"
	"vetclinic/internal/repository"
)

// LowStockThreshold is the quantity below which a medicine is flagged as
// running out.
const LowStockThreshold = 5

// ReportService computes the dashboard aggregates. Every value is a fold
// over current state, recomputed per request; nothing is cached.
type ReportService interface {
	TotalRevenue(ctx context.Context) (float64, error)
	TotalStockValue(ctx context.Context) (float64, error)
	LowStock(ctx context.Context) ([]*domain.Medicine, error)
	CountMedicines(ctx context.Context) (int, error)
	CountSales(ctx context.Context) (int, error)
	CountAnimals(ctx context.Context) (int, error)
	CountAppointments(ctx context.Context) (int, error)
	CountContacts(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
}

type reportService struct {
	medicineRepo    repository.MedicineRepository
	saleRepo        repository.SaleRepository
	animalRepo      repository.AnimalRepository
	appointmentRepo repository.AppointmentRepository
	contactRepo     repository.ContactRepository
	userRepo        repository.UserRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
	animalRepo repository.AnimalRepository,
	appointmentRepo repository.AppointmentRepository,
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
) ReportService {
	return &reportService{
		medicineRepo:    medicineRepo,
		saleRepo:        saleRepo,
		animalRepo:      animalRepo,
		appointmentRepo: appointmentRepo,
		contactRepo:     contactRepo,
		userRepo:        userRepo,
	}
}

// TotalRevenue returns the sum of total_price across all recorded sales
func (s *reportService) TotalRevenue(ctx context.Context) (float64, error) {
	total, err := s.saleRepo.TotalRevenue(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return total, nil
}

// TotalStockValue returns the sum of quantity * price across the inventory
func (s *reportService) TotalStockValue(ctx context.Context) (float64, error) {
	total, err := s.medicineRepo.TotalStockValue(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute stock value: %w", err)
	}
	return total, nil
}

// LowStock returns medicines with quantity below LowStockThreshold
func (s *reportService) LowStock(ctx context.Context) ([]*domain.Medicine, error) {
	medicines, err := s.medicineRepo.ListBelowQuantity(ctx, LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock medicines: %w", err)
	}
	return medicines, nil
}

func (s *reportService) CountMedicines(ctx context.Context) (int, error) {
	return s.medicineRepo.Count(ctx)
}

func (s *reportService) CountSales(ctx context.Context) (int, error) {
	return s.saleRepo.Count(ctx)
}

func (s *reportService) CountAnimals(ctx context.Context) (int, error) {
	return s.animalRepo.Count(ctx)
}

func (s *reportService) CountAppointments(ctx context.Context) (int, error) {
	return s.appointmentRepo.Count(ctx)
}

func (s *reportService) CountContacts(ctx context.Context) (int, error) {
	return s.contactRepo.Count(ctx)
}

func (s *reportService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}
