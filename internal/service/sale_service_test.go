package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vetclinic/internal/domain"
	"vetclinic/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockMedicineRepository struct {
	mu        sync.Mutex
	medicines map[uuid.UUID]*domain.Medicine
}

func newMockMedicineRepository() *mockMedicineRepository {
	return &mockMedicineRepository{
		medicines: make(map[uuid.UUID]*domain.Medicine),
	}
}

func (m *mockMedicineRepository) Create(ctx context.Context, medicine *domain.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.medicines {
		if existing.Name == medicine.Name {
			return repository.ErrMedicineAlreadyExists
		}
	}
	m.medicines[medicine.ID] = medicine
	return nil
}

func (m *mockMedicineRepository) Update(ctx context.Context, medicine *domain.Medicine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.medicines[medicine.ID]; !exists {
		return repository.ErrMedicineNotFound
	}
	m.medicines[medicine.ID] = medicine
	return nil
}

func (m *mockMedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.medicines[id]; !exists {
		return repository.ErrMedicineNotFound
	}
	delete(m.medicines, id)
	return nil
}

func (m *mockMedicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	medicine, exists := m.medicines[id]
	if !exists {
		return nil, repository.ErrMedicineNotFound
	}
	copy := *medicine
	return &copy, nil
}

func (m *mockMedicineRepository) List(ctx context.Context) ([]*domain.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	medicines := make([]*domain.Medicine, 0, len(m.medicines))
	for _, medicine := range m.medicines {
		copy := *medicine
		medicines = append(medicines, &copy)
	}
	return medicines, nil
}

func (m *mockMedicineRepository) ListBelowQuantity(ctx context.Context, threshold int) ([]*domain.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	medicines := []*domain.Medicine{}
	for _, medicine := range m.medicines {
		if medicine.Quantity < threshold {
			copy := *medicine
			medicines = append(medicines, &copy)
		}
	}
	return medicines, nil
}

// DecrementStock mirrors the conditional UPDATE: the check and the decrement
// happen under one lock, so concurrent callers cannot both spend the same
// stock.
func (m *mockMedicineRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	medicine, exists := m.medicines[id]
	if !exists {
		return repository.ErrMedicineNotFound
	}
	if medicine.Quantity < amount {
		return repository.ErrInsufficientStock
	}
	medicine.Quantity -= amount
	return nil
}

func (m *mockMedicineRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	medicine, exists := m.medicines[id]
	if !exists {
		return repository.ErrMedicineNotFound
	}
	medicine.Quantity += amount
	return nil
}

func (m *mockMedicineRepository) TotalStockValue(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, medicine := range m.medicines {
		total += float64(medicine.Quantity) * medicine.Price
	}
	return total, nil
}

func (m *mockMedicineRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.medicines), nil
}

func (m *mockMedicineRepository) quantityOf(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.medicines[id].Quantity
}

type mockSaleRepository struct {
	mu         sync.Mutex
	sales      map[uuid.UUID]*domain.Sale
	failCreate bool
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{
		sales: make(map[uuid.UUID]*domain.Sale),
	}
}

func (m *mockSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errors.New("ledger unavailable")
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sale, exists := m.sales[id]
	if !exists {
		return nil, repository.ErrSaleNotFound
	}
	return sale, nil
}

func (m *mockSaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sales := make([]*domain.Sale, 0, len(m.sales))
	for _, sale := range m.sales {
		sales = append(sales, sale)
	}
	return sales, nil
}

func (m *mockSaleRepository) TotalRevenue(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, sale := range m.sales {
		total += sale.TotalPrice
	}
	return total, nil
}

func (m *mockSaleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sales), nil
}

func seedMedicine(t *testing.T, repo *mockMedicineRepository, quantity int, price float64) *domain.Medicine {
	t.Helper()
	now := time.Now().UTC()
	medicine := &domain.Medicine{
		ID:         uuid.New(),
		Name:       "Amoxicillin " + uuid.NewString(),
		Category:   domain.CategoryAntibiotic,
		Quantity:   quantity,
		Price:      price,
		ExpiryDate: now.AddDate(1, 0, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(context.Background(), medicine); err != nil {
		t.Fatalf("failed to seed medicine: %v", err)
	}
	return medicine
}

func TestRecordSale_DecrementsStockAndComputesTotal(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
	ctx := context.Background()

	medicine := seedMedicine(t, medicineRepo, 10, 2.00)

	sale, err := service.RecordSale(ctx, medicine.ID, 3)
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	if sale.TotalPrice != 6.00 {
		t.Errorf("Expected total price 6.00, got %v", sale.TotalPrice)
	}
	if sale.QuantitySold != 3 {
		t.Errorf("Expected quantity sold 3, got %d", sale.QuantitySold)
	}
	if sale.MedicineName != medicine.Name {
		t.Errorf("Expected medicine name %q, got %q", medicine.Name, sale.MedicineName)
	}

	if got := medicineRepo.quantityOf(medicine.ID); got != 7 {
		t.Errorf("Expected remaining stock 7, got %d", got)
	}

	stored, err := saleRepo.FindByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Sale not found in ledger: %v", err)
	}
	if stored.TotalPrice != sale.TotalPrice {
		t.Errorf("Ledger entry total price mismatch: %v != %v", stored.TotalPrice, sale.TotalPrice)
	}
}

func TestRecordSale_InsufficientStockLeavesStateUntouched(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
	ctx := context.Background()

	medicine := seedMedicine(t, medicineRepo, 2, 5.00)

	_, err := service.RecordSale(ctx, medicine.ID, 5)
	if err != repository.ErrInsufficientStock {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	if got := medicineRepo.quantityOf(medicine.ID); got != 2 {
		t.Errorf("Stock changed on rejected sale: expected 2, got %d", got)
	}

	count, _ := saleRepo.Count(ctx)
	if count != 0 {
		t.Errorf("Ledger gained an entry on rejected sale: %d", count)
	}
}

func TestRecordSale_UnknownMedicine(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())

	_, err := service.RecordSale(context.Background(), uuid.New(), 1)
	if err != repository.ErrMedicineNotFound {
		t.Fatalf("Expected ErrMedicineNotFound, got %v", err)
	}
}

func TestRecordSale_RejectsNonPositiveQuantity(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
	ctx := context.Background()

	medicine := seedMedicine(t, medicineRepo, 10, 1.50)

	for _, quantity := range []int{0, -3} {
		_, err := service.RecordSale(ctx, medicine.ID, quantity)
		if err != ErrInvalidQuantity {
			t.Errorf("Quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
		}
	}

	if got := medicineRepo.quantityOf(medicine.ID); got != 10 {
		t.Errorf("Stock changed on invalid quantity: expected 10, got %d", got)
	}
}

func TestRecordSale_RestoresStockWhenLedgerAppendFails(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	saleRepo.failCreate = true
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
	ctx := context.Background()

	medicine := seedMedicine(t, medicineRepo, 8, 3.00)

	_, err := service.RecordSale(ctx, medicine.ID, 4)
	if err == nil {
		t.Fatal("Expected error when ledger append fails")
	}

	if got := medicineRepo.quantityOf(medicine.ID); got != 8 {
		t.Errorf("Stock not restored after ledger failure: expected 8, got %d", got)
	}

	count, _ := saleRepo.Count(ctx)
	if count != 0 {
		t.Errorf("Ledger gained an entry despite failure: %d", count)
	}
}

func TestRecordSale_ConcurrentSalesNeverOversell(t *testing.T) {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
	ctx := context.Background()

	// Stock covers exactly one of the two requests.
	medicine := seedMedicine(t, medicineRepo, 5, 1.00)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = service.RecordSale(ctx, medicine.ID, 5)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch err {
		case nil:
			successes++
		case repository.ErrInsufficientStock:
		default:
			t.Errorf("Unexpected error from concurrent sale: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("Expected exactly one concurrent sale to succeed, got %d", successes)
	}

	if got := medicineRepo.quantityOf(medicine.ID); got != 0 {
		t.Errorf("Expected stock 0 after concurrent sales, got %d", got)
	}
}

func TestProperty_SaleNeverOverdrawsStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stock stays non-negative and decrements match sold quantities", prop.ForAll(
		func(initialStock int, requested int, priceCents int) bool {
			medicineRepo := newMockMedicineRepository()
			saleRepo := newMockSaleRepository()
			service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
			ctx := context.Background()

			price := float64(priceCents) / 100
			medicine := seedMedicine(t, medicineRepo, initialStock, price)

			sale, err := service.RecordSale(ctx, medicine.ID, requested)
			remaining := medicineRepo.quantityOf(medicine.ID)

			if remaining < 0 {
				t.Logf("FAIL: stock went negative: %d", remaining)
				return false
			}

			if requested <= initialStock {
				if err != nil {
					t.Logf("FAIL: expected sale of %d from stock %d to succeed: %v", requested, initialStock, err)
					return false
				}
				if remaining != initialStock-requested {
					t.Logf("FAIL: expected remaining %d, got %d", initialStock-requested, remaining)
					return false
				}
				expected := roundToCents(float64(requested) * price)
				if sale.TotalPrice != expected {
					t.Logf("FAIL: expected total %v, got %v", expected, sale.TotalPrice)
					return false
				}
			} else {
				if err != repository.ErrInsufficientStock {
					t.Logf("FAIL: expected ErrInsufficientStock for %d from stock %d, got %v", requested, initialStock, err)
					return false
				}
				if remaining != initialStock {
					t.Logf("FAIL: rejected sale changed stock from %d to %d", initialStock, remaining)
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 1000),
		gen.IntRange(1, 1000),
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TotalPriceIsQuantityTimesUnitPrice(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total price equals quantity times price rounded to cents", prop.ForAll(
		func(quantity int, priceCents int) bool {
			medicineRepo := newMockMedicineRepository()
			saleRepo := newMockSaleRepository()
			service := NewSaleService(medicineRepo, saleRepo, zap.NewNop())
			ctx := context.Background()

			price := float64(priceCents) / 100
			medicine := seedMedicine(t, medicineRepo, quantity, price)

			sale, err := service.RecordSale(ctx, medicine.ID, quantity)
			if err != nil {
				t.Logf("FAIL: RecordSale failed: %v", err)
				return false
			}

			expected := roundToCents(float64(quantity) * price)
			if sale.TotalPrice != expected {
				t.Logf("FAIL: expected total %v, got %v", expected, sale.TotalPrice)
				return false
			}

			return true
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
