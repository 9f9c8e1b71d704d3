package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vetclinic/internal/domain"
	"vetclinic/internal/repository"
	"vetclinic/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Count-only mocks for wiring the report service in handler tests.
type mockAnimalRepository struct{ count int }

func (m *mockAnimalRepository) Create(ctx context.Context, animal *domain.Animal) error { return nil }
func (m *mockAnimalRepository) Update(ctx context.Context, animal *domain.Animal) error { return nil }
func (m *mockAnimalRepository) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (m *mockAnimalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Animal, error) {
	return nil, repository.ErrAnimalNotFound
}
func (m *mockAnimalRepository) List(ctx context.Context) ([]*domain.Animal, error) { return nil, nil }
func (m *mockAnimalRepository) Count(ctx context.Context) (int, error)             { return m.count, nil }

type mockAppointmentRepository struct{ count int }

func (m *mockAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	return nil
}
func (m *mockAppointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	return nil
}
func (m *mockAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *mockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	return nil, repository.ErrAppointmentNotFound
}
func (m *mockAppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	return nil, nil
}
func (m *mockAppointmentRepository) Count(ctx context.Context) (int, error) { return m.count, nil }

type mockContactRepository struct{ count int }

func (m *mockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return nil
}
func (m *mockContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return nil
}
func (m *mockContactRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *mockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return nil, repository.ErrContactNotFound
}
func (m *mockContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	return nil, nil
}
func (m *mockContactRepository) Count(ctx context.Context) (int, error) { return m.count, nil }

type mockUserCountRepository struct{ count int }

func (m *mockUserCountRepository) Create(ctx context.Context, user *domain.User) error { return nil }
func (m *mockUserCountRepository) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (m *mockUserCountRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}
func (m *mockUserCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, repository.ErrUserNotFound
}
func (m *mockUserCountRepository) List(ctx context.Context) ([]*domain.User, error) {
	return nil, nil
}
func (m *mockUserCountRepository) Count(ctx context.Context) (int, error) { return m.count, nil }

type medicineHandlerFixture struct {
	router       chi.Router
	medicineRepo *mockMedicineRepository
}

func newMedicineHandlerFixture() *medicineHandlerFixture {
	medicineRepo := newMockMedicineRepository()
	saleRepo := newMockSaleRepository()
	logger := zap.NewNop()

	reportService := service.NewReportService(
		medicineRepo, saleRepo,
		&mockAnimalRepository{}, &mockAppointmentRepository{},
		&mockContactRepository{}, &mockUserCountRepository{},
	)

	router := chi.NewRouter()
	handler := NewMedicineHandler(medicineRepo, reportService, logger)
	handler.RegisterRoutes(router)

	return &medicineHandlerFixture{
		router:       router,
		medicineRepo: medicineRepo,
	}
}

func TestCreateMedicineEndpoint(t *testing.T) {
	fixture := newMedicineHandlerFixture()

	reqBody := MedicineRequest{
		Name:       "Amoxicillin 250mg",
		Category:   "antibiotic",
		Quantity:   12,
		Price:      4.50,
		ExpiryDate: time.Now().UTC().AddDate(1, 0, 0),
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/medicine", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}

	// stock_value is derived from quantity and price on every read
	if response["stock_value"] != 54.00 {
		t.Errorf("Expected stock_value 54.00, got %v", response["stock_value"])
	}
}

func TestCreateMedicineEndpoint_RejectsUnknownCategory(t *testing.T) {
	fixture := newMedicineHandlerFixture()

	reqBody := MedicineRequest{
		Name:       "Mystery Tonic",
		Category:   "homeopathy",
		Quantity:   5,
		Price:      1.00,
		ExpiryDate: time.Now().UTC().AddDate(1, 0, 0),
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/medicine", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown category, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Could not decode error response: %v", err)
	}
	if response["error"] == "" {
		t.Error("Expected non-empty error message")
	}
}

func TestMedicineReportEndpoints(t *testing.T) {
	fixture := newMedicineHandlerFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	seed := func(name string, quantity int, price float64) {
		err := fixture.medicineRepo.Create(ctx, &domain.Medicine{
			ID:         uuid.New(),
			Name:       name,
			Category:   domain.CategorySupplement,
			Quantity:   quantity,
			Price:      price,
			ExpiryDate: now.AddDate(1, 0, 0),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			t.Fatalf("failed to seed medicine: %v", err)
		}
	}

	seed("Vitamin B12", 2, 3.00)
	seed("Taurine", 40, 1.50)

	// Low stock: only the medicine below the threshold
	req := httptest.NewRequest(http.MethodGet, "/medicine/low-stock", nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from low-stock, got %d", w.Code)
	}
	var lowStock []MedicineResponse
	if err := json.NewDecoder(w.Body).Decode(&lowStock); err != nil {
		t.Fatalf("Could not decode low-stock response: %v", err)
	}
	if len(lowStock) != 1 || lowStock[0].Name != "Vitamin B12" {
		t.Errorf("Expected only Vitamin B12 in low stock, got %+v", lowStock)
	}

	// Total stock value: 2 x 3.00 + 40 x 1.50
	req = httptest.NewRequest(http.MethodGet, "/medicine/total-stock-value", nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from total-stock-value, got %d", w.Code)
	}
	var stockValue map[string]float64
	if err := json.NewDecoder(w.Body).Decode(&stockValue); err != nil {
		t.Fatalf("Could not decode stock value response: %v", err)
	}
	if stockValue["total_stock_value"] != 66.00 {
		t.Errorf("Expected total_stock_value 66.00, got %v", stockValue["total_stock_value"])
	}

	// Count
	req = httptest.NewRequest(http.MethodGet, "/medicine/count", nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from count, got %d", w.Code)
	}
	var count map[string]int
	if err := json.NewDecoder(w.Body).Decode(&count); err != nil {
		t.Fatalf("Could not decode count response: %v", err)
	}
	if count["total_medicines"] != 2 {
		t.Errorf("Expected total_medicines 2, got %d", count["total_medicines"])
	}
}

func TestMedicineDetailEndpoints(t *testing.T) {
	fixture := newMedicineHandlerFixture()
	ctx := context.Background()
	now := time.Now().UTC()

	medicine := &domain.Medicine{
		ID:         uuid.New(),
		Name:       "Carprofen",
		Category:   domain.CategoryPainkiller,
		Quantity:   8,
		Price:      2.25,
		ExpiryDate: now.AddDate(0, 6, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := fixture.medicineRepo.Create(ctx, medicine); err != nil {
		t.Fatalf("failed to seed medicine: %v", err)
	}

	// Get by ID
	req := httptest.NewRequest(http.MethodGet, "/medicine/"+medicine.ID.String(), nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var fetched MedicineResponse
	if err := json.NewDecoder(w.Body).Decode(&fetched); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if fetched.StockValue != 18.00 {
		t.Errorf("Expected stock_value 18.00, got %v", fetched.StockValue)
	}

	// Unknown ID
	req = httptest.NewRequest(http.MethodGet, "/medicine/"+uuid.NewString(), nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown medicine, got %d", w.Code)
	}

	// Malformed ID
	req = httptest.NewRequest(http.MethodGet, "/medicine/not-a-uuid", nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed ID, got %d", w.Code)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/medicine/"+medicine.ID.String(), nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 on delete, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/medicine/"+medicine.ID.String(), nil)
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}
