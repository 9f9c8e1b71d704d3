package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vetclinic/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrMedicineNotFound      = errors.New("medicine not found")
	ErrMedicineAlreadyExists = errors.New("medicine with this name already exists")
	ErrInsufficientStock     = errors.New("not enough stock available")
)

// MedicineRepository defines the interface for medicine inventory access.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *domain.Medicine) error
	Update(ctx context.Context, medicine *domain.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	List(ctx context.Context) ([]*domain.Medicine, error)
	ListBelowQuantity(ctx context.Context, threshold int) ([]*domain.Medicine, error)
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) error
	TotalStockValue(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)
}

type medicineRepository struct {
	db *sql.DB
}

// NewMedicineRepository creates a new instance of MedicineRepository
func NewMedicineRepository(db *sql.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Create inserts a new medicine into the database using parameterized queries
func (r *medicineRepository) Create(ctx context.Context, medicine *domain.Medicine) error {
	query := `
		INSERT INTO medicines (id, name, category, quantity, price, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		medicine.ID,
		medicine.Name,
		medicine.Category,
		medicine.Quantity,
		medicine.Price,
		medicine.ExpiryDate,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "medicines_name_key") {
			return ErrMedicineAlreadyExists
		}
		return fmt.Errorf("failed to create medicine: %w", err)
	}

	return nil
}

// Update updates name, category, quantity, price and expiry of an existing
// medicine. Quantity updates here are inventory management; sales go through
// DecrementStock.
func (r *medicineRepository) Update(ctx context.Context, medicine *domain.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, category = $3, quantity = $4, price = $5, expiry_date = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		medicine.ID,
		medicine.Name,
		medicine.Category,
		medicine.Quantity,
		medicine.Price,
		medicine.ExpiryDate,
		medicine.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "medicines_name_key") {
			return ErrMedicineAlreadyExists
		}
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMedicineNotFound
	}

	return nil
}

// Delete removes a medicine. Its sales are deleted by the cascading foreign
// key on the sales table.
func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM medicines WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMedicineNotFound
	}

	return nil
}

// FindByID retrieves a medicine by ID using parameterized queries
func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	query := `
		SELECT id, name, category, quantity, price, expiry_date, created_at, updated_at
		FROM medicines
		WHERE id = $1
	`

	medicine := &domain.Medicine{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&medicine.ID,
		&medicine.Name,
		&medicine.Category,
		&medicine.Quantity,
		&medicine.Price,
		&medicine.ExpiryDate,
		&medicine.CreatedAt,
		&medicine.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to find medicine by ID: %w", err)
	}

	return medicine, nil
}

// List retrieves all medicines ordered by name
func (r *medicineRepository) List(ctx context.Context) ([]*domain.Medicine, error) {
	query := `
		SELECT id, name, category, quantity, price, expiry_date, created_at, updated_at
		FROM medicines
		ORDER BY name ASC
	`

	return r.queryMedicines(ctx, query)
}

// ListBelowQuantity retrieves medicines with quantity strictly below the
// given threshold, ordered by quantity so the scarcest appear first.
func (r *medicineRepository) ListBelowQuantity(ctx context.Context, threshold int) ([]*domain.Medicine, error) {
	query := `
		SELECT id, name, category, quantity, price, expiry_date, created_at, updated_at
		FROM medicines
		WHERE quantity < $1
		ORDER BY quantity ASC, name ASC
	`

	return r.queryMedicines(ctx, query, threshold)
}

// DecrementStock atomically reduces quantity by amount, but only when the
// current quantity covers it. The conditional UPDATE serializes concurrent
// sales of the same medicine without explicit row locks.
func (r *medicineRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	query := `
		UPDATE medicines
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`

	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the medicine is gone or the stock is short.
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM medicines WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check medicine existence: %w", err)
		}
		if !exists {
			return ErrMedicineNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

// IncrementStock adds amount back to quantity. Used to compensate a
// decrement when the ledger append fails.
func (r *medicineRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	query := `
		UPDATE medicines
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMedicineNotFound
	}

	return nil
}

// TotalStockValue returns the sum of quantity * price across all medicines
func (r *medicineRepository) TotalStockValue(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(quantity * price), 0) FROM medicines`

	var total float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute total stock value: %w", err)
	}

	return total, nil
}

// Count returns the number of medicines
func (r *medicineRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	return count, nil
}

func (r *medicineRepository) queryMedicines(ctx context.Context, query string, args ...interface{}) ([]*domain.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	defer rows.Close()

	medicines := []*domain.Medicine{}
	for rows.Next() {
		medicine := &domain.Medicine{}
		err := rows.Scan(
			&medicine.ID,
			&medicine.Name,
			&medicine.Category,
			&medicine.Quantity,
			&medicine.Price,
			&medicine.ExpiryDate,
			&medicine.CreatedAt,
			&medicine.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, medicine)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medicines: %w", err)
	}

	return medicines, nil
}
