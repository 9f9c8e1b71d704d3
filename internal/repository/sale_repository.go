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
	ErrSaleNotFound = errors.New("sale not found")
)

// SaleRepository defines the interface for the append-only sales ledger.
// Sales are never updated or deleted once recorded; the only way ledger rows
// disappear is the cascading delete of their medicine.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	List(ctx context.Context) ([]*domain.Sale, error)
	TotalRevenue(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Create appends a sale to the ledger using parameterized queries
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, medicine_id, quantity_sold, total_price, sale_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sale.ID,
		sale.MedicineID,
		sale.QuantitySold,
		sale.TotalPrice,
		sale.SaleDate,
	)

	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// FindByID retrieves a sale by ID, joined with its medicine's name
func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT s.id, s.medicine_id, m.name, s.quantity_sold, s.total_price, s.sale_date
		FROM sales s
		JOIN medicines m ON m.id = s.medicine_id
		WHERE s.id = $1
	`

	sale := &domain.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.MedicineID,
		&sale.MedicineName,
		&sale.QuantitySold,
		&sale.TotalPrice,
		&sale.SaleDate,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}

	return sale, nil
}

// List retrieves all sales, most recent first
func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT s.id, s.medicine_id, m.name, s.quantity_sold, s.total_price, s.sale_date
		FROM sales s
		JOIN medicines m ON m.id = s.medicine_id
		ORDER BY s.sale_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		err := rows.Scan(
			&sale.ID,
			&sale.MedicineID,
			&sale.MedicineName,
			&sale.QuantitySold,
			&sale.TotalPrice,
			&sale.SaleDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}

// TotalRevenue returns the sum of total_price over all sales, 0 when empty
func (r *saleRepository) TotalRevenue(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(total_price), 0) FROM sales`

	var total float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute total revenue: %w", err)
	}

	return total, nil
}

// Count returns the number of recorded sales
func (r *saleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}

	return count, nil
}
