package domain

import (
	"time"

	"github.com/google/uuid"
)

// MedicineCategory classifies a medicine in the clinic's inventory.
type MedicineCategory string

const (
	CategoryAntibiotic MedicineCategory = "antibiotic"
	CategoryPainkiller MedicineCategory = "painkiller"
	CategorySupplement MedicineCategory = "supplement"
	CategoryOther      MedicineCategory = "other"
)

// Valid reports whether the category is one of the known values.
func (c MedicineCategory) Valid() bool {
	switch c {
	case CategoryAntibiotic, CategoryPainkiller, CategorySupplement, CategoryOther:
		return true
	}
	return false
}

// Medicine represents a stocked medicine. Quantity is never negative; it is
// only reduced through the sale workflow's atomic decrement.
type Medicine struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Category   MedicineCategory `json:"category" db:"category"`
	Quantity   int              `json:"quantity" db:"quantity"`
	Price      float64          `json:"price" db:"price"`
	ExpiryDate time.Time        `json:"expiry_date" db:"expiry_date"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// StockValue returns quantity x unit price for this medicine.
func (m *Medicine) StockValue() float64 {
	return float64(m.Quantity) * m.Price
}

// Sale is an immutable ledger entry. TotalPrice captures the medicine price
// at the moment of sale and is never re-derived.
type Sale struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MedicineID   uuid.UUID `json:"medicine" db:"medicine_id"`
	MedicineName string    `json:"medicine_name" db:"medicine_name"`
	QuantitySold int       `json:"quantity_sold" db:"quantity_sold"`
	TotalPrice   float64   `json:"total_price" db:"total_price"`
	SaleDate     time.Time `json:"sale_date" db:"sale_date"`
}
