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
	ErrAnimalNotFound = errors.New("animal not found")
)

// AnimalRepository defines the interface for patient record access
type AnimalRepository interface {
	Create(ctx context.Context, animal *domain.Animal) error
	Update(ctx context.Context, animal *domain.Animal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Animal, error)
	List(ctx context.Context) ([]*domain.Animal, error)
	Count(ctx context.Context) (int, error)
}

type animalRepository struct {
	db *sql.DB
}

// NewAnimalRepository creates a new instance of AnimalRepository
func NewAnimalRepository(db *sql.DB) AnimalRepository {
	return &animalRepository{db: db}
}

// Create inserts a new animal into the database using parameterized queries
func (r *animalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	query := `
		INSERT INTO animals (id, owner_name, owner_contact, species, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		animal.ID,
		animal.OwnerName,
		animal.OwnerContact,
		animal.Species,
		animal.Status,
		animal.CreatedAt,
		animal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}

	return nil
}

// Update updates an existing animal record
func (r *animalRepository) Update(ctx context.Context, animal *domain.Animal) error {
	query := `
		UPDATE animals
		SET owner_name = $2, owner_contact = $3, species = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		animal.ID,
		animal.OwnerName,
		animal.OwnerContact,
		animal.Species,
		animal.Status,
		animal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAnimalNotFound
	}

	return nil
}

// Delete removes an animal. Its diagnoses are removed by the cascading
// foreign key.
func (r *animalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAnimalNotFound
	}

	return nil
}

// FindByID retrieves an animal by ID using parameterized queries
func (r *animalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Animal, error) {
	query := `
		SELECT id, owner_name, owner_contact, species, status, created_at, updated_at
		FROM animals
		WHERE id = $1
	`

	animal := &domain.Animal{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&animal.ID,
		&animal.OwnerName,
		&animal.OwnerContact,
		&animal.Species,
		&animal.Status,
		&animal.CreatedAt,
		&animal.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to find animal by ID: %w", err)
	}

	return animal, nil
}

// List retrieves all animals, newest admissions first
func (r *animalRepository) List(ctx context.Context) ([]*domain.Animal, error) {
	query := `
		SELECT id, owner_name, owner_contact, species, status, created_at, updated_at
		FROM animals
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	defer rows.Close()

	animals := []*domain.Animal{}
	for rows.Next() {
		animal := &domain.Animal{}
		err := rows.Scan(
			&animal.ID,
			&animal.OwnerName,
			&animal.OwnerContact,
			&animal.Species,
			&animal.Status,
			&animal.CreatedAt,
			&animal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", err)
		}
		animals = append(animals, animal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating animals: %w", err)
	}

	return animals, nil
}

// Count returns the number of patients
func (r *animalRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count animals: %w", err)
	}

	return count, nil
}
