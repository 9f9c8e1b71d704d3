package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vetclinic/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrDiagnosisNotFound = errors.New("diagnosis not found")
)

// AnimalDiagnosisRepository defines the interface for diagnosis data access
type AnimalDiagnosisRepository interface {
	Create(ctx context.Context, diagnosis *domain.AnimalDiagnosis) error
	Update(ctx context.Context, diagnosis *domain.AnimalDiagnosis) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AnimalDiagnosis, error)
	List(ctx context.Context) ([]*domain.AnimalDiagnosis, error)
}

type animalDiagnosisRepository struct {
	db *sql.DB
}

// NewAnimalDiagnosisRepository creates a new instance of AnimalDiagnosisRepository
func NewAnimalDiagnosisRepository(db *sql.DB) AnimalDiagnosisRepository {
	return &animalDiagnosisRepository{db: db}
}

// Create inserts a new diagnosis. The animal must exist; the foreign key
// rejects orphan diagnoses.
func (r *animalDiagnosisRepository) Create(ctx context.Context, diagnosis *domain.AnimalDiagnosis) error {
	query := `
		INSERT INTO animal_diagnoses (id, animal_id, diagnosis, prescribed_medicine, dosage, next_checkup, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		diagnosis.ID,
		diagnosis.AnimalID,
		diagnosis.Diagnosis,
		diagnosis.PrescribedMedicine,
		diagnosis.Dosage,
		diagnosis.NextCheckup,
		diagnosis.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAnimalNotFound
		}
		return fmt.Errorf("failed to create diagnosis: %w", err)
	}

	return nil
}

// Update updates an existing diagnosis
func (r *animalDiagnosisRepository) Update(ctx context.Context, diagnosis *domain.AnimalDiagnosis) error {
	query := `
		UPDATE animal_diagnoses
		SET diagnosis = $2, prescribed_medicine = $3, dosage = $4, next_checkup = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		diagnosis.ID,
		diagnosis.Diagnosis,
		diagnosis.PrescribedMedicine,
		diagnosis.Dosage,
		diagnosis.NextCheckup,
	)

	if err != nil {
		return fmt.Errorf("failed to update diagnosis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDiagnosisNotFound
	}

	return nil
}

// Delete removes a diagnosis
func (r *animalDiagnosisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM animal_diagnoses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete diagnosis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDiagnosisNotFound
	}

	return nil
}

// FindByID retrieves a diagnosis by ID using parameterized queries
func (r *animalDiagnosisRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AnimalDiagnosis, error) {
	query := `
		SELECT id, animal_id, diagnosis, prescribed_medicine, dosage, next_checkup, created_at
		FROM animal_diagnoses
		WHERE id = $1
	`

	diagnosis := &domain.AnimalDiagnosis{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&diagnosis.ID,
		&diagnosis.AnimalID,
		&diagnosis.Diagnosis,
		&diagnosis.PrescribedMedicine,
		&diagnosis.Dosage,
		&diagnosis.NextCheckup,
		&diagnosis.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDiagnosisNotFound
		}
		return nil, fmt.Errorf("failed to find diagnosis by ID: %w", err)
	}

	return diagnosis, nil
}

// List retrieves all diagnoses, newest first
func (r *animalDiagnosisRepository) List(ctx context.Context) ([]*domain.AnimalDiagnosis, error) {
	query := `
		SELECT id, animal_id, diagnosis, prescribed_medicine, dosage, next_checkup, created_at
		FROM animal_diagnoses
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	defer rows.Close()

	diagnoses := []*domain.AnimalDiagnosis{}
	for rows.Next() {
		diagnosis := &domain.AnimalDiagnosis{}
		err := rows.Scan(
			&diagnosis.ID,
			&diagnosis.AnimalID,
			&diagnosis.Diagnosis,
			&diagnosis.PrescribedMedicine,
			&diagnosis.Dosage,
			&diagnosis.NextCheckup,
			&diagnosis.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diagnosis: %w", err)
		}
		diagnoses = append(diagnoses, diagnosis)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diagnoses: %w", err)
	}

	return diagnoses, nil
}

// isForeignKeyViolation reports whether err is a postgres foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "SQLSTATE 23503")
}
