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
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// AppointmentRepository defines the interface for appointment data access
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	Update(ctx context.Context, appointment *domain.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	Count(ctx context.Context) (int, error)
}

type appointmentRepository struct {
	db *sql.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository
func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create inserts a new appointment using parameterized queries
func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	query := `
		INSERT INTO appointments (id, owner_name, owner_contact, date, time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		appointment.ID,
		appointment.OwnerName,
		appointment.OwnerContact,
		appointment.Date,
		appointment.Time,
		appointment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// Update updates an existing appointment
func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET owner_name = $2, owner_contact = $3, date = $4, time = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		appointment.ID,
		appointment.OwnerName,
		appointment.OwnerContact,
		appointment.Date,
		appointment.Time,
	)

	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Delete removes an appointment
func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// FindByID retrieves an appointment by ID using parameterized queries
func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	query := `
		SELECT id, owner_name, owner_contact, date, time, created_at
		FROM appointments
		WHERE id = $1
	`

	appointment := &domain.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.OwnerName,
		&appointment.OwnerContact,
		&appointment.Date,
		&appointment.Time,
		&appointment.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to find appointment by ID: %w", err)
	}

	return appointment, nil
}

// List retrieves all appointments ordered by date and time
func (r *appointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	query := `
		SELECT id, owner_name, owner_contact, date, time, created_at
		FROM appointments
		ORDER BY date ASC, time ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appointments := []*domain.Appointment{}
	for rows.Next() {
		appointment := &domain.Appointment{}
		err := rows.Scan(
			&appointment.ID,
			&appointment.OwnerName,
			&appointment.OwnerContact,
			&appointment.Date,
			&appointment.Time,
			&appointment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// Count returns the number of appointments
func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	return count, nil
}
