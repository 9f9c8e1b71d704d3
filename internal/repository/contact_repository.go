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
	ErrContactNotFound = errors.New("contact not found")
)

// ContactRepository defines the interface for contact message access
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context) ([]*domain.Contact, error)
	Count(ctx context.Context) (int, error)
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a new contact message using parameterized queries
func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, subject, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		contact.ID,
		contact.Subject,
		contact.Email,
		contact.Message,
		contact.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// Update modifies an existing contact message
func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	query := `
		UPDATE contacts
		SET subject = $2, email = $3, message = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		contact.ID,
		contact.Subject,
		contact.Email,
		contact.Message,
	)

	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// Delete removes a contact message
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// FindByID retrieves a contact message by ID using parameterized queries
func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, subject, email, message, created_at
		FROM contacts
		WHERE id = $1
	`

	contact := &domain.Contact{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contact.ID,
		&contact.Subject,
		&contact.Email,
		&contact.Message,
		&contact.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}

	return contact, nil
}

// List retrieves all contact messages, newest first
func (r *contactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	query := `
		SELECT id, subject, email, message, created_at
		FROM contacts
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		contact := &domain.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.Subject,
			&contact.Email,
			&contact.Message,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// Count returns the number of contact messages
func (r *contactRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	return count, nil
}
