package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnimalStatus tracks whether a patient is currently admitted.
type AnimalStatus string

const (
	StatusAdmitted   AnimalStatus = "admitted"
	StatusDischarged AnimalStatus = "discharged"
)

// Valid reports whether the status is one of the known values.
func (s AnimalStatus) Valid() bool {
	return s == StatusAdmitted || s == StatusDischarged
}

// Animal represents a patient of the clinic.
type Animal struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	OwnerName    string       `json:"owner_name" db:"owner_name"`
	OwnerContact string       `json:"owner_contact" db:"owner_contact"`
	Species      string       `json:"species" db:"species"`
	Status       AnimalStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// AnimalDiagnosis records a diagnosis made for a patient. Deleting the
// animal cascades to its diagnoses.
type AnimalDiagnosis struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	AnimalID           uuid.UUID  `json:"animal" db:"animal_id"`
	Diagnosis          string     `json:"diagnosis" db:"diagnosis"`
	PrescribedMedicine string     `json:"prescribed_medicine" db:"prescribed_medicine"`
	Dosage             string     `json:"dosage" db:"dosage"`
	NextCheckup        *time.Time `json:"next_checkup,omitempty" db:"next_checkup"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OwnerName    string    `json:"owner_name" db:"owner_name"`
	OwnerContact string    `json:"owner_contact" db:"owner_contact"`
	Date         time.Time `json:"date" db:"date"`
	Time         string    `json:"time" db:"time"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Contact is a message left through the public contact form.
type Contact struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
