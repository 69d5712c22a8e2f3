package models

import (
	"time"

	"github.com/google/uuid"
)

// LibraryBook tracks copy counts; AvailableCopies is adjusted inside the
// same transaction as loan rows.
type LibraryBook struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            *string   `json:"isbn,omitempty" db:"isbn"`
	TotalCopies     int       `json:"total_copies" db:"total_copies"`
	AvailableCopies int       `json:"available_copies" db:"available_copies"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type BookLoan struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	BookID     uuid.UUID  `json:"book_id" db:"book_id"`
	StudentID  uuid.UUID  `json:"student_id" db:"student_id"`
	IssuedBy   uuid.UUID  `json:"issued_by" db:"issued_by"`
	IssuedAt   time.Time  `json:"issued_at" db:"issued_at"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty" db:"returned_at"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

const (
	LoanIssued   = "ISSUED"
	LoanReturned = "RETURNED"
	LoanOverdue  = "OVERDUE"
)
