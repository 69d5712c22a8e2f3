package services

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNoCopiesAvailable = fmt.Errorf("no copies available")
	ErrLoanAlreadyClosed = fmt.Errorf("loan is already returned")
)

const defaultLoanDays = 14

type LibraryService interface {
	AddBook(ctx context.Context, req *AddBookRequest) (*models.LibraryBook, error)
	GetBook(ctx context.Context, tenantID, id uuid.UUID) (*models.LibraryBook, error)
	UpdateBook(ctx context.Context, book *models.LibraryBook) error
	RemoveBook(ctx context.Context, tenantID, id uuid.UUID) error
	SearchBooks(ctx context.Context, tenantID uuid.UUID, query string, limit, offset int) ([]*models.LibraryBook, error)

	IssueBook(ctx context.Context, req *IssueBookRequest) (*models.BookLoan, error)
	ReturnBook(ctx context.Context, tenantID, loanID uuid.UUID) error
	ListLoans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.BookLoan, error)
	MarkOverdueLoans(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type AddBookRequest struct {
	TenantID    uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required"`
	Author      string    `json:"author" validate:"required"`
	ISBN        *string   `json:"isbn,omitempty"`
	TotalCopies int       `json:"total_copies" validate:"required,gt=0"`
}

type IssueBookRequest struct {
	TenantID  uuid.UUID `json:"-"`
	BookID    uuid.UUID `json:"book_id" validate:"required"`
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	IssuedBy  uuid.UUID `json:"-"`
	DueDate   time.Time `json:"due_date,omitempty"`
}

type libraryService struct {
	db          repositories.DB
	libraryRepo repositories.LibraryRepository
	logger      zerolog.Logger
}

func NewLibraryService(db repositories.DB, libraryRepo repositories.LibraryRepository, logger zerolog.Logger) LibraryService {
	return &libraryService{db: db, libraryRepo: libraryRepo, logger: logger}
}

func (s *libraryService) AddBook(ctx context.Context, req *AddBookRequest) (*models.LibraryBook, error) {
	book := &models.LibraryBook{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	}
	if err := s.libraryRepo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}
	return book, nil
}

func (s *libraryService) GetBook(ctx context.Context, tenantID, id uuid.UUID) (*models.LibraryBook, error) {
	return s.libraryRepo.GetBook(ctx, tenantID, id)
}

func (s *libraryService) UpdateBook(ctx context.Context, book *models.LibraryBook) error {
	return s.libraryRepo.UpdateBook(ctx, book)
}

func (s *libraryService) RemoveBook(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.libraryRepo.DeleteBook(ctx, tenantID, id)
}

func (s *libraryService) SearchBooks(ctx context.Context, tenantID uuid.UUID, query string, limit, offset int) ([]*models.LibraryBook, error) {
	return s.libraryRepo.ListBooks(ctx, tenantID, query, limit, offset)
}

// IssueBook decrements available copies and writes the loan in one
// transaction. The guarded counter update fails when no copy is free, which
// rolls back the loan.
func (s *libraryService) IssueBook(ctx context.Context, req *IssueBookRequest) (*models.BookLoan, error) {
	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = time.Now().AddDate(0, 0, defaultLoanDays)
	}

	loan := &models.BookLoan{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		BookID:    req.BookID,
		StudentID: req.StudentID,
		IssuedBy:  req.IssuedBy,
		IssuedAt:  time.Now(),
		DueDate:   dueDate,
		Status:    models.LoanIssued,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := s.libraryRepo.AdjustAvailableCopies(ctx, tx, req.TenantID, req.BookID, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve copy: %w", err)
	}
	if !ok {
		return nil, ErrNoCopiesAvailable
	}

	if err := s.libraryRepo.CreateLoan(ctx, tx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit loan: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", req.TenantID.String()).
		Str("book_id", req.BookID.String()).
		Str("student_id", req.StudentID.String()).
		Msg("book issued")

	return loan, nil
}

// ReturnBook closes the loan and increments the counter in one transaction.
// Returning an already-closed loan is rejected without touching the counter.
func (s *libraryService) ReturnBook(ctx context.Context, tenantID, loanID uuid.UUID) error {
	loan, err := s.libraryRepo.GetLoan(ctx, tenantID, loanID)
	if err != nil {
		return fmt.Errorf("failed to load loan: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	closed, err := s.libraryRepo.CloseLoan(ctx, tx, tenantID, loanID)
	if err != nil {
		return fmt.Errorf("failed to close loan: %w", err)
	}
	if !closed {
		return ErrLoanAlreadyClosed
	}

	if _, err := s.libraryRepo.AdjustAvailableCopies(ctx, tx, tenantID, loan.BookID, 1); err != nil {
		return fmt.Errorf("failed to release copy: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *libraryService) ListLoans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.BookLoan, error) {
	return s.libraryRepo.ListLoans(ctx, tenantID, studentID, status, limit, offset)
}

func (s *libraryService) MarkOverdueLoans(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.libraryRepo.MarkOverdueLoans(ctx, tenantID, time.Now())
}
