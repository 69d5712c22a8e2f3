package repositories

import (
	"context"
	"time"

	"scholaris/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LibraryRepository interface {
	CreateBook(ctx context.Context, book *models.LibraryBook) error
	GetBook(ctx context.Context, tenantID, id uuid.UUID) (*models.LibraryBook, error)
	UpdateBook(ctx context.Context, book *models.LibraryBook) error
	DeleteBook(ctx context.Context, tenantID, id uuid.UUID) error
	ListBooks(ctx context.Context, tenantID uuid.UUID, search string, limit, offset int) ([]*models.LibraryBook, error)

	// Loan methods accept an Executor so issue and return run inside the
	// same transaction as the copy-count adjustment.
	CreateLoan(ctx context.Context, exec Executor, loan *models.BookLoan) error
	GetLoan(ctx context.Context, tenantID, id uuid.UUID) (*models.BookLoan, error)
	CloseLoan(ctx context.Context, exec Executor, tenantID, loanID uuid.UUID) (bool, error)
	AdjustAvailableCopies(ctx context.Context, exec Executor, tenantID, bookID uuid.UUID, delta int) (bool, error)
	ListLoans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.BookLoan, error)
	MarkOverdueLoans(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error)
}

type libraryRepo struct {
	db DB
}

func NewLibraryRepo(db DB) LibraryRepository {
	return &libraryRepo{db: db}
}

func (r *libraryRepo) CreateBook(ctx context.Context, book *models.LibraryBook) error {
	query := `
		INSERT INTO library_books (id, tenant_id, title, author, isbn, total_copies, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, book.ID, book.TenantID, book.Title, book.Author, book.ISBN, book.TotalCopies, book.AvailableCopies)
	return err
}

func (r *libraryRepo) GetBook(ctx context.Context, tenantID, id uuid.UUID) (*models.LibraryBook, error) {
	query := `
		SELECT id, tenant_id, title, author, isbn, total_copies, available_copies, created_at, updated_at
		FROM library_books
		WHERE tenant_id = $1 AND id = $2
	`
	book := &models.LibraryBook{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&book.ID, &book.TenantID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *libraryRepo) UpdateBook(ctx context.Context, book *models.LibraryBook) error {
	query := `
		UPDATE library_books
		SET title = $1, author = $2, isbn = $3, total_copies = $4, available_copies = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, book.Title, book.Author, book.ISBN, book.TotalCopies, book.AvailableCopies, book.TenantID, book.ID)
	return err
}

func (r *libraryRepo) DeleteBook(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM library_books WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *libraryRepo) ListBooks(ctx context.Context, tenantID uuid.UUID, search string, limit, offset int) ([]*models.LibraryBook, error) {
	query := `
		SELECT id, tenant_id, title, author, isbn, total_copies, available_copies, created_at, updated_at
		FROM library_books
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if search != "" {
		query += ` AND (title ILIKE $2 OR author ILIKE $2) ORDER BY title LIMIT $3 OFFSET $4`
		args = append(args, "%"+search+"%", limit, offset)
	} else {
		query += ` ORDER BY title LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.LibraryBook
	for rows.Next() {
		book := &models.LibraryBook{}
		if err := rows.Scan(&book.ID, &book.TenantID, &book.Title, &book.Author, &book.ISBN, &book.TotalCopies, &book.AvailableCopies, &book.CreatedAt, &book.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (r *libraryRepo) CreateLoan(ctx context.Context, exec Executor, loan *models.BookLoan) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO book_loans (id, tenant_id, book_id, student_id, issued_by, issued_at, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := exec.Exec(ctx, query, loan.ID, loan.TenantID, loan.BookID, loan.StudentID, loan.IssuedBy, loan.IssuedAt, loan.DueDate, loan.Status)
	return err
}

func (r *libraryRepo) GetLoan(ctx context.Context, tenantID, id uuid.UUID) (*models.BookLoan, error) {
	query := `
		SELECT id, tenant_id, book_id, student_id, issued_by, issued_at, due_date, returned_at, status, created_at
		FROM book_loans
		WHERE tenant_id = $1 AND id = $2
	`
	loan := &models.BookLoan{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&loan.ID, &loan.TenantID, &loan.BookID, &loan.StudentID, &loan.IssuedBy, &loan.IssuedAt, &loan.DueDate, &loan.ReturnedAt, &loan.Status, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// CloseLoan marks an open loan returned. Returns false when the loan was
// already closed, which makes return idempotent at the service layer.
func (r *libraryRepo) CloseLoan(ctx context.Context, exec Executor, tenantID, loanID uuid.UUID) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE book_loans
		SET status = 'RETURNED', returned_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status IN ('ISSUED', 'OVERDUE')
	`
	tag, err := exec.Exec(ctx, query, tenantID, loanID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustAvailableCopies moves the counter by delta, refusing to go below
// zero or above total_copies. Returns false when the guard blocked it.
func (r *libraryRepo) AdjustAvailableCopies(ctx context.Context, exec Executor, tenantID, bookID uuid.UUID, delta int) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE library_books
		SET available_copies = available_copies + $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		  AND available_copies + $3 >= 0
		  AND available_copies + $3 <= total_copies
	`
	tag, err := exec.Exec(ctx, query, tenantID, bookID, delta)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *libraryRepo) ListLoans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, status string, limit, offset int) ([]*models.BookLoan, error) {
	builder := sq.Select("id", "tenant_id", "book_id", "student_id", "issued_by", "issued_at", "due_date", "returned_at", "status", "created_at").
		From("book_loans").
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)
	if studentID != nil {
		builder = builder.Where(sq.Eq{"student_id": *studentID})
	}
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	builder = builder.OrderBy("issued_at DESC").Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// MarkOverdueLoans flips still-open loans past their due date; run nightly.
func (r *libraryRepo) MarkOverdueLoans(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error) {
	query := `
		UPDATE book_loans
		SET status = 'OVERDUE'
		WHERE tenant_id = $1 AND status = 'ISSUED' AND due_date < $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanLoans(rows pgx.Rows) ([]*models.BookLoan, error) {
	var loans []*models.BookLoan
	for rows.Next() {
		loan := &models.BookLoan{}
		if err := rows.Scan(&loan.ID, &loan.TenantID, &loan.BookID, &loan.StudentID, &loan.IssuedBy, &loan.IssuedAt, &loan.DueDate, &loan.ReturnedAt, &loan.Status, &loan.CreatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
