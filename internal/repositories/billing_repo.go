package repositories

import (
	"context"
	"errors"
	"fmt"

	"scholaris/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	StudentID *uuid.UUID
	Status    string
	Limit     int
	Offset    int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, exec Executor, tenantID, id uuid.UUID, status string) error
	List(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]*models.Invoice, error)
	ListDueBefore(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]*models.Invoice, error)
	NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, tenant_id, student_id, invoice_number, description, total_cents, status, due_date, issued_at, cancelled_at, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, student_id, invoice_number, description, total_cents, status, due_date, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.TenantID, invoice.StudentID, invoice.InvoiceNumber, invoice.Description, invoice.TotalCents, invoice.Status, invoice.DueDate, invoice.IssuedAt)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2`
	return scanInvoice(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_number = $2`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, tenantID, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return invoice, err
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET description = $1, total_cents = $2, due_date = $3, status = $4, cancelled_at = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, invoice.Description, invoice.TotalCents, invoice.DueDate, invoice.Status, invoice.CancelledAt, invoice.TenantID, invoice.ID)
	return err
}

// UpdateStatus takes an Executor so the webhook flow can run it inside the
// same transaction as the payment insert and audit row.
func (r *invoiceRepo) UpdateStatus(ctx context.Context, exec Executor, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := exec.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]*models.Invoice, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	builder := sq.Select(invoiceColumns).
		From("invoices").
		Where(sq.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(sq.Dollar)

	if filter.StudentID != nil {
		builder = builder.Where(sq.Eq{"student_id": *filter.StudentID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.
		OrderBy("issued_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListDueBefore returns open invoices whose due date has passed; the
// overdue-marking job feeds on it.
func (r *invoiceRepo) ListDueBefore(ctx context.Context, tenantID uuid.UUID, statuses []string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND status = ANY($2) AND due_date < NOW()`
	rows, err := r.db.Query(ctx, query, tenantID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// NextInvoiceNumber allocates the next sequential number for the tenant.
func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE tenant_id = $1`, tenantID).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, count+1), nil
}

func collectInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(&invoice.ID, &invoice.TenantID, &invoice.StudentID, &invoice.InvoiceNumber, &invoice.Description, &invoice.TotalCents, &invoice.Status, &invoice.DueDate, &invoice.IssuedAt, &invoice.CancelledAt, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

type PaymentRepository interface {
	Create(ctx context.Context, exec Executor, payment *models.Payment) error
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error)
	SumCompleted(ctx context.Context, exec Executor, tenantID, invoiceID uuid.UUID) (int64, error)
	GetByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*models.Payment, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, exec Executor, payment *models.Payment) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO payments (id, tenant_id, invoice_id, amount_cents, method, reference, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := exec.Exec(ctx, query, payment.ID, payment.TenantID, payment.InvoiceID, payment.AmountCents, payment.Method, payment.Reference, payment.Status, payment.PaidAt)
	return err
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, amount_cents, method, reference, status, paid_at, created_at
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY paid_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.TenantID, &payment.InvoiceID, &payment.AmountCents, &payment.Method, &payment.Reference, &payment.Status, &payment.PaidAt, &payment.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) SumCompleted(ctx context.Context, exec Executor, tenantID, invoiceID uuid.UUID) (int64, error) {
	if exec == nil {
		exec = r.db
	}
	var sum int64
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2 AND status = 'COMPLETED'
	`
	err := exec.QueryRow(ctx, query, tenantID, invoiceID).Scan(&sum)
	return sum, err
}

// GetByReference deduplicates webhook deliveries by provider reference.
func (r *paymentRepo) GetByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*models.Payment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, amount_cents, method, reference, status, paid_at, created_at
		FROM payments
		WHERE tenant_id = $1 AND reference = $2
	`
	payment := &models.Payment{}
	err := r.db.QueryRow(ctx, query, tenantID, reference).Scan(&payment.ID, &payment.TenantID, &payment.InvoiceID, &payment.AmountCents, &payment.Method, &payment.Reference, &payment.Status, &payment.PaidAt, &payment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

type InstallmentRepository interface {
	CreatePlan(ctx context.Context, exec Executor, plan *models.InstallmentPlan) error
	CreateInstallment(ctx context.Context, exec Executor, installment *models.InstallmentPayment) error
	GetPlan(ctx context.Context, tenantID, id uuid.UUID) (*models.InstallmentPlan, error)
	ListPlans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, limit, offset int) ([]*models.InstallmentPlan, error)
	ListInstallments(ctx context.Context, tenantID, planID uuid.UUID) ([]*models.InstallmentPayment, error)
	MarkInstallmentPaid(ctx context.Context, tenantID, id uuid.UUID) error
	UpdatePlanStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
}

type installmentRepo struct {
	db DB
}

func NewInstallmentRepo(db DB) InstallmentRepository {
	return &installmentRepo{db: db}
}

func (r *installmentRepo) CreatePlan(ctx context.Context, exec Executor, plan *models.InstallmentPlan) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO installment_plans (id, tenant_id, student_id, invoice_id, total_cents, count, frequency, start_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := exec.Exec(ctx, query, plan.ID, plan.TenantID, plan.StudentID, plan.InvoiceID, plan.TotalCents, plan.Count, plan.Frequency, plan.StartDate, plan.Status)
	return err
}

func (r *installmentRepo) CreateInstallment(ctx context.Context, exec Executor, installment *models.InstallmentPayment) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO installment_payments (id, tenant_id, plan_id, sequence, amount_cents, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := exec.Exec(ctx, query, installment.ID, installment.TenantID, installment.PlanID, installment.Sequence, installment.AmountCents, installment.DueDate, installment.Status)
	return err
}

func (r *installmentRepo) GetPlan(ctx context.Context, tenantID, id uuid.UUID) (*models.InstallmentPlan, error) {
	query := `
		SELECT id, tenant_id, student_id, invoice_id, total_cents, count, frequency, start_date, status, created_at, updated_at
		FROM installment_plans
		WHERE tenant_id = $1 AND id = $2
	`
	plan := &models.InstallmentPlan{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&plan.ID, &plan.TenantID, &plan.StudentID, &plan.InvoiceID, &plan.TotalCents, &plan.Count, &plan.Frequency, &plan.StartDate, &plan.Status, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *installmentRepo) ListPlans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, limit, offset int) ([]*models.InstallmentPlan, error) {
	query := `
		SELECT id, tenant_id, student_id, invoice_id, total_cents, count, frequency, start_date, status, created_at, updated_at
		FROM installment_plans
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if studentID != nil {
		query += ` AND student_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, *studentID, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.InstallmentPlan
	for rows.Next() {
		plan := &models.InstallmentPlan{}
		if err := rows.Scan(&plan.ID, &plan.TenantID, &plan.StudentID, &plan.InvoiceID, &plan.TotalCents, &plan.Count, &plan.Frequency, &plan.StartDate, &plan.Status, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *installmentRepo) ListInstallments(ctx context.Context, tenantID, planID uuid.UUID) ([]*models.InstallmentPayment, error) {
	query := `
		SELECT id, tenant_id, plan_id, sequence, amount_cents, due_date, status, paid_at, created_at
		FROM installment_payments
		WHERE tenant_id = $1 AND plan_id = $2
		ORDER BY sequence
	`
	rows, err := r.db.Query(ctx, query, tenantID, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*models.InstallmentPayment
	for rows.Next() {
		installment := &models.InstallmentPayment{}
		if err := rows.Scan(&installment.ID, &installment.TenantID, &installment.PlanID, &installment.Sequence, &installment.AmountCents, &installment.DueDate, &installment.Status, &installment.PaidAt, &installment.CreatedAt); err != nil {
			return nil, err
		}
		installments = append(installments, installment)
	}
	return installments, rows.Err()
}

func (r *installmentRepo) MarkInstallmentPaid(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE installment_payments SET status = 'PAID', paid_at = NOW() WHERE tenant_id = $1 AND id = $2 AND status = 'DUE'`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *installmentRepo) UpdatePlanStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE installment_plans SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}
