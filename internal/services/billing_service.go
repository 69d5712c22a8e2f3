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
	ErrInvoiceNotOpen   = fmt.Errorf("invoice is not open for payment")
	ErrDuplicatePayment = fmt.Errorf("payment reference already recorded")
)

// BillingService owns invoices, payments and installment plans.
type BillingService interface {
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, filter repositories.InvoiceFilter) ([]*models.Invoice, error)
	CancelInvoice(ctx context.Context, tenantID, id, actorID uuid.UUID) error

	RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*models.Payment, error)
	RecordWebhookPayment(ctx context.Context, tenantID uuid.UUID, invoiceNumber, reference string, amountCents int64) (*models.Payment, error)
	ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error)

	CreateInstallmentPlan(ctx context.Context, req *CreatePlanRequest) (*models.InstallmentPlan, []*models.InstallmentPayment, error)
	GetInstallmentPlan(ctx context.Context, tenantID, id uuid.UUID) (*models.InstallmentPlan, []*models.InstallmentPayment, error)
	ListInstallmentPlans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, limit, offset int) ([]*models.InstallmentPlan, error)
	PayInstallment(ctx context.Context, tenantID, planID, installmentID uuid.UUID) error

	MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type CreateInvoiceRequest struct {
	TenantID    uuid.UUID `json:"-"`
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	Description string    `json:"description" validate:"required"`
	TotalCents  int64     `json:"total_cents" validate:"required,gt=0"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

type RecordPaymentRequest struct {
	TenantID    uuid.UUID `json:"-"`
	InvoiceID   uuid.UUID `json:"invoice_id" validate:"required"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
	Method      string    `json:"method" validate:"required,oneof=cash card bank stripe"`
	Reference   *string   `json:"reference,omitempty"`
}

type CreatePlanRequest struct {
	TenantID   uuid.UUID  `json:"-"`
	StudentID  uuid.UUID  `json:"student_id" validate:"required"`
	InvoiceID  *uuid.UUID `json:"invoice_id,omitempty"`
	TotalCents int64      `json:"total_cents" validate:"required,gt=0"`
	Count      int        `json:"count" validate:"required,gt=0,lte=36"`
	Frequency  string     `json:"frequency" validate:"required"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
}

type billingService struct {
	db              repositories.DB
	invoiceRepo     repositories.InvoiceRepository
	paymentRepo     repositories.PaymentRepository
	installmentRepo repositories.InstallmentRepository
	tenantRepo      repositories.TenantRepository
	auditSvc        AuditService
	logger          zerolog.Logger
}

func NewBillingService(db repositories.DB, invoiceRepo repositories.InvoiceRepository, paymentRepo repositories.PaymentRepository, installmentRepo repositories.InstallmentRepository, tenantRepo repositories.TenantRepository, auditSvc AuditService, logger zerolog.Logger) BillingService {
	return &billingService{
		db:              db,
		invoiceRepo:     invoiceRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		tenantRepo:      tenantRepo,
		auditSvc:        auditSvc,
		logger:          logger,
	}
}

func (s *billingService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, req.TenantID, tenant.Settings.InvoicePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	now := time.Now()
	invoice := &models.Invoice{
		ID:            uuid.New(),
		TenantID:      req.TenantID,
		StudentID:     req.StudentID,
		InvoiceNumber: number,
		Description:   req.Description,
		TotalCents:    req.TotalCents,
		Status:        models.InvoicePending,
		DueDate:       req.DueDate,
		IssuedAt:      now,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", req.TenantID.String()).
		Str("invoice_number", number).
		Int64("total_cents", req.TotalCents).
		Msg("invoice created")

	return invoice, nil
}

func (s *billingService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, tenantID, id)
}

func (s *billingService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter repositories.InvoiceFilter) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, tenantID, filter)
}

// CancelInvoice moves an open invoice to CANCELLED. Paid invoices cannot be
// cancelled.
func (s *billingService) CancelInvoice(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status == models.InvoicePaid || invoice.Status == models.InvoiceCancelled {
		return fmt.Errorf("invoice %s is %s and cannot be cancelled", invoice.InvoiceNumber, invoice.Status)
	}

	now := time.Now()
	oldStatus := invoice.Status
	invoice.Status = models.InvoiceCancelled
	invoice.CancelledAt = &now
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return fmt.Errorf("failed to cancel invoice: %w", err)
	}

	s.auditSvc.RecordTransition(ctx, nil, tenantID, "invoices", invoice.ID.String(), oldStatus, models.InvoiceCancelled, &actorID)
	return nil
}

// RecordPayment inserts a COMPLETED payment and re-derives the invoice
// status inside one transaction.
func (s *billingService) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*models.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, req.TenantID, req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status == models.InvoicePaid || invoice.Status == models.InvoiceCancelled {
		return nil, ErrInvoiceNotOpen
	}
	if req.Reference != nil {
		existing, err := s.paymentRepo.GetByReference(ctx, req.TenantID, *req.Reference)
		if err != nil {
			return nil, fmt.Errorf("failed to check payment reference: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicatePayment
		}
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		TenantID:    req.TenantID,
		InvoiceID:   req.InvoiceID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Reference:   req.Reference,
		Status:      models.PaymentCompleted,
		PaidAt:      time.Now(),
	}

	if err := s.applyPayment(ctx, invoice, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RecordWebhookPayment is the stripe webhook entry point. The invoice is
// addressed by number and the provider reference deduplicates retried
// deliveries: a repeat delivery returns the original payment with no new
// rows.
func (s *billingService) RecordWebhookPayment(ctx context.Context, tenantID uuid.UUID, invoiceNumber, reference string, amountCents int64) (*models.Payment, error) {
	existing, err := s.paymentRepo.GetByReference(ctx, tenantID, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to check payment reference: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	invoice, err := s.invoiceRepo.GetByNumber(ctx, tenantID, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s not found", invoiceNumber)
	}
	if invoice.Status == models.InvoiceCancelled {
		return nil, ErrInvoiceNotOpen
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		TenantID:    tenantID,
		InvoiceID:   invoice.ID,
		AmountCents: amountCents,
		Method:      "stripe",
		Reference:   &reference,
		Status:      models.PaymentCompleted,
		PaidAt:      time.Now(),
	}

	if err := s.applyPayment(ctx, invoice, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// applyPayment runs the insert, the completed-sum query and the status
// update in one transaction so a concurrent payment cannot leave the invoice
// status behind the payment total.
func (s *billingService) applyPayment(ctx context.Context, invoice *models.Invoice, payment *models.Payment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	paidCents, err := s.paymentRepo.SumCompleted(ctx, tx, invoice.TenantID, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	newStatus := models.DeriveInvoiceStatus(invoice.Status, invoice.TotalCents, paidCents, invoice.DueDate, time.Now())
	if newStatus != invoice.Status {
		if err := s.invoiceRepo.UpdateStatus(ctx, tx, invoice.TenantID, invoice.ID, newStatus); err != nil {
			return fmt.Errorf("failed to update invoice status: %w", err)
		}
		s.auditSvc.RecordTransition(ctx, tx, invoice.TenantID, "invoices", invoice.ID.String(), invoice.Status, newStatus, nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", invoice.TenantID.String()).
		Str("invoice_number", invoice.InvoiceNumber).
		Int64("amount_cents", payment.AmountCents).
		Str("status", newStatus).
		Msg("payment recorded")

	invoice.Status = newStatus
	return nil
}

func (s *billingService) ListPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByInvoice(ctx, tenantID, invoiceID)
}

// CreateInstallmentPlan splits the total into Count installments and writes
// the plan plus every installment row in one transaction.
func (s *billingService) CreateInstallmentPlan(ctx context.Context, req *CreatePlanRequest) (*models.InstallmentPlan, []*models.InstallmentPayment, error) {
	if err := models.ValidFrequency(req.Frequency); err != nil {
		return nil, nil, err
	}

	plan := &models.InstallmentPlan{
		ID:         uuid.New(),
		TenantID:   req.TenantID,
		StudentID:  req.StudentID,
		InvoiceID:  req.InvoiceID,
		TotalCents: req.TotalCents,
		Count:      req.Count,
		Frequency:  models.InstallmentFrequency(req.Frequency),
		StartDate:  req.StartDate,
		Status:     models.PlanActive,
	}

	installments := GenerateInstallments(plan)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.installmentRepo.CreatePlan(ctx, tx, plan); err != nil {
		return nil, nil, fmt.Errorf("failed to create plan: %w", err)
	}
	for _, installment := range installments {
		if err := s.installmentRepo.CreateInstallment(ctx, tx, installment); err != nil {
			return nil, nil, fmt.Errorf("failed to create installment %d: %w", installment.Sequence, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit plan: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", req.TenantID.String()).
		Str("plan_id", plan.ID.String()).
		Int("count", req.Count).
		Str("frequency", req.Frequency).
		Msg("installment plan created")

	return plan, installments, nil
}

// GenerateInstallments splits TotalCents evenly across Count installments.
// Division is integer, so the remainder cents are added to the last
// installment; the amounts always sum exactly to the total.
func GenerateInstallments(plan *models.InstallmentPlan) []*models.InstallmentPayment {
	base := plan.TotalCents / int64(plan.Count)
	remainder := plan.TotalCents % int64(plan.Count)

	installments := make([]*models.InstallmentPayment, 0, plan.Count)
	for i := 0; i < plan.Count; i++ {
		amount := base
		if i == plan.Count-1 {
			amount += remainder
		}
		installments = append(installments, &models.InstallmentPayment{
			ID:          uuid.New(),
			TenantID:    plan.TenantID,
			PlanID:      plan.ID,
			Sequence:    i + 1,
			AmountCents: amount,
			DueDate:     installmentDueDate(plan.StartDate, plan.Frequency, i),
			Status:      models.InstallmentDue,
		})
	}
	return installments
}

// installmentDueDate returns the due date of the i-th installment (0-based).
// Week-based frequencies step in exact days; the rest step in calendar
// months, which keeps the day-of-month stable across ordinary months.
func installmentDueDate(start time.Time, frequency models.InstallmentFrequency, i int) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7*i)
	case models.FrequencyBiweekly:
		return start.AddDate(0, 0, 14*i)
	case models.FrequencyMonthly:
		return start.AddDate(0, i, 0)
	case models.FrequencyQuarterly:
		return start.AddDate(0, 3*i, 0)
	case models.FrequencyTermly:
		return start.AddDate(0, 4*i, 0)
	}
	return start
}

func (s *billingService) GetInstallmentPlan(ctx context.Context, tenantID, id uuid.UUID) (*models.InstallmentPlan, []*models.InstallmentPayment, error) {
	plan, err := s.installmentRepo.GetPlan(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.installmentRepo.ListInstallments(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	return plan, installments, nil
}

func (s *billingService) ListInstallmentPlans(ctx context.Context, tenantID uuid.UUID, studentID *uuid.UUID, limit, offset int) ([]*models.InstallmentPlan, error) {
	return s.installmentRepo.ListPlans(ctx, tenantID, studentID, limit, offset)
}

// PayInstallment marks one installment paid and completes the plan when it
// was the last one due.
func (s *billingService) PayInstallment(ctx context.Context, tenantID, planID, installmentID uuid.UUID) error {
	if err := s.installmentRepo.MarkInstallmentPaid(ctx, tenantID, installmentID); err != nil {
		return fmt.Errorf("failed to mark installment paid: %w", err)
	}

	installments, err := s.installmentRepo.ListInstallments(ctx, tenantID, planID)
	if err != nil {
		return fmt.Errorf("failed to list installments: %w", err)
	}
	for _, installment := range installments {
		if installment.Status != models.InstallmentPaid {
			return nil
		}
	}
	return s.installmentRepo.UpdatePlanStatus(ctx, tenantID, planID, models.PlanCompleted)
}

// MarkOverdueInvoices flips open invoices past their due date to OVERDUE.
// Run nightly per tenant.
func (s *billingService) MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID) (int, error) {
	invoices, err := s.invoiceRepo.ListDueBefore(ctx, tenantID, []string{models.InvoicePending})
	if err != nil {
		return 0, fmt.Errorf("failed to list due invoices: %w", err)
	}

	marked := 0
	for _, invoice := range invoices {
		if err := s.invoiceRepo.UpdateStatus(ctx, s.db, tenantID, invoice.ID, models.InvoiceOverdue); err != nil {
			s.logger.Error().Err(err).Str("invoice_number", invoice.InvoiceNumber).Msg("failed to mark invoice overdue")
			continue
		}
		s.auditSvc.RecordTransition(ctx, nil, tenantID, "invoices", invoice.ID.String(), invoice.Status, models.InvoiceOverdue, nil)
		marked++
	}
	return marked, nil
}
