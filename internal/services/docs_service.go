package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"
	"scholaris/internal/storage"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
)

const presignExpiry = 15 * time.Minute

// DocsService renders payment receipts (PDF) and certificates (HTML),
// stores them in the object store and hands back presigned URLs.
type DocsService interface {
	GenerateReceipt(ctx context.Context, tenantID, paymentID, invoiceID uuid.UUID) ([]byte, error)
	GenerateCertificate(ctx context.Context, req *CertificateRequest) ([]byte, error)
	StoreDocument(ctx context.Context, tenantID uuid.UUID, kind, name string, content []byte, contentType string) (string, error)
}

type CertificateRequest struct {
	TenantID    uuid.UUID `json:"-"`
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	Kind        string    `json:"kind" validate:"required,oneof=completion achievement transfer"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	SchoolYear  string    `json:"school_year"`
}

type docsService struct {
	tenantRepo  repositories.TenantRepository
	invoiceRepo repositories.InvoiceRepository
	paymentRepo repositories.PaymentRepository
	studentRepo repositories.StudentRepository
	store       storage.ObjectStore
	bucket      string
	logger      zerolog.Logger
}

func NewDocsService(tenantRepo repositories.TenantRepository, invoiceRepo repositories.InvoiceRepository, paymentRepo repositories.PaymentRepository, studentRepo repositories.StudentRepository, store storage.ObjectStore, bucket string, logger zerolog.Logger) DocsService {
	return &docsService{
		tenantRepo:  tenantRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		store:       store,
		bucket:      bucket,
		logger:      logger,
	}
}

// GenerateReceipt renders a PDF receipt for one payment on an invoice.
func (s *docsService) GenerateReceipt(ctx context.Context, tenantID, paymentID, invoiceID uuid.UUID) ([]byte, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	payments, err := s.paymentRepo.ListByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	var payment *models.Payment
	for _, p := range payments {
		if p.ID == paymentID {
			payment = p
			break
		}
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found on invoice %s", paymentID, invoice.InvoiceNumber)
	}

	student, err := s.studentRepo.GetByID(ctx, tenantID, invoice.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, tenant.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt for invoice: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Student: %s %s (%s)", student.FirstName, student.LastName, student.AdmissionNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Payment date: %s", payment.PaidAt.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Method: %s", payment.Method))
	pdf.Ln(6)
	if payment.Reference != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Reference: %s", *payment.Reference))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Description", "Amount"}
	colWidths := []float64{120, 50}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(colWidths[0], 8, invoice.Description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, formatCents(payment.AmountCents, tenant.Settings.Currency), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Amount received: %s", formatCents(payment.AmountCents, tenant.Settings.Currency)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice status: %s", invoice.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; text-align: center; margin: 60px; }
.frame { border: 6px double #2c3e50; padding: 60px; }
h1 { font-size: 34px; letter-spacing: 2px; }
h2 { font-size: 26px; margin: 30px 0 8px; }
.meta { color: #555; margin-top: 40px; font-size: 14px; }
</style></head>
<body>
<div class="frame">
<h1>{{.SchoolName}}</h1>
<p>hereby certifies that</p>
<h2>{{.StudentName}}</h2>
<p>{{.Description}}</p>
<p><strong>{{.Title}}</strong>{{if .SchoolYear}} &mdash; {{.SchoolYear}}{{end}}</p>
<p class="meta">Issued on {{.IssuedOn}}</p>
</div>
</body>
</html>`))

// GenerateCertificate renders an HTML certificate for a student.
func (s *docsService) GenerateCertificate(ctx context.Context, req *CertificateRequest) ([]byte, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	student, err := s.studentRepo.GetByID(ctx, req.TenantID, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	var buf bytes.Buffer
	err = certificateTmpl.Execute(&buf, map[string]string{
		"SchoolName":  tenant.Name,
		"StudentName": student.FirstName + " " + student.LastName,
		"Title":       req.Title,
		"Description": req.Description,
		"SchoolYear":  req.SchoolYear,
		"IssuedOn":    time.Now().Format("2 January 2006"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// StoreDocument uploads the rendered document and returns a presigned URL.
func (s *docsService) StoreDocument(ctx context.Context, tenantID uuid.UUID, kind, name string, content []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s", tenantID.String(), kind, name)
	if err := s.store.Upload(ctx, s.bucket, objectName, contentType, bytes.NewReader(content), int64(len(content))); err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	url, err := s.store.GetPresignedURL(ctx, s.bucket, objectName, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign document: %w", err)
	}
	return url, nil
}

// formatCents renders integer cents as a currency string.
func formatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, currency, cents/100, cents%100)
}
