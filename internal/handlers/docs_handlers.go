package handlers

import (
	"fmt"
	"net/http"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type DocsHandlers struct {
	docsService    services.DocsService
	studentService services.StudentService
	billingService services.BillingService
}

func NewDocsHandlers(docsService services.DocsService, studentService services.StudentService, billingService services.BillingService) *DocsHandlers {
	return &DocsHandlers{docsService: docsService, studentService: studentService, billingService: billingService}
}

// Receipt handles GET /invoices/:id/payments/:paymentID/receipt. Guardians
// can only pull receipts for their own children's invoices. Pass store=true
// to persist the PDF and get a presigned link instead of the bytes.
func (h *DocsHandlers) Receipt(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	paymentID, err := pathUUID(c, "paymentID")
	if err != nil {
		return err
	}

	if role == string(authz.RoleGuardian) {
		invoice, err := h.billingService.GetInvoice(c.Request().Context(), tenantID, invoiceID)
		if err != nil {
			return common.SendNotFoundError(c, "invoice")
		}
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, invoice.StudentID)
		if err != nil || !owns {
			return common.SendForbiddenError(c, "you can only access your own children's invoices")
		}
	}

	pdf, err := h.docsService.GenerateReceipt(c.Request().Context(), tenantID, paymentID, invoiceID)
	if err != nil {
		return common.SendServerError(c, "failed to generate receipt")
	}

	if c.QueryParam("store") == "true" {
		name := fmt.Sprintf("receipt-%s.pdf", paymentID)
		url, err := h.docsService.StoreDocument(c.Request().Context(), tenantID, "receipts", name, pdf, "application/pdf")
		if err != nil {
			return common.SendServerError(c, "failed to store receipt")
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=receipt-%s.pdf", paymentID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// Certificate handles POST /documents/certificates and renders a printable
// certificate for a student.
func (h *DocsHandlers) Certificate(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CertificateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	req.TenantID = tenantID

	doc, err := h.docsService.GenerateCertificate(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to generate certificate")
	}

	if c.QueryParam("store") == "true" {
		name := fmt.Sprintf("certificate-%s-%s.html", req.Kind, req.StudentID)
		url, err := h.docsService.StoreDocument(c.Request().Context(), tenantID, "certificates", name, doc, "text/html")
		if err != nil {
			return common.SendServerError(c, "failed to store certificate")
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}

	return c.HTMLBlob(http.StatusOK, doc)
}
