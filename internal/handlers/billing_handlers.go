package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/repositories"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type BillingHandlers struct {
	billingService services.BillingService
	studentService services.StudentService
}

func NewBillingHandlers(billingService services.BillingService, studentService services.StudentService) *BillingHandlers {
	return &BillingHandlers{
		billingService: billingService,
		studentService: studentService,
	}
}

// CreateInvoice handles POST /invoices.
func (h *BillingHandlers) CreateInvoice(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidatePositiveCents(req.TotalCents, "total_cents"); err != nil {
		return common.SendValidationError(c, "total_cents", err.Error())
	}

	invoice, err := h.billingService.CreateInvoice(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to create invoice")
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id.
func (h *BillingHandlers) GetInvoice(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	invoice, err := h.billingService.GetInvoice(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "invoice")
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, invoice.StudentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}
	return c.JSON(http.StatusOK, invoice)
}

// ListInvoices handles GET /invoices.
func (h *BillingHandlers) ListInvoices(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return err
	}

	// Guardians only see their own children's invoices.
	if role == string(authz.RoleGuardian) {
		if studentID == nil {
			return common.SendValidationError(c, "student_id", "student_id is required")
		}
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, *studentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	invoices, err := h.billingService.ListInvoices(c.Request().Context(), tenantID, repositories.InvoiceFilter{
		StudentID: studentID,
		Status:    c.QueryParam("status"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return common.SendServerError(c, "failed to list invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// CancelInvoice handles POST /invoices/:id/cancel.
func (h *BillingHandlers) CancelInvoice(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.billingService.CancelInvoice(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment handles POST /payments.
func (h *BillingHandlers) RecordPayment(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	payment, err := h.billingService.RecordPayment(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicatePayment):
			return common.SendConflictError(c, "payment reference already recorded")
		case errors.Is(err, services.ErrInvoiceNotOpen):
			return common.SendConflictError(c, "invoice is not open for payment")
		default:
			return common.SendServerError(c, "failed to record payment")
		}
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListPayments handles GET /invoices/:id/payments.
func (h *BillingHandlers) ListPayments(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if role == string(authz.RoleGuardian) {
		invoice, err := h.billingService.GetInvoice(c.Request().Context(), tenantID, invoiceID)
		if err != nil {
			return common.SendNotFoundError(c, "invoice")
		}
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, invoice.StudentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	payments, err := h.billingService.ListPayments(c.Request().Context(), tenantID, invoiceID)
	if err != nil {
		return common.SendServerError(c, "failed to list payments")
	}
	return c.JSON(http.StatusOK, payments)
}

// CreateInstallmentPlan handles POST /installment-plans.
func (h *BillingHandlers) CreateInstallmentPlan(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	plan, installments, err := h.billingService.CreateInstallmentPlan(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"plan":         plan,
		"installments": installments,
	})
}

// GetInstallmentPlan handles GET /installment-plans/:id.
func (h *BillingHandlers) GetInstallmentPlan(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	plan, installments, err := h.billingService.GetInstallmentPlan(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "installment plan")
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, plan.StudentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"plan":         plan,
		"installments": installments,
	})
}

// ListInstallmentPlans handles GET /installment-plans.
func (h *BillingHandlers) ListInstallmentPlans(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return err
	}

	// Guardians only see their own children's plans.
	if role == string(authz.RoleGuardian) {
		if studentID == nil {
			return common.SendValidationError(c, "student_id", "student_id is required")
		}
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, *studentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	plans, err := h.billingService.ListInstallmentPlans(c.Request().Context(), tenantID, studentID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list installment plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// PayInstallment handles POST /installment-plans/:id/installments/:installmentID/pay.
func (h *BillingHandlers) PayInstallment(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	planID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	installmentID, err := pathUUID(c, "installmentID")
	if err != nil {
		return err
	}

	if err := h.billingService.PayInstallment(c.Request().Context(), tenantID, planID, installmentID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
