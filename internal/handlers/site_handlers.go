package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/middleware"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type SiteHandlers struct {
	siteService services.SiteService
}

func NewSiteHandlers(siteService services.SiteService) *SiteHandlers {
	return &SiteHandlers{siteService: siteService}
}

// CreatePage handles POST /site/pages.
func (h *SiteHandlers) CreatePage(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.PageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	req.TenantID = tenantID

	page, err := h.siteService.CreatePage(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			return common.SendConflictError(c, "a page with this slug already exists")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, page)
}

// UpdatePage handles PUT /site/pages/:id.
func (h *SiteHandlers) UpdatePage(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	pageID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req services.PageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	req.TenantID = tenantID

	page, err := h.siteService.UpdatePage(c.Request().Context(), tenantID, pageID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			return common.SendNotFoundError(c, "page")
		}
		if errors.Is(err, services.ErrSlugTaken) {
			return common.SendConflictError(c, "a page with this slug already exists")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

// DeletePage handles DELETE /site/pages/:id.
func (h *SiteHandlers) DeletePage(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	pageID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.siteService.DeletePage(c.Request().Context(), tenantID, pageID); err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			return common.SendNotFoundError(c, "page")
		}
		return common.SendServerError(c, "failed to delete page")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPages handles GET /site/pages.
func (h *SiteHandlers) ListPages(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	pages, err := h.siteService.ListPages(c.Request().Context(), tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list pages")
	}
	return c.JSON(http.StatusOK, pages)
}

// PublicPage handles GET /public/pages/:slug for the school's visitors.
func (h *SiteHandlers) PublicPage(c echo.Context) error {
	tenantID, ok := middleware.PublicTenantID(c)
	if !ok {
		return common.SendNotFoundError(c, "school")
	}

	page, err := h.siteService.GetPublicPage(c.Request().Context(), tenantID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			return common.SendNotFoundError(c, "page")
		}
		return common.SendServerError(c, "failed to load page")
	}
	return c.JSON(http.StatusOK, page)
}

// CreateForm handles POST /site/forms.
func (h *SiteHandlers) CreateForm(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.FormRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	form, err := h.siteService.CreateForm(c.Request().Context(), tenantID, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, form)
}

// UpdateForm handles PUT /site/forms/:id. Each update bumps the form version
// so stored submissions stay tied to the fields they were filled against.
func (h *SiteHandlers) UpdateForm(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req services.FormRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	form, err := h.siteService.UpdateForm(c.Request().Context(), tenantID, formID, &req)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return common.SendNotFoundError(c, "form")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, form)
}

// ListForms handles GET /site/forms.
func (h *SiteHandlers) ListForms(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	forms, err := h.siteService.ListForms(c.Request().Context(), tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list forms")
	}
	return c.JSON(http.StatusOK, forms)
}

// GetForm handles GET /site/forms/:id.
func (h *SiteHandlers) GetForm(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	form, err := h.siteService.GetForm(c.Request().Context(), tenantID, formID)
	if err != nil {
		return common.SendNotFoundError(c, "form")
	}
	return c.JSON(http.StatusOK, form)
}

// PublicForm handles GET /public/forms/:id.
func (h *SiteHandlers) PublicForm(c echo.Context) error {
	tenantID, ok := middleware.PublicTenantID(c)
	if !ok {
		return common.SendNotFoundError(c, "school")
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	form, err := h.siteService.GetPublicForm(c.Request().Context(), tenantID, formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return common.SendNotFoundError(c, "form")
		}
		return common.SendServerError(c, "failed to load form")
	}
	return c.JSON(http.StatusOK, form)
}

// SubmitForm handles POST /public/forms/:id/submissions.
func (h *SiteHandlers) SubmitForm(c echo.Context) error {
	tenantID, ok := middleware.PublicTenantID(c)
	if !ok {
		return common.SendNotFoundError(c, "school")
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	submission, err := h.siteService.SubmitForm(c.Request().Context(), tenantID, formID, req.Values, c.RealIP())
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return common.SendNotFoundError(c, "form")
		}
		if errors.Is(err, services.ErrInvalidFormInput) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendServerError(c, "failed to submit form")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"id": submission.ID, "form_version": submission.FormVersion})
}

// ListSubmissions handles GET /site/forms/:id/submissions.
func (h *SiteHandlers) ListSubmissions(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	formID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	submissions, err := h.siteService.ListSubmissions(c.Request().Context(), tenantID, formID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list submissions")
	}
	return c.JSON(http.StatusOK, submissions)
}
