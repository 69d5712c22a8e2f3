package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type LibraryHandlers struct {
	libraryService services.LibraryService
}

func NewLibraryHandlers(libraryService services.LibraryService) *LibraryHandlers {
	return &LibraryHandlers{libraryService: libraryService}
}

// AddBook handles POST /library/books.
func (h *LibraryHandlers) AddBook(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.AddBookRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	book, err := h.libraryService.AddBook(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to add book")
	}
	return c.JSON(http.StatusCreated, book)
}

// GetBook handles GET /library/books/:id.
func (h *LibraryHandlers) GetBook(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.libraryService.GetBook(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "book")
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateBook handles PUT /library/books/:id.
func (h *LibraryHandlers) UpdateBook(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.libraryService.GetBook(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "book")
	}

	var req struct {
		Title  string  `json:"title"`
		Author string  `json:"author"`
		ISBN   *string `json:"isbn,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}

	if err := h.libraryService.UpdateBook(c.Request().Context(), book); err != nil {
		return common.SendServerError(c, "failed to update book")
	}
	return c.JSON(http.StatusOK, book)
}

// RemoveBook handles DELETE /library/books/:id.
func (h *LibraryHandlers) RemoveBook(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.libraryService.RemoveBook(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to remove book")
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchBooks handles GET /library/books.
func (h *LibraryHandlers) SearchBooks(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	books, err := h.libraryService.SearchBooks(c.Request().Context(), tenantID, c.QueryParam("q"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to search books")
	}
	return c.JSON(http.StatusOK, books)
}

// IssueBook handles POST /library/loans.
func (h *LibraryHandlers) IssueBook(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	req.IssuedBy = userID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	loan, err := h.libraryService.IssueBook(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNoCopiesAvailable) {
			return common.SendConflictError(c, "no copies available")
		}
		return common.SendServerError(c, "failed to issue book")
	}
	return c.JSON(http.StatusCreated, loan)
}

// ReturnBook handles POST /library/loans/:id/return.
func (h *LibraryHandlers) ReturnBook(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.libraryService.ReturnBook(c.Request().Context(), tenantID, id); err != nil {
		if errors.Is(err, services.ErrLoanAlreadyClosed) {
			return common.SendConflictError(c, "loan is already returned")
		}
		return common.SendServerError(c, "failed to return book")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLoans handles GET /library/loans.
func (h *LibraryHandlers) ListLoans(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	if status != "" && status != models.LoanIssued && status != models.LoanReturned && status != models.LoanOverdue {
		return common.SendValidationError(c, "status", "status must be ISSUED, RETURNED or OVERDUE")
	}
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	loans, err := h.libraryService.ListLoans(c.Request().Context(), tenantID, studentID, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list loans")
	}
	return c.JSON(http.StatusOK, loans)
}
