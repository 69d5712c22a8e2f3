package handlers

import (
	"errors"
	"net/http"
	"time"

	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type FacilitiesHandlers struct {
	facilitiesService services.FacilitiesService
}

func NewFacilitiesHandlers(facilitiesService services.FacilitiesService) *FacilitiesHandlers {
	return &FacilitiesHandlers{facilitiesService: facilitiesService}
}

// CreateRoom handles POST /rooms.
func (h *FacilitiesHandlers) CreateRoom(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var room models.Room
	if err := c.Bind(&room); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(room.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	room.TenantID = tenantID

	if err := h.facilitiesService.CreateRoom(c.Request().Context(), &room); err != nil {
		return common.SendServerError(c, "failed to create room")
	}
	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /rooms/:id.
func (h *FacilitiesHandlers) UpdateRoom(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	room, err := h.facilitiesService.GetRoom(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "room")
	}

	var req struct {
		Name     string  `json:"name"`
		Capacity int     `json:"capacity"`
		Location *string `json:"location,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Name != "" {
		room.Name = req.Name
	}
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if req.Location != nil {
		room.Location = req.Location
	}

	if err := h.facilitiesService.UpdateRoom(c.Request().Context(), room); err != nil {
		return common.SendServerError(c, "failed to update room")
	}
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/:id.
func (h *FacilitiesHandlers) DeleteRoom(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.facilitiesService.DeleteRoom(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to delete room")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRooms handles GET /rooms.
func (h *FacilitiesHandlers) ListRooms(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	rooms, err := h.facilitiesService.ListRooms(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list rooms")
	}
	return c.JSON(http.StatusOK, rooms)
}

// RequestBooking handles POST /room-bookings.
func (h *FacilitiesHandlers) RequestBooking(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.BookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	req.BookedBy = userID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	booking, err := h.facilitiesService.RequestBooking(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrBookingConflict) {
			return common.SendConflictError(c, "room is already booked for that interval")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, booking)
}

// DecideBooking handles POST /room-bookings/:id/decide.
func (h *FacilitiesHandlers) DecideBooking(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	booking, err := h.facilitiesService.DecideBooking(c.Request().Context(), tenantID, id, userID, req.Approve)
	if err != nil {
		if errors.Is(err, services.ErrBookingClosed) {
			return common.SendConflictError(c, "booking is not pending")
		}
		return common.SendServerError(c, "failed to decide booking")
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBooking handles DELETE /room-bookings/:id. Requesters may cancel
// their own bookings only.
func (h *FacilitiesHandlers) CancelBooking(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.facilitiesService.CancelBooking(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoomBookings handles GET /rooms/:id/bookings.
func (h *FacilitiesHandlers) ListRoomBookings(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	roomID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}
	// Booking views default forward, not back.
	if c.QueryParam("from") == "" && c.QueryParam("to") == "" {
		from = time.Now()
		to = from.AddDate(0, 0, 30)
	}

	bookings, err := h.facilitiesService.ListRoomBookings(c.Request().Context(), tenantID, roomID, from, to)
	if err != nil {
		return common.SendServerError(c, "failed to list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// MyBookings handles GET /room-bookings/mine.
func (h *FacilitiesHandlers) MyBookings(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	bookings, err := h.facilitiesService.ListUserBookings(c.Request().Context(), tenantID, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// RegisterVisitor handles POST /visitors.
func (h *FacilitiesHandlers) RegisterVisitor(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var visitor models.Visitor
	if err := c.Bind(&visitor); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(visitor.FullName, "full_name"); err != nil {
		return common.SendValidationError(c, "full_name", err.Error())
	}
	if visitor.Phone != nil {
		if err := common.ValidatePhone(*visitor.Phone, "phone"); err != nil {
			return common.SendValidationError(c, "phone", err.Error())
		}
	}
	visitor.TenantID = tenantID

	if err := h.facilitiesService.RegisterVisitor(c.Request().Context(), &visitor); err != nil {
		return common.SendServerError(c, "failed to register visitor")
	}
	return c.JSON(http.StatusCreated, visitor)
}

// ListVisitors handles GET /visitors.
func (h *FacilitiesHandlers) ListVisitors(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	visitors, err := h.facilitiesService.ListVisitors(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list visitors")
	}
	return c.JSON(http.StatusOK, visitors)
}

// CheckInVisitor handles POST /visitors/:id/check-in.
func (h *FacilitiesHandlers) CheckInVisitor(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	visitorID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		BadgeNumber *string `json:"badge_number,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}

	record := &models.CheckInOut{
		ID:          uuid.New(),
		TenantID:    tenantID,
		VisitorID:   visitorID,
		CheckedInAt: time.Now(),
		BadgeNumber: req.BadgeNumber,
		RecordedBy:  userID,
	}
	if err := h.facilitiesService.CheckInVisitor(c.Request().Context(), record); err != nil {
		return common.SendServerError(c, "failed to check in visitor")
	}
	return c.JSON(http.StatusCreated, record)
}

// CheckOutVisitor handles POST /visitors/check-ins/:recordID/check-out.
// Repeated check-outs are a no-op.
func (h *FacilitiesHandlers) CheckOutVisitor(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	recordID, err := pathUUID(c, "recordID")
	if err != nil {
		return err
	}

	if err := h.facilitiesService.CheckOutVisitor(c.Request().Context(), tenantID, recordID); err != nil {
		return common.SendServerError(c, "failed to check out visitor")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOpenCheckIns handles GET /visitors/check-ins/open.
func (h *FacilitiesHandlers) ListOpenCheckIns(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	records, err := h.facilitiesService.ListOpenCheckIns(c.Request().Context(), tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list open check-ins")
	}
	return c.JSON(http.StatusOK, records)
}
