package handlers

import (
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type AcademicsHandlers struct {
	academicsService services.AcademicsService
}

func NewAcademicsHandlers(academicsService services.AcademicsService) *AcademicsHandlers {
	return &AcademicsHandlers{academicsService: academicsService}
}

// CreateClass handles POST /classes.
func (h *AcademicsHandlers) CreateClass(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var class models.Class
	if err := c.Bind(&class); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(class.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	class.TenantID = tenantID

	if err := h.academicsService.CreateClass(c.Request().Context(), &class); err != nil {
		return common.SendServerError(c, "failed to create class")
	}
	return c.JSON(http.StatusCreated, class)
}

// GetClass handles GET /classes/:id.
func (h *AcademicsHandlers) GetClass(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	class, err := h.academicsService.GetClass(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "class")
	}
	return c.JSON(http.StatusOK, class)
}

// UpdateClass handles PUT /classes/:id.
func (h *AcademicsHandlers) UpdateClass(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	class, err := h.academicsService.GetClass(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "class")
	}

	var req struct {
		Name       string `json:"name"`
		GradeLevel string `json:"grade_level"`
		Capacity   int    `json:"capacity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Name != "" {
		class.Name = req.Name
	}
	if req.GradeLevel != "" {
		class.GradeLevel = req.GradeLevel
	}
	if req.Capacity > 0 {
		class.Capacity = req.Capacity
	}

	if err := h.academicsService.UpdateClass(c.Request().Context(), class); err != nil {
		return common.SendServerError(c, "failed to update class")
	}
	return c.JSON(http.StatusOK, class)
}

// DeactivateClass handles DELETE /classes/:id.
func (h *AcademicsHandlers) DeactivateClass(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.academicsService.DeactivateClass(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to deactivate class")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListClasses handles GET /classes.
func (h *AcademicsHandlers) ListClasses(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	classes, err := h.academicsService.ListClasses(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list classes")
	}
	return c.JSON(http.StatusOK, classes)
}

// CreateSchedule handles POST /schedules.
func (h *AcademicsHandlers) CreateSchedule(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var schedule models.Schedule
	if err := c.Bind(&schedule); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	schedule.TenantID = tenantID

	if err := h.academicsService.CreateSchedule(c.Request().Context(), &schedule); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule handles PUT /schedules/:id.
func (h *AcademicsHandlers) UpdateSchedule(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var schedule models.Schedule
	if err := c.Bind(&schedule); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	schedule.ID = id
	schedule.TenantID = tenantID

	if err := h.academicsService.UpdateSchedule(c.Request().Context(), &schedule); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /schedules/:id.
func (h *AcademicsHandlers) DeleteSchedule(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.academicsService.DeleteSchedule(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to delete schedule")
	}
	return c.NoContent(http.StatusNoContent)
}

// ClassTimetable handles GET /classes/:id/timetable.
func (h *AcademicsHandlers) ClassTimetable(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	classID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	schedules, err := h.academicsService.ClassTimetable(c.Request().Context(), tenantID, classID)
	if err != nil {
		return common.SendServerError(c, "failed to load timetable")
	}
	return c.JSON(http.StatusOK, schedules)
}

// TeacherTimetable handles GET /teachers/:id/timetable.
func (h *AcademicsHandlers) TeacherTimetable(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	teacherID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	schedules, err := h.academicsService.TeacherTimetable(c.Request().Context(), tenantID, teacherID)
	if err != nil {
		return common.SendServerError(c, "failed to load timetable")
	}
	return c.JSON(http.StatusOK, schedules)
}

// CreateCurriculumMap handles POST /curriculum/maps.
func (h *AcademicsHandlers) CreateCurriculumMap(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var m models.CurriculumMap
	if err := c.Bind(&m); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(m.Subject, "subject"); err != nil {
		return common.SendValidationError(c, "subject", err.Error())
	}
	m.TenantID = tenantID
	m.CreatedBy = userID

	if err := h.academicsService.CreateCurriculumMap(c.Request().Context(), &m); err != nil {
		return common.SendServerError(c, "failed to create curriculum map")
	}
	return c.JSON(http.StatusCreated, m)
}

// GetCurriculumMap handles GET /curriculum/maps/:id. Returns the map with
// its units and topics assembled.
func (h *AcademicsHandlers) GetCurriculumMap(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.academicsService.GetCurriculumMap(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "curriculum map")
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteCurriculumMap handles DELETE /curriculum/maps/:id.
func (h *AcademicsHandlers) DeleteCurriculumMap(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.academicsService.DeleteCurriculumMap(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to delete curriculum map")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCurriculumMaps handles GET /curriculum/maps.
func (h *AcademicsHandlers) ListCurriculumMaps(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	maps, err := h.academicsService.ListCurriculumMaps(c.Request().Context(), tenantID, c.QueryParam("school_year"))
	if err != nil {
		return common.SendServerError(c, "failed to list curriculum maps")
	}
	return c.JSON(http.StatusOK, maps)
}

// AddCurriculumUnit handles POST /curriculum/maps/:id/units.
func (h *AcademicsHandlers) AddCurriculumUnit(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	mapID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var unit models.CurriculumUnit
	if err := c.Bind(&unit); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(unit.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	unit.TenantID = tenantID
	unit.MapID = mapID

	if err := h.academicsService.AddCurriculumUnit(c.Request().Context(), &unit); err != nil {
		return common.SendServerError(c, "failed to add unit")
	}
	return c.JSON(http.StatusCreated, unit)
}

// AddCurriculumTopic handles POST /curriculum/units/:id/topics.
func (h *AcademicsHandlers) AddCurriculumTopic(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	unitID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var topic models.CurriculumTopic
	if err := c.Bind(&topic); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(topic.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	topic.TenantID = tenantID
	topic.UnitID = unitID

	if err := h.academicsService.AddCurriculumTopic(c.Request().Context(), &topic); err != nil {
		return common.SendServerError(c, "failed to add topic")
	}
	return c.JSON(http.StatusCreated, topic)
}

// AddTranscriptEntry handles POST /transcripts.
func (h *AcademicsHandlers) AddTranscriptEntry(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var transcript models.Transcript
	if err := c.Bind(&transcript); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(transcript.Subject, "subject"); err != nil {
		return common.SendValidationError(c, "subject", err.Error())
	}
	if err := common.ValidateRequiredString(transcript.Grade, "grade"); err != nil {
		return common.SendValidationError(c, "grade", err.Error())
	}
	transcript.TenantID = tenantID
	transcript.IssuedBy = userID

	if err := h.academicsService.AddTranscriptEntry(c.Request().Context(), &transcript); err != nil {
		return common.SendServerError(c, "failed to add transcript entry")
	}
	return c.JSON(http.StatusCreated, transcript)
}

// StudentTranscript handles GET /students/:id/transcript.
func (h *AcademicsHandlers) StudentTranscript(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	entries, err := h.academicsService.StudentTranscript(c.Request().Context(), tenantID, studentID, c.QueryParam("school_year"))
	if err != nil {
		return common.SendServerError(c, "failed to load transcript")
	}
	return c.JSON(http.StatusOK, entries)
}

// AwardAchievement handles POST /achievements.
func (h *AcademicsHandlers) AwardAchievement(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var achievement models.Achievement
	if err := c.Bind(&achievement); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(achievement.Title, "title"); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	achievement.TenantID = tenantID
	achievement.AwardedBy = userID

	if err := h.academicsService.AwardAchievement(c.Request().Context(), &achievement); err != nil {
		return common.SendServerError(c, "failed to award achievement")
	}
	return c.JSON(http.StatusCreated, achievement)
}

// RevokeAchievement handles DELETE /achievements/:id.
func (h *AcademicsHandlers) RevokeAchievement(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.academicsService.RevokeAchievement(c.Request().Context(), tenantID, id); err != nil {
		return common.SendServerError(c, "failed to revoke achievement")
	}
	return c.NoContent(http.StatusNoContent)
}

// StudentAchievements handles GET /students/:id/achievements.
func (h *AcademicsHandlers) StudentAchievements(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	achievements, err := h.academicsService.StudentAchievements(c.Request().Context(), tenantID, studentID)
	if err != nil {
		return common.SendServerError(c, "failed to list achievements")
	}
	return c.JSON(http.StatusOK, achievements)
}
