package handlers

import (
	"errors"
	"meetings_app_go/db"
	"meetings_app_go/middleware"
	"meetings_app_go/models"
	"meetings_app_go/services"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	icsContentType  = "text/calendar; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func meetingService(c echo.Context) *services.MeetingService {
	return services.NewMeetingService(db.DB, middleware.GetCanonicalizer(c))
}

func meetingID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return uint(id), nil
}

// meetingError maps meeting service errors to HTTP errors
func meetingError(err error) error {
	var vErr *services.MeetingValidationError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(vErr.Problems, ". "))
	case errors.Is(err, services.ErrMeetingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process meeting").SetInternal(err)
}

// ListMeetingsHandler returns the caller's meetings by date and start time
func ListMeetingsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	meetings, err := meetingService(c).List(user.ID)
	if err != nil {
		return meetingError(err)
	}
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	return c.JSON(http.StatusOK, meetings)
}

// GetMeetingHandler returns one of the caller's meetings
func GetMeetingHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	id, err := meetingID(c)
	if err != nil {
		return err
	}

	meeting, err := meetingService(c).Get(user.ID, id)
	if err != nil {
		return meetingError(err)
	}
	return c.JSON(http.StatusOK, meeting)
}

// CreateMeetingHandler stores a meeting for the caller
func CreateMeetingHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.MeetingInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	svc := meetingService(c)
	meeting, err := svc.Create(user.ID, input)
	if err != nil {
		return meetingError(err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionCreate,
		"Meeting", strconv.FormatUint(uint64(meeting.ID), 10), meeting.Agenda,
		"Meeting created", nil, services.MeetingSnapshot(meeting))

	if user.Email != "" {
		cfg := middleware.GetConfig(c)
		services.SendEmailAsync(cfg, services.BuildMeetingScheduledEmail(user.Email, services.MeetingEmailData{
			UserName:    user.Username,
			Agenda:      meeting.Agenda,
			Description: meeting.Description,
			Date:        svc.Canon.ToDisplayDate(meeting.Date),
			Time:        svc.Canon.ToDisplayTime(meeting.StartTime),
			Status:      meeting.Status,
			MeetingURL:  meeting.MeetingURL,
		}))
	}

	return c.JSON(http.StatusCreated, meeting)
}

// UpdateMeetingHandler replaces one of the caller's meetings (PUT)
func UpdateMeetingHandler(c echo.Context) error {
	return updateMeeting(c, false)
}

// PatchMeetingHandler partially updates one of the caller's meetings (PATCH)
func PatchMeetingHandler(c echo.Context) error {
	return updateMeeting(c, true)
}

func updateMeeting(c echo.Context, partial bool) error {
	user := middleware.GetCurrentUser(c)
	id, err := meetingID(c)
	if err != nil {
		return err
	}

	var input services.MeetingInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	meeting, previous, err := meetingService(c).Update(user.ID, id, input, partial)
	if err != nil {
		return meetingError(err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionUpdate,
		"Meeting", strconv.FormatUint(uint64(meeting.ID), 10), meeting.Agenda,
		"Meeting updated", services.MeetingSnapshot(previous), services.MeetingSnapshot(meeting))

	return c.JSON(http.StatusOK, meeting)
}

// DeleteMeetingHandler removes one of the caller's meetings
func DeleteMeetingHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	id, err := meetingID(c)
	if err != nil {
		return err
	}

	meeting, err := meetingService(c).Delete(user.ID, id)
	if err != nil {
		return meetingError(err)
	}

	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionDelete,
		"Meeting", strconv.FormatUint(uint64(meeting.ID), 10), meeting.Agenda,
		"Meeting deleted", services.MeetingSnapshot(meeting), nil)

	return c.NoContent(http.StatusNoContent)
}

// MeetingHistoryHandler returns the audit trail of one of the caller's meetings
func MeetingHistoryHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	id, err := meetingID(c)
	if err != nil {
		return err
	}

	if _, err := meetingService(c).Get(user.ID, id); err != nil {
		return meetingError(err)
	}

	logs, err := services.GetResourceAuditHistory(db.DB, "Meeting", strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load history").SetInternal(err)
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return c.JSON(http.StatusOK, logs)
}

// ExportMeetingsICSHandler downloads the caller's meetings as an iCalendar feed
func ExportMeetingsICSHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	svc := meetingService(c)

	meetings, err := svc.List(user.ID)
	if err != nil {
		return meetingError(err)
	}

	data, err := services.ExportMeetingsICS(meetings, svc.Canon, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			return c.NoContent(http.StatusNoContent)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export meetings").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meetings.ics"`)
	return c.Blob(http.StatusOK, icsContentType, data)
}

// ExportMeetingsXLSXHandler downloads the caller's meetings as an Excel workbook
func ExportMeetingsXLSXHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	svc := meetingService(c)

	meetings, err := svc.List(user.ID)
	if err != nil {
		return meetingError(err)
	}

	buf, err := services.ExportMeetingsXLSX(meetings, svc.Canon)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export meetings").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meetings.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
