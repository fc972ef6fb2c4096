package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"meetings_app_go/models"
	"meetings_app_go/services/datetime"
	"time"

	"github.com/emersion/go-ical"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultMeetingDuration is used for calendar events; meetings carry no end time
	DefaultMeetingDuration = time.Hour

	icsProductID    = "-//Meetings//Meetings Export//EN"
	exportSheetName = "Meetings"
)

// ErrNothingToExport is returned when the meeting list is empty
var ErrNothingToExport = errors.New("no meetings to export")

var exportHeaders = []string{"ID", "Agenda", "Description", "Status", "Date", "Start Time", "Meeting URL"}

// ExportMeetingsICS renders meetings as an iCalendar feed. Meetings whose
// stored date or time cannot be parsed are skipped.
func ExportMeetingsICS(meetings []models.Meeting, canon *datetime.Canonicalizer, now time.Time) ([]byte, error) {
	if len(meetings) == 0 {
		return nil, ErrNothingToExport
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, m := range meetings {
		start, err := canon.Combine(m.Date, m.StartTime)
		if err != nil {
			log.Printf("[WARNING] Skipping meeting %d in calendar export: %v", m.ID, err)
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("meeting-%d@meetings", m.ID))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(DefaultMeetingDuration).UTC())
		event.Props.SetText(ical.PropSummary, m.Agenda)
		if m.Description != "" {
			event.Props.SetText(ical.PropDescription, m.Description)
		}
		if m.MeetingURL != "" {
			event.Props.SetText(ical.PropURL, m.MeetingURL)
			event.Props.SetText(ical.PropLocation, m.MeetingURL)
		}
		event.Props.SetText(ical.PropStatus, icsStatus(m.Status))

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func icsStatus(status string) string {
	switch status {
	case models.MeetingStatusCancelled:
		return "CANCELLED"
	case models.MeetingStatusInReview:
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}

// ExportMeetingsXLSX renders meetings as a workbook with a single
// "Meetings" sheet. Dates and times are written in display form.
func ExportMeetingsXLSX(meetings []models.Meeting, canon *datetime.Canonicalizer) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle)

	for i, m := range meetings {
		row := []interface{}{
			m.ID,
			m.Agenda,
			m.Description,
			m.Status,
			canon.ToDisplayDate(m.Date),
			canon.ToDisplayTime(m.StartTime),
			m.MeetingURL,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(exportSheetName, "B", "C", 40)
	f.SetColWidth(exportSheetName, "E", "E", 14)
	f.SetColWidth(exportSheetName, "G", "G", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
