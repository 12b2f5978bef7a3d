package appointments

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

const (
	FormatXLSX = "xlsx"
	FormatHTML = "html"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	scheduleSheet   = "Schedule"
)

var ErrInvalidExportFormat = errors.New("format must be xlsx or html")

// scheduleRenderer turns the markdown schedule into HTML. Raw HTML in
// appointment text stays escaped.
var scheduleRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// ExportRange selects appointments whose start date lies in [From, To].
// A zero bound is open.
type ExportRange struct {
	From time.Time
	To   time.Time
}

// ParseExportRange reads YYYY-MM-DD bounds; empty strings leave a side open.
func ParseExportRange(from, to string) (ExportRange, error) {
	var r ExportRange
	var err error
	if from != "" {
		if r.From, err = time.Parse("2006-01-02", from); err != nil {
			return r, fmt.Errorf("invalid from date %q", from)
		}
	}
	if to != "" {
		if r.To, err = time.Parse("2006-01-02", to); err != nil {
			return r, fmt.Errorf("invalid to date %q", to)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, errors.New("to must not be before from")
	}
	return r, nil
}

func (r ExportRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

func (r ExportRange) Filter(appts []Appointment) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if r.Contains(a.Start()) {
			out = append(out, a)
		}
	}
	return out
}

func (r ExportRange) title() string {
	switch {
	case r.From.IsZero() && r.To.IsZero():
		return "Schedule"
	case r.To.IsZero():
		return "Schedule from " + r.From.Format("2 Jan 2006")
	case r.From.IsZero():
		return "Schedule until " + r.To.Format("2 Jan 2006")
	case r.From.Equal(r.To):
		return "Schedule for " + r.From.Format("Monday, 2 Jan 2006")
	default:
		return "Schedule " + r.From.Format("2 Jan 2006") + " to " + r.To.Format("2 Jan 2006")
	}
}

var exportHeader = []string{"Date", "Time", "Program", "Address", "Event From", "Contact", "Status", "Urgent", "Notes"}

func exportRow(a Appointment) []string {
	date, clock := a.StartTime, ""
	if t := a.Start(); !t.IsZero() {
		date = t.Format("Mon 02 Jan 2006")
		clock = t.Format("15:04")
	}
	urgent := ""
	if a.IsUrgent {
		urgent = "yes"
	}
	return []string{date, clock, a.ProgramName, a.Address, a.EventFrom, a.ContactNumber, a.Status, urgent, a.Notes}
}

// RenderXLSX writes the appointments as a single-sheet workbook.
func RenderXLSX(appts []Appointment, r ExportRange) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(scheduleSheet, "A1", r.title()); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(scheduleSheet, "A3", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(scheduleSheet, "A1", "I3", bold); err != nil {
		return nil, err
	}

	for i, a := range appts {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		fields := exportRow(a)
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		if err := f.SetSheetRow(scheduleSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(scheduleSheet, "A", "A", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(scheduleSheet, "C", "E", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderHTML builds a printable page: a markdown table per day rendered by goldmark.
func RenderHTML(appts []Appointment, r ExportRange) ([]byte, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", r.title())

	if len(appts) == 0 {
		md.WriteString("No appointments.\n")
	}

	currentDay := ""
	for _, a := range appts {
		row := exportRow(a)
		if row[0] != currentDay {
			currentDay = row[0]
			fmt.Fprintf(&md, "\n## %s\n\n", mdCell(currentDay))
			md.WriteString("| Time | Program | Address | Event From | Contact | Status | Notes |\n")
			md.WriteString("|---|---|---|---|---|---|---|\n")
		}
		program := mdCell(a.ProgramName)
		if a.IsUrgent {
			program = "**" + program + "** (urgent)"
		}
		fmt.Fprintf(&md, "| %s | %s | %s | %s | %s | %s | %s |\n",
			mdCell(row[1]), program, mdCell(a.Address), mdCell(a.EventFrom),
			mdCell(a.ContactNumber), mdCell(a.Status), mdCell(a.Notes))
	}

	var body bytes.Buffer
	if err := scheduleRenderer.Convert([]byte(md.String()), &body); err != nil {
		return nil, fmt.Errorf("failed to render schedule: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	page.WriteString(html.EscapeString(r.title()))
	page.WriteString("</title><style>body{font-family:sans-serif}table{border-collapse:collapse;width:100%}" +
		"td,th{border:1px solid #999;padding:4px;text-align:left}@media print{h2{page-break-before:auto}}</style>" +
		"</head><body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

// mdCell keeps user text inside a single table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}
