package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer/dates"
)

const DefaultReminderTime = "09:00"

// Record is one importable birthday. Row is the spreadsheet row number
// (header is row 1). Year is 0 when unknown.
type Record struct {
	Row          int    `json:"row"`
	FullName     string `json:"fullName"`
	Day          int    `json:"day"`
	Month        int    `json:"month"`
	Year         int    `json:"year,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Ward         string `json:"ward,omitempty"`
	ReminderTime string `json:"reminderTime"`
}

type Result struct {
	Layout   Layout
	Records  []Record
	Errors   []string
	Warnings []string
}

var (
	nonDigits   = regexp.MustCompile(`\D`)
	clockPrefix = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
)

// Parse detects the layout from the first non-blank row and converts every
// following row. Rows with errors are left out of Records; the rest are
// kept even when some rows fail.
func Parse(rows [][]string) (*Result, error) {
	headerAt := -1
	for i, row := range rows {
		if !blank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyFile
	}

	layout, cols, err := DetectLayout(rows[headerAt])
	if err != nil {
		return nil, err
	}

	res := &Result{Layout: layout, Records: make([]Record, 0, len(rows)-headerAt-1)}
	for i := headerAt + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		rowNum := i + 1
		rec, rowErr, warnings := parseRow(rows[i], rowNum, layout, cols)
		res.Warnings = append(res.Warnings, warnings...)
		if rowErr != "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rowNum, rowErr))
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func parseRow(row []string, rowNum int, layout Layout, cols Columns) (Record, string, []string) {
	var warnings []string
	rec := Record{
		Row:          rowNum,
		FullName:     strings.Join(strings.Fields(cell(row, cols.Name)), " "),
		Address:      cell(row, cols.Address),
		Ward:         cell(row, cols.Ward),
		ReminderTime: DefaultReminderTime,
	}
	if rec.FullName == "" {
		return rec, "missing name", nil
	}

	if layout == LayoutFields {
		day, month, year, msg := fieldsDate(row, cols)
		if msg != "" {
			return rec, msg, nil
		}
		rec.Day, rec.Month, rec.Year = day, month, year
	} else {
		raw := cell(row, cols.Date)
		fixed, applied := dates.Correct(raw)
		day, month, year, ok := dates.Parse(fixed)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Row %d: could not parse date %q", rowNum, raw))
			day, month, year = 1, 1, 0
		} else if len(applied) > 0 {
			warnings = append(warnings, fmt.Sprintf("Row %d: corrected date %q to %q", rowNum, raw, fixed))
		}
		rec.Day, rec.Month, rec.Year = day, month, year
	}

	if raw := cell(row, cols.Phone); raw != "" {
		phone, ok := NormalizePhone(raw)
		if !ok {
			return rec, fmt.Sprintf("phone %q must have 10 digits", raw), warnings
		}
		rec.Phone = phone
	}

	if raw := cell(row, cols.Reminder); raw != "" {
		if t, ok := NormalizeClock(raw); ok {
			rec.ReminderTime = t
		} else {
			warnings = append(warnings, fmt.Sprintf("Row %d: invalid reminder time %q, using %s", rowNum, raw, DefaultReminderTime))
		}
	}
	return rec, "", warnings
}

func fieldsDate(row []string, cols Columns) (int, int, int, string) {
	dayRaw, monthRaw := cell(row, cols.Day), cell(row, cols.Month)
	if dayRaw == "" || monthRaw == "" {
		return 0, 0, 0, "missing day or month"
	}

	day, err := strconv.Atoi(trimNumber(dayRaw))
	if err != nil {
		return 0, 0, 0, fmt.Sprintf("invalid day %q", dayRaw)
	}
	month, err := strconv.Atoi(trimNumber(monthRaw))
	if err != nil {
		// month columns are often typed as names
		fixed, _ := dates.Correct(monthRaw)
		if _, m, _, ok := dates.Parse("1 " + fixed); ok {
			month = m
		} else {
			return 0, 0, 0, fmt.Sprintf("invalid month %q", monthRaw)
		}
	}

	year := 0
	if yearRaw := cell(row, cols.Year); yearRaw != "" {
		year, err = strconv.Atoi(trimNumber(yearRaw))
		if err != nil || year < 1800 || year > 2200 {
			return 0, 0, 0, fmt.Sprintf("invalid year %q", yearRaw)
		}
	}

	if !dates.Valid(day, month, year) {
		return 0, 0, 0, fmt.Sprintf("invalid date %d/%d", day, month)
	}
	return day, month, year, ""
}

// NormalizePhone strips everything but digits and requires exactly ten.
func NormalizePhone(raw string) (string, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	return digits, len(digits) == 10
}

// NormalizeClock accepts H:MM or HH:MM (seconds ignored) and returns HH:MM.
func NormalizeClock(raw string) (string, bool) {
	m := clockPrefix.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if h > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, minute), true
}

// trimNumber drops a trailing ".0" that spreadsheets add to whole numbers.
func trimNumber(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
