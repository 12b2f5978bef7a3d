package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LeapProxyYear stands in for a missing year so that 29 February is accepted.
const LeapProxyYear = 2024

// Valid reports whether day/month form a real date. year 0 means unknown.
func Valid(day, month, year int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	if year == 0 {
		year = LeapProxyYear
	}
	return day <= DaysIn(time.Month(month), year)
}

func DaysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var (
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[t ].*)?$`)
	numericDate = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})(?:[/.\-](\d{2}|\d{4}))?$`)
	tokenSplit  = regexp.MustCompile(`[\s,./\-]+`)
	ordinalNum  = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)$`)
)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"sept": 9,
}

// monthNumber accepts full names and prefixes of at least three letters.
func monthNumber(tok string) int {
	if n, ok := monthNames[tok]; ok {
		return n
	}
	if len(tok) < 3 {
		return 0
	}
	for name, n := range monthNames {
		if strings.HasPrefix(name, tok) {
			return n
		}
	}
	return 0
}

// Parse reads a birth date. year is 0 when the text carries none.
// Accepted: YYYY-MM-DD, D/M/YYYY, D-M-YYYY, D.M.YYYY (day first, year
// optional), "D Month YYYY", "Month D, YYYY", "D Month", and Excel serial
// day numbers.
func Parse(s string) (day, month, year int, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, 0, 0, false
	}

	if day, month, year, ok = parseSerial(s); ok {
		return day, month, year, true
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
		return check(day, month, year)
	}

	if m := numericDate.FindStringSubmatch(s); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			year = expandYear(m[3])
		}
		return check(day, month, year)
	}

	return parseWords(s)
}

func check(day, month, year int) (int, int, int, bool) {
	if !Valid(day, month, year) {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// Serial day numbers below minSerial fall in 1900 and are far more likely a
// bare day typed into a date column; they are not read as dates.
const (
	minSerial = 367 // 1901-01-01
	maxSerial = 80000
)

func parseSerial(s string) (int, int, int, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	// a bare four-digit number is a year, not a day count
	if len(s) == 4 && serial >= 1800 && serial <= 2100 {
		return 0, 0, 0, false
	}
	if serial < minSerial || serial > maxSerial {
		return 0, 0, 0, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Day(), int(t.Month()), t.Year(), true
}

func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 4 {
		return y
	}
	if y <= time.Now().Year()%100 {
		return 2000 + y
	}
	return 1900 + y
}

func parseWords(s string) (int, int, int, bool) {
	var day, month, year int
	numbers := 0

	for _, tok := range tokenSplit.Split(s, -1) {
		switch {
		case tok == "" || tok == "of":
			continue
		case monthNumber(tok) > 0:
			if month != 0 {
				return 0, 0, 0, false
			}
			month = monthNumber(tok)
		default:
			if m := ordinalNum.FindStringSubmatch(tok); m != nil {
				tok = m[1]
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				return 0, 0, 0, false
			}
			numbers++
			switch {
			case len(tok) == 4:
				if year != 0 {
					return 0, 0, 0, false
				}
				year = n
			case day == 0:
				day = n
			default:
				return 0, 0, 0, false
			}
		}
	}
	if month == 0 || day == 0 || numbers > 2 {
		return 0, 0, 0, false
	}
	return check(day, month, year)
}
