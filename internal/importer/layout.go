package importer

import (
	"errors"
	"strings"
)

type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutFields has separate day, month and optional year columns.
	LayoutFields
	// LayoutNameDOB has a free-text "date of birth" column.
	LayoutNameDOB
	// LayoutNameBirthday has a free-text "birthday" column.
	LayoutNameBirthday
)

func (l Layout) String() string {
	switch l {
	case LayoutFields:
		return "fields"
	case LayoutNameDOB:
		return "name+dob"
	case LayoutNameBirthday:
		return "name+birthday"
	default:
		return "unknown"
	}
}

var ErrUnsupportedLayout = errors.New("unsupported file layout: expected columns name, day, month (or name with date of birth / birthday)")

// Columns maps each known field to its index in the row; -1 when absent.
type Columns struct {
	Name, Day, Month, Year, Date   int
	Address, Phone, Ward, Reminder int
}

var headerAliases = map[string][]string{
	"name":     {"name", "full name", "fullname"},
	"day":      {"day"},
	"month":    {"month"},
	"year":     {"year"},
	"dob":      {"date of birth", "dob", "d.o.b", "d.o.b."},
	"birthday": {"birthday", "birth date", "birthdate", "birth day"},
	"address":  {"address"},
	"phone":    {"phone", "phone number", "mobile", "mobile number", "contact", "contact number"},
	"ward":     {"ward", "ward no", "ward number"},
	"reminder": {"reminder time", "reminder", "remindertime", "time"},
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func findColumn(index map[string]int, field string) int {
	for _, alias := range headerAliases[field] {
		if i, ok := index[alias]; ok {
			return i
		}
	}
	return -1
}

// DetectLayout inspects the header row. It fails with ErrUnsupportedLayout
// when no name column or no usable date columns are present.
func DetectLayout(header []string) (Layout, Columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}

	cols := Columns{
		Name:     findColumn(index, "name"),
		Day:      findColumn(index, "day"),
		Month:    findColumn(index, "month"),
		Year:     findColumn(index, "year"),
		Date:     -1,
		Address:  findColumn(index, "address"),
		Phone:    findColumn(index, "phone"),
		Ward:     findColumn(index, "ward"),
		Reminder: findColumn(index, "reminder"),
	}
	if cols.Name < 0 {
		return LayoutUnknown, cols, ErrUnsupportedLayout
	}

	if cols.Day >= 0 && cols.Month >= 0 {
		return LayoutFields, cols, nil
	}
	if i := findColumn(index, "dob"); i >= 0 {
		cols.Date = i
		return LayoutNameDOB, cols, nil
	}
	if i := findColumn(index, "birthday"); i >= 0 {
		cols.Date = i
		return LayoutNameBirthday, cols, nil
	}
	return LayoutUnknown, cols, ErrUnsupportedLayout
}
