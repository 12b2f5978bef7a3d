package birthdays

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer/dates"
	"github.com/google/uuid"
)

var (
	idMu     sync.Mutex
	idNow    = time.Now
	idSuffix = defaultSuffix
)

func defaultSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewID returns bday_<unix-millis>_<random8>.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return "bday_" + strconv.FormatInt(idNow().UnixMilli(), 10) + "_" + idSuffix()
}

// ValidDate checks day and month against the year, or against a leap year
// when the year is unknown.
func ValidDate(day, month int, year *int) bool {
	y := 0
	if year != nil {
		y = *year
	}
	return dates.Valid(day, month, y)
}

// SameIdentity reports whether a and b name the same person on the same
// date: the key used to overwrite instead of duplicating.
func SameIdentity(a, b *Birthday) bool {
	return NameKey(a.FullName) == NameKey(b.FullName) &&
		a.Day == b.Day && a.Month == b.Month &&
		a.YearOrZero() == b.YearOrZero()
}

func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Normalize validates req and fills defaults. It is shared by the server
// and the offline store so both accept the same records.
func Normalize(req *CreateBirthdayRequest) error {
	req.FullName = strings.Join(strings.Fields(req.FullName), " ")
	if req.FullName == "" {
		return ErrNameRequired
	}
	if req.Year != nil && *req.Year == 0 {
		req.Year = nil
	}
	if !ValidDate(req.Day, req.Month, req.Year) {
		return ErrInvalidDate
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Ward = strings.TrimSpace(req.Ward)
	if req.Phone != "" {
		phone, ok := importer.NormalizePhone(req.Phone)
		if !ok {
			return ErrInvalidPhone
		}
		req.Phone = phone
	}
	if req.ReminderTime == "" {
		req.ReminderTime = importer.DefaultReminderTime
	} else {
		t, ok := importer.NormalizeClock(req.ReminderTime)
		if !ok {
			return ErrInvalidReminderTime
		}
		req.ReminderTime = t
	}
	return nil
}

// FromRecord converts an imported row into a create request.
func FromRecord(r importer.Record) CreateBirthdayRequest {
	req := CreateBirthdayRequest{
		FullName:     r.FullName,
		Day:          r.Day,
		Month:        r.Month,
		Address:      r.Address,
		Phone:        r.Phone,
		Ward:         r.Ward,
		ReminderTime: r.ReminderTime,
	}
	if r.Year != 0 {
		y := r.Year
		req.Year = &y
	}
	return req
}

// Apply copies req onto b, keeping b's id and creation time.
func (req CreateBirthdayRequest) Apply(b *Birthday) {
	b.FullName = req.FullName
	b.NameKey = NameKey(req.FullName)
	b.Day = req.Day
	b.Month = req.Month
	b.Year = req.Year
	b.Address = req.Address
	b.Phone = req.Phone
	b.Ward = req.Ward
	b.ReminderTime = req.ReminderTime
}
