package birthdays

import (
	"time"
)

type Birthday struct {
	ID       string `gorm:"type:varchar(48);primaryKey" json:"id"`
	FullName string `gorm:"size:255;not null" json:"fullName"`
	// NameKey is NameKey(FullName), folded in Go so lookups do not depend on
	// the database's LOWER.
	NameKey      string    `gorm:"size:255;index:idx_birthdays_name_key" json:"-"`
	Day          int       `gorm:"not null;index:idx_birthdays_month_day,priority:2" json:"day"`
	Month        int       `gorm:"not null;index:idx_birthdays_month_day,priority:1" json:"month"`
	Year         *int      `json:"year,omitempty"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Ward         string    `gorm:"size:100;index" json:"ward"`
	ReminderTime string    `gorm:"size:5;not null" json:"reminderTime"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// YearOrZero returns the birth year, 0 when unknown.
func (b *Birthday) YearOrZero() int {
	if b.Year == nil {
		return 0
	}
	return *b.Year
}

// --- DTOs ---

type CreateBirthdayRequest struct {
	FullName     string `json:"fullName"`
	Day          int    `json:"day"`
	Month        int    `json:"month"`
	Year         *int   `json:"year,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Ward         string `json:"ward,omitempty"`
	ReminderTime string `json:"reminderTime,omitempty"`
}

// CreateBirthdayResponse is the stored record plus whether an existing
// record with the same name and date was overwritten.
type CreateBirthdayResponse struct {
	Birthday
	WasReplaced bool `json:"wasReplaced"`
}

type PatchBirthdayRequest struct {
	FullName     *string `json:"fullName"`
	Day          *int    `json:"day"`
	Month        *int    `json:"month"`
	Year         *int    `json:"year"`
	ClearYear    bool    `json:"clearYear"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Ward         *string `json:"ward"`
	ReminderTime *string `json:"reminderTime"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type BulkWardRequest struct {
	Ward string `json:"ward"`
}

type BulkWardResponse struct {
	Updated int64 `json:"updated"`
}

type CleanupResponse struct {
	Removed []string `json:"removed"`
	Count   int      `json:"count"`
}

type ImportResponse struct {
	Imported int      `json:"imported"`
	Replaced int      `json:"replaced"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Archive  string   `json:"archiveKey,omitempty"`
}

type DuplicatesResponse struct {
	Groups [][]Birthday `json:"groups"`
}

type UpcomingBirthday struct {
	Birthday
	Date     string `json:"date"`
	DaysAway int    `json:"daysAway"`
	Turning  *int   `json:"turning,omitempty"`
}
