package appointments

import (
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusGoing     = "going"
	StatusNotGoing  = "not-going"
)

var Statuses = []string{StatusScheduled, StatusGoing, StatusNotGoing}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID            string    `gorm:"type:varchar(40);primaryKey" json:"id"`
	UserID        string    `gorm:"size:36;index:idx_appointments_user_start,priority:1" json:"userId"`
	ProgramName   string    `gorm:"size:255;not null" json:"programName"`
	Address       string    `gorm:"type:text" json:"address"`
	StartTime     string    `gorm:"size:40;not null;index:idx_appointments_user_start,priority:2" json:"startTime"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	IsUrgent      bool      `gorm:"not null" json:"isUrgent"`
	Notes         string    `gorm:"type:text" json:"notes"`
	EventFrom     string    `gorm:"size:255" json:"eventFrom"`
	ContactNumber string    `gorm:"size:30" json:"contactNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Start parses StartTime. Zero time when it does not parse.
func (a *Appointment) Start() time.Time {
	t, err := ParseStartTime(a.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- DTOs ---

type CreateAppointmentRequest struct {
	ProgramName   string `json:"programName"`
	Address       string `json:"address"`
	StartTime     string `json:"startTime"`
	IsUrgent      bool   `json:"isUrgent"`
	Notes         string `json:"notes"`
	EventFrom     string `json:"eventFrom"`
	ContactNumber string `json:"contactNumber"`
}

// ReplaceAppointmentRequest is the PUT body. Every field is written; Status
// is kept when omitted.
type ReplaceAppointmentRequest struct {
	ProgramName   string  `json:"programName"`
	Address       string  `json:"address"`
	StartTime     string  `json:"startTime"`
	Status        *string `json:"status"`
	IsUrgent      bool    `json:"isUrgent"`
	Notes         string  `json:"notes"`
	EventFrom     string  `json:"eventFrom"`
	ContactNumber string  `json:"contactNumber"`
}

// PatchAppointmentRequest is the PATCH body; only non-nil fields change.
type PatchAppointmentRequest struct {
	ProgramName   *string `json:"programName"`
	Address       *string `json:"address"`
	StartTime     *string `json:"startTime"`
	Status        *string `json:"status"`
	IsUrgent      *bool   `json:"isUrgent"`
	Notes         *string `json:"notes"`
	EventFrom     *string `json:"eventFrom"`
	ContactNumber *string `json:"contactNumber"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type BulkDeleteRequest struct {
	AppointmentIDs []string `json:"appointmentIds"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
