package appointments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("status must be one of scheduled, going, not-going")
	ErrProgramNameRequired = errors.New("programName is required")
	ErrStartTimeRequired   = errors.New("startTime is required")
	ErrInvalidStartTime    = errors.New("startTime must be an ISO-8601 date-time")
	ErrNoAppointmentIDs    = errors.New("appointmentIds must be a non-empty list")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// IsValidationError reports whether err should be answered with 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrProgramNameRequired) ||
		errors.Is(err, ErrStartTimeRequired) ||
		errors.Is(err, ErrInvalidStartTime) ||
		errors.Is(err, ErrNoAppointmentIDs) ||
		errors.Is(err, ErrNoFieldsToUpdate)
}

type AppointmentService struct {
	db  *gorm.DB
	ids *idGenerator
	now func() time.Time
}

func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db, ids: newIDGenerator(), now: time.Now}
}

// Create stores a new appointment for userID. Status always starts as scheduled.
func (s *AppointmentService) Create(userID string, req CreateAppointmentRequest) (*Appointment, error) {
	programName := strings.TrimSpace(req.ProgramName)
	if programName == "" {
		return nil, ErrProgramNameRequired
	}
	if _, err := ParseStartTime(req.StartTime); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appt := Appointment{
		ID:            s.ids.Next(),
		UserID:        userID,
		ProgramName:   programName,
		Address:       req.Address,
		StartTime:     strings.TrimSpace(req.StartTime),
		Status:        StatusScheduled,
		IsUrgent:      req.IsUrgent,
		Notes:         req.Notes,
		EventFrom:     req.EventFrom,
		ContactNumber: req.ContactNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.Create(&appt).Error; err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &appt, nil
}

func (s *AppointmentService) GetByID(id string) (*Appointment, error) {
	var appt Appointment
	if err := s.db.First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	return &appt, nil
}

// ListAll returns every appointment ordered by start time. There is no
// per-user filter: every session sees the whole office schedule.
func (s *AppointmentService) ListAll() ([]Appointment, error) {
	appts := make([]Appointment, 0)
	if err := s.db.Order("start_time ASC").Order("id ASC").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// Replace overwrites every editable field of an existing appointment.
func (s *AppointmentService) Replace(id string, req ReplaceAppointmentRequest) (*Appointment, error) {
	if strings.TrimSpace(req.ProgramName) == "" {
		return nil, ErrProgramNameRequired
	}
	if _, err := ParseStartTime(req.StartTime); err != nil {
		return nil, err
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	c := database.Changes{}
	c.Put("program_name", strings.TrimSpace(req.ProgramName))
	c.Put("address", req.Address)
	c.Put("start_time", strings.TrimSpace(req.StartTime))
	c.Put("is_urgent", req.IsUrgent)
	c.Put("notes", req.Notes)
	c.Put("event_from", req.EventFrom)
	c.Put("contact_number", req.ContactNumber)
	database.Set(c, "status", req.Status)

	return s.Update(id, c)
}

// Patch applies only the fields present in req.
func (s *AppointmentService) Patch(id string, req PatchAppointmentRequest) (*Appointment, error) {
	c := database.Changes{}

	if req.ProgramName != nil {
		name := strings.TrimSpace(*req.ProgramName)
		if name == "" {
			return nil, ErrProgramNameRequired
		}
		c.Put("program_name", name)
	}
	if req.StartTime != nil {
		if _, err := ParseStartTime(*req.StartTime); err != nil {
			return nil, err
		}
		c.Put("start_time", strings.TrimSpace(*req.StartTime))
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}
	database.Set(c, "status", req.Status)
	database.Set(c, "address", req.Address)
	database.Set(c, "is_urgent", req.IsUrgent)
	database.Set(c, "notes", req.Notes)
	database.Set(c, "event_from", req.EventFrom)
	database.Set(c, "contact_number", req.ContactNumber)

	if c.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.Update(id, c)
}

func (s *AppointmentService) UpdateStatus(id, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	c := database.Changes{}
	c.Put("status", status)
	return s.Update(id, c)
}

// Update writes the recorded columns to an existing appointment and returns
// the stored result. updatedAt is always refreshed.
func (s *AppointmentService) Update(id string, c database.Changes) (*Appointment, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	n, err := c.Apply(s.db, &Appointment{}, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if n == 0 {
		// deleted between the lookup and the write
		return nil, ErrAppointmentNotFound
	}
	return s.GetByID(id)
}

func (s *AppointmentService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&Appointment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// BulkDelete removes ids in chunks of database.BatchWriteLimit, one statement
// per chunk, and returns how many rows went. Unknown ids are ignored.
func (s *AppointmentService) BulkDelete(ids []string) (int64, error) {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoAppointmentIDs
	}

	var deleted int64
	for _, chunk := range database.Chunk(ids, database.BatchWriteLimit) {
		result := s.db.Where("id IN ?", chunk).Delete(&Appointment{})
		if result.Error != nil {
			return deleted, fmt.Errorf("failed to bulk delete appointments: %w", result.Error)
		}
		deleted += result.RowsAffected
	}
	return deleted, nil
}

func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
