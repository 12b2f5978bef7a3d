package birthdays

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
	"gorm.io/gorm"
)

var (
	ErrBirthdayNotFound    = errors.New("birthday not found")
	ErrNameRequired        = errors.New("fullName is required")
	ErrInvalidDate         = errors.New("day and month do not form a valid date")
	ErrInvalidPhone        = errors.New("phone must have 10 digits")
	ErrInvalidReminderTime = errors.New("reminderTime must be HH:MM")
	ErrNoIDs               = errors.New("ids must be a non-empty list")
	ErrWardRequired        = errors.New("ward is required")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// IsValidationError reports whether err should be answered with 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrInvalidReminderTime) ||
		errors.Is(err, ErrNoIDs) ||
		errors.Is(err, ErrWardRequired) ||
		errors.Is(err, ErrNoFieldsToUpdate)
}

type BirthdayService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBirthdayService(db *gorm.DB) *BirthdayService {
	return &BirthdayService{db: db, now: time.Now}
}

// FindByNameAndDate returns the record with the same name (case and spacing
// ignored), day, month and year, or nil.
func (s *BirthdayService) FindByNameAndDate(name string, day, month int, year *int) (*Birthday, error) {
	q := s.db.Where("name_key = ? AND day = ? AND month = ?", NameKey(name), day, month)
	if year == nil {
		q = q.Where("year IS NULL")
	} else {
		q = q.Where("year = ?", *year)
	}

	var b Birthday
	if err := q.Order("created_at ASC").First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up birthday: %w", err)
	}
	return &b, nil
}

// Create stores req. When a record with the same name and date exists it
// is overwritten in place, keeping its id, and wasReplaced is true.
func (s *BirthdayService) Create(req CreateBirthdayRequest) (*Birthday, bool, error) {
	if err := Normalize(&req); err != nil {
		return nil, false, err
	}

	existing, err := s.FindByNameAndDate(req.FullName, req.Day, req.Month, req.Year)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	if existing != nil {
		req.Apply(existing)
		existing.UpdatedAt = now
		if err := s.db.Save(existing).Error; err != nil {
			return nil, false, fmt.Errorf("failed to overwrite birthday: %w", err)
		}
		return existing, true, nil
	}

	b := Birthday{ID: NewID(), CreatedAt: now, UpdatedAt: now}
	req.Apply(&b)
	if err := s.db.Create(&b).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create birthday: %w", err)
	}
	return &b, false, nil
}

func (s *BirthdayService) GetByID(id string) (*Birthday, error) {
	var b Birthday
	if err := s.db.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBirthdayNotFound
		}
		return nil, fmt.Errorf("failed to load birthday: %w", err)
	}
	return &b, nil
}

// ListAll returns every birthday in calendar order.
func (s *BirthdayService) ListAll() ([]Birthday, error) {
	list := make([]Birthday, 0)
	if err := s.db.Order("month ASC").Order("day ASC").Order("full_name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", err)
	}
	return list, nil
}

// Update applies the supplied fields. The resulting day/month/year must
// still be a valid date.
func (s *BirthdayService) Update(id string, req PatchBirthdayRequest) (*Birthday, error) {
	current, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	c := database.Changes{}
	if req.FullName != nil {
		name := strings.Join(strings.Fields(*req.FullName), " ")
		if name == "" {
			return nil, ErrNameRequired
		}
		c.Put("full_name", name)
		c.Put("name_key", NameKey(name))
	}
	if req.Phone != nil && *req.Phone != "" {
		phone, ok := importer.NormalizePhone(*req.Phone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		c.Put("phone", phone)
	} else {
		database.Set(c, "phone", req.Phone)
	}
	if req.ReminderTime != nil {
		t, ok := importer.NormalizeClock(*req.ReminderTime)
		if !ok {
			return nil, ErrInvalidReminderTime
		}
		c.Put("reminder_time", t)
	}

	day, month, year := current.Day, current.Month, current.Year
	if req.Day != nil {
		day = *req.Day
		c.Put("day", day)
	}
	if req.Month != nil {
		month = *req.Month
		c.Put("month", month)
	}
	switch {
	case req.ClearYear:
		year = nil
		c.Put("year", nil)
	case req.Year != nil:
		year = req.Year
		c.Put("year", *req.Year)
	}
	if !ValidDate(day, month, year) {
		return nil, ErrInvalidDate
	}

	database.Set(c, "address", req.Address)
	database.Set(c, "ward", req.Ward)

	if c.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	n, err := c.Apply(s.db, &Birthday{}, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update birthday: %w", err)
	}
	if n == 0 {
		return nil, ErrBirthdayNotFound
	}
	return s.GetByID(id)
}

// Delete removes id. Deleting a missing record is not an error.
func (s *BirthdayService) Delete(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&Birthday{}).Error; err != nil {
		return fmt.Errorf("failed to delete birthday: %w", err)
	}
	return nil
}

// BulkDelete removes ids in chunks of database.BatchWriteLimit.
func (s *BirthdayService) BulkDelete(ids []string) (int64, error) {
	clean := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, ErrNoIDs
	}
	return s.deleteChunks(clean)
}

func (s *BirthdayService) deleteChunks(ids []string) (int64, error) {
	var deleted int64
	for _, chunk := range database.Chunk(ids, database.BatchWriteLimit) {
		result := s.db.Where("id IN ?", chunk).Delete(&Birthday{})
		if result.Error != nil {
			return deleted, fmt.Errorf("failed to bulk delete birthdays: %w", result.Error)
		}
		deleted += result.RowsAffected
	}
	return deleted, nil
}

// BulkUpdateWard assigns ward to every record that has none yet.
func (s *BirthdayService) BulkUpdateWard(ward string) (int64, error) {
	ward = strings.TrimSpace(ward)
	if ward == "" {
		return 0, ErrWardRequired
	}

	result := s.db.Model(&Birthday{}).
		Where("ward = ? OR ward IS NULL", "").
		Updates(map[string]interface{}{"ward": ward, "updated_at": s.now().UTC()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update wards: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Cleanup deletes records without a name or with an impossible date and
// returns their ids.
func (s *BirthdayService) Cleanup() ([]string, error) {
	list, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0)
	for _, b := range list {
		if NameKey(b.FullName) == "" || !ValidDate(b.Day, b.Month, b.Year) {
			removed = append(removed, b.ID)
		}
	}
	if len(removed) == 0 {
		return removed, nil
	}
	if _, err := s.deleteChunks(removed); err != nil {
		return nil, err
	}
	return removed, nil
}

// Import creates every parsed record. It is not transactional: a failing
// row is reported and the rest still go in.
func (s *BirthdayService) Import(res *importer.Result) *ImportResponse {
	resp := &ImportResponse{
		Failed:   len(res.Errors),
		Errors:   append(make([]string, 0, len(res.Errors)), res.Errors...),
		Warnings: append(make([]string, 0, len(res.Warnings)), res.Warnings...),
	}

	for _, rec := range res.Records {
		_, replaced, err := s.Create(FromRecord(rec))
		switch {
		case err != nil:
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("Row %d: %v", rec.Row, err))
		case replaced:
			resp.Replaced++
		default:
			resp.Imported++
		}
	}
	return resp
}
