// Package localstore keeps birthdays in a JSON file on the operator's
// machine, for offline use without the server. Records follow the same
// rules as the server: same ids, same validation, overwrite on duplicate.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
)

const DefaultKey = "officedesk_birthdays"

// Store is a JSON array of birthdays at <dir>/<key>.json. It is safe for
// use by one process; nothing coordinates concurrent writers.
type Store struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func Open(dir, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, key+".json"), now: time.Now}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() ([]birthdays.Birthday, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []birthdays.Birthday{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}
	list := make([]birthdays.Birthday, 0)
	if len(data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse local store %s: %w", s.path, err)
	}
	return list, nil
}

// save writes to a temp file and renames it over the store so a crash
// never leaves a half-written array.
func (s *Store) save(list []birthdays.Birthday) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}

// List returns the stored birthdays in calendar order.
func (s *Store) List() ([]birthdays.Birthday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.FullName < b.FullName
	})
	return list, nil
}

// upsert applies req to list, overwriting a record with the same name and
// date in place.
func (s *Store) upsert(list []birthdays.Birthday, req birthdays.CreateBirthdayRequest) ([]birthdays.Birthday, birthdays.Birthday, bool, error) {
	if err := birthdays.Normalize(&req); err != nil {
		return list, birthdays.Birthday{}, false, err
	}
	now := s.now().UTC()
	probe := birthdays.Birthday{FullName: req.FullName, Day: req.Day, Month: req.Month, Year: req.Year}
	for i := range list {
		if birthdays.SameIdentity(&list[i], &probe) {
			req.Apply(&list[i])
			list[i].UpdatedAt = now
			return list, list[i], true, nil
		}
	}
	b := birthdays.Birthday{ID: birthdays.NewID(), CreatedAt: now, UpdatedAt: now}
	req.Apply(&b)
	return append(list, b), b, false, nil
}

// Create stores req, returning the record and whether it overwrote one.
func (s *Store) Create(req birthdays.CreateBirthdayRequest) (*birthdays.Birthday, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return nil, false, err
	}
	list, b, replaced, err := s.upsert(list, req)
	if err != nil {
		return nil, false, err
	}
	if err := s.save(list); err != nil {
		return nil, false, err
	}
	return &b, replaced, nil
}

// Delete removes id. Missing ids are ignored.
func (s *Store) Delete(id string) error {
	_, err := s.BulkDelete([]string{id})
	return err
}

// BulkDelete removes ids and reports how many records went.
func (s *Store) BulkDelete(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return 0, err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := list[:0]
	for _, b := range list {
		if !drop[b.ID] {
			kept = append(kept, b)
		}
	}
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(kept)
}

// Import writes parsed records in one save. Row errors from parsing are
// carried into the response.
func (s *Store) Import(res *importer.Result) (*birthdays.ImportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}

	resp := &birthdays.ImportResponse{
		Failed:   len(res.Errors),
		Errors:   append([]string{}, res.Errors...),
		Warnings: append([]string{}, res.Warnings...),
	}
	for _, rec := range res.Records {
		var replaced bool
		list, _, replaced, err = s.upsert(list, birthdays.FromRecord(rec))
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
	if err := s.save(list); err != nil {
		return nil, err
	}
	return resp, nil
}
