package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "")
	require.NoError(t, err)
	return s
}

func TestOpen_DefaultKey(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "officedesk_birthdays.json"), s.Path())

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_OverwriteKeepsID(t *testing.T) {
	s := open(t)

	first, replaced, err := s.Create(birthdays.CreateBirthdayRequest{FullName: "Asha Rao", Day: 15, Month: 8, Ward: "2"})
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Regexp(t, `^bday_\d+_[0-9a-f]{8}$`, first.ID)

	second, replaced, err := s.Create(birthdays.CreateBirthdayRequest{FullName: "asha rao", Day: 15, Month: 8, Ward: "5"})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, first.ID, second.ID)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "5", list[0].Ward)

	_, _, err = s.Create(birthdays.CreateBirthdayRequest{FullName: "Bad", Day: 30, Month: 2})
	assert.ErrorIs(t, err, birthdays.ErrInvalidDate)
}

func TestDeleteAndBulkDelete(t *testing.T) {
	s := open(t)
	var ids []string
	for _, name := range []string{"A", "B", "C", "D"} {
		b, _, err := s.Create(birthdays.CreateBirthdayRequest{FullName: name, Day: 1, Month: 2})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	require.NoError(t, s.Delete(ids[0]))
	require.NoError(t, s.Delete(ids[0]))

	n, err := s.BulkDelete([]string{ids[1], ids[2], "bday_unknown"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[3], list[0].ID)
}

func TestImport(t *testing.T) {
	s := open(t)
	_, _, err := s.Create(birthdays.CreateBirthdayRequest{FullName: "Asha Rao", Day: 5, Month: 6})
	require.NoError(t, err)

	resp, err := s.Import(&importer.Result{
		Records: []importer.Record{
			{Row: 2, FullName: "Asha Rao", Day: 5, Month: 6, ReminderTime: "09:00"},
			{Row: 3, FullName: "Vikram", Day: 12, Month: 8, Year: 1975, ReminderTime: "09:00"},
		},
		Errors: []string{"Row 4: missing name"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Replaced)
	assert.Equal(t, 1, resp.Failed)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Asha Rao", list[0].FullName)
	assert.Equal(t, 1975, list[1].YearOrZero())
}

func TestCorruptFile(t *testing.T) {
	s := open(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.List()
	assert.Error(t, err)
}
