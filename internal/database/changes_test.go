package database_test

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Body      string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func TestChunk(t *testing.T) {
	ids := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		ids = append(ids, string(rune('a'+i%26)))
	}

	tests := []struct {
		name  string
		ids   []string
		size  int
		sizes []int
	}{
		{"empty", nil, 25, []int{}},
		{"single partial chunk", ids[:3], 25, []int{3}},
		{"exact", ids[:25], 25, []int{25}},
		{"over limit", ids[:26], 25, []int{25, 1}},
		{"many", ids, 25, []int{25, 25, 10}},
		{"zero size uses limit", ids[:30], 0, []int{25, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := database.Chunk(tt.ids, tt.size)
			got := make([]int, 0, len(chunks))
			total := 0
			for _, c := range chunks {
				got = append(got, len(c))
				total += len(c)
			}
			assert.Equal(t, tt.sizes, got)
			assert.Equal(t, len(tt.ids), total)
		})
	}
}

func TestChanges_SetSkipsNil(t *testing.T) {
	c := database.Changes{}
	title := "new"
	var body *string

	database.Set(c, "title", &title)
	database.Set(c, "body", body)

	assert.True(t, c.Has("title"))
	assert.False(t, c.Has("body"))
	assert.False(t, c.Empty())
}

func TestChanges_ApplyOnlyTouchesRecordedColumns(t *testing.T) {
	db := dbtest.Open(t, &note{})
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&note{ID: "n1", Title: "old", Body: "keep", CreatedAt: created, UpdatedAt: created}).Error)

	c := database.Changes{}
	title := "fresh"
	pinned := true
	database.Set(c, "title", &title)
	database.Set(c, "pinned", &pinned)

	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	n, err := c.Apply(db, &note{}, "n1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var got note
	require.NoError(t, db.First(&got, "id = ?", "n1").Error)
	assert.Equal(t, "fresh", got.Title)
	assert.Equal(t, "keep", got.Body)
	assert.True(t, got.Pinned)
	assert.True(t, got.UpdatedAt.Equal(now))
}

func TestChanges_ApplyMissingRow(t *testing.T) {
	db := dbtest.Open(t, &note{})

	c := database.Changes{}
	c.Put("title", "x")
	n, err := c.Apply(db, &note{}, "ghost", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
