package org

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_MissingFallsBackToDefaults(t *testing.T) {
	r, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultID, r.DefaultID())
	assert.True(t, r.Exists(DefaultID))
	assert.True(t, r.Exists(SecondaryID))
	assert.Len(t, r.All(), 2)
}

func TestDefaults_RoleViews(t *testing.T) {
	r := Defaults()

	tests := []struct {
		org, role     string
		statusActions []string
		canCreate     bool
		canExport     bool
	}{
		{DefaultID, "mla", []string{"going", "not-going"}, false, false},
		{DefaultID, "pa", []string{}, true, false},
		{DefaultID, "intern", []string{}, true, false},
		{SecondaryID, "mla", []string{"going"}, false, true},
		{SecondaryID, "pa", []string{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.org+"/"+tt.role, func(t *testing.T) {
			v := r.Get(tt.org).ViewFor(tt.role)
			assert.Equal(t, tt.statusActions, v.StatusActions)
			assert.Equal(t, tt.canCreate, v.Allows(ActionCreate))
			assert.Equal(t, tt.canExport, v.Allows(ActionExport))
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"default": "north",
		"orgs": [
			{"org_id": "north", "name": "North", "features": {"birthdays": true},
			 "views": {"mla": {"status_actions": ["going"], "actions": []}}},
			{"org_id": "south", "name": "South"}
		]
	}`), 0o600))

	r, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "north", r.DefaultID())
	assert.True(t, r.HasFeature("north", "birthdays"))
	assert.False(t, r.HasFeature("south", "birthdays"))
	assert.False(t, r.HasFeature("east", "birthdays"))
	assert.Equal(t, []string{"going"}, r.Get("north").ViewFor("mla").StatusActions)
	assert.Equal(t, "north", r.All()[0].OrgID)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"garbage":         `{`,
		"empty":           `{"orgs": []}`,
		"unknown default": `{"default": "x", "orgs": [{"org_id": "a"}]}`,
		"missing id":      `{"orgs": [{"name": "a"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}
