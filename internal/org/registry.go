package org

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
)

const (
	DefaultID   = "office"
	SecondaryID = "office-secondary"
)

// Role view actions.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionExport = "export"
)

// View is what a role sees inside an organisation: which status transitions
// it may trigger and which action buttons it gets.
type View struct {
	StatusActions []string `json:"status_actions"`
	Actions       []string `json:"actions"`
}

func (v View) Allows(action string) bool {
	for _, a := range v.Actions {
		if a == action {
			return true
		}
	}
	return false
}

type Config struct {
	OrgID    string          `json:"org_id"`
	Name     string          `json:"name"`
	Features map[string]bool `json:"features"`
	Views    map[string]View `json:"views"`
	// Fallback is the view for roles missing from Views.
	Fallback View `json:"fallback"`
}

// ViewFor returns the configured view for role, or the fallback.
func (c *Config) ViewFor(role string) View {
	if v, ok := c.Views[role]; ok {
		return v
	}
	return c.Fallback
}

type File struct {
	Default string   `json:"default"`
	Orgs    []Config `json:"orgs"`
}

type Registry struct {
	mu        sync.RWMutex
	orgs      map[string]*Config
	defaultID string
}

func NewRegistry() *Registry {
	return &Registry{
		orgs:      make(map[string]*Config),
		defaultID: DefaultID,
	}
}

// Defaults returns the built-in registry: the main office with a staff and a
// principal view, and the secondary organisation's variant.
func Defaults() *Registry {
	staff := View{
		StatusActions: []string{},
		Actions:       []string{ActionCreate, ActionEdit, ActionDelete, ActionImport},
	}
	principal := View{
		StatusActions: []string{"going", "not-going"},
		Actions:       []string{},
	}

	r := NewRegistry()
	r.Register(&Config{
		OrgID:    DefaultID,
		Name:     "Office",
		Features: map[string]bool{"birthdays": true, "import": true, "export": true},
		Views:    map[string]View{"pa": staff, "mla": principal, "admin": staff},
		Fallback: staff,
	})
	r.Register(&Config{
		OrgID:    SecondaryID,
		Name:     "Secondary Office",
		Features: map[string]bool{"birthdays": true, "export": true},
		Views: map[string]View{
			"pa":  {StatusActions: []string{}, Actions: []string{ActionCreate, ActionEdit, ActionDelete, ActionExport}},
			"mla": {StatusActions: []string{"going"}, Actions: []string{ActionExport}},
		},
		Fallback: View{StatusActions: []string{"going"}, Actions: []string{ActionExport}},
	})
	return r
}

// LoadFromFile reads an orgs.json registry. A missing file yields Defaults.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read orgs config: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse orgs config: %w", err)
	}
	if len(file.Orgs) == 0 {
		return nil, fmt.Errorf("orgs config %s lists no organisations", path)
	}

	registry := NewRegistry()
	for i := range file.Orgs {
		if file.Orgs[i].OrgID == "" {
			return nil, fmt.Errorf("orgs config entry %d has no org_id", i)
		}
		registry.Register(&file.Orgs[i])
	}
	switch {
	case file.Default != "":
		if !registry.Exists(file.Default) {
			return nil, fmt.Errorf("default org %q is not configured", file.Default)
		}
		registry.defaultID = file.Default
	case !registry.Exists(DefaultID):
		registry.defaultID = file.Orgs[0].OrgID
	}
	return registry, nil
}

func (r *Registry) Register(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs[cfg.OrgID] = cfg
}

func (r *Registry) Get(orgID string) *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orgs[orgID]
}

func (r *Registry) Exists(orgID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orgs[orgID]
	return ok
}

func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

func (r *Registry) HasFeature(orgID, feature string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.orgs[orgID]
	if !ok {
		return false
	}
	return cfg.Features[feature]
}

// All returns the organisations sorted by id.
func (r *Registry) All() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Config, 0, len(r.orgs))
	for _, cfg := range r.orgs {
		result = append(result, cfg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrgID < result[j].OrgID })
	return result
}
