package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"inncoin/domain/entities"

	"github.com/google/uuid"
)

const panelIDLength = 10

// DefaultRolePalette is the symbol sequence assigned to role panel options
var DefaultRolePalette = []string{"🔴", "🟢", "🔵", "🟡", "🟣"}

// DefaultFallbackSymbol is used once the palette is exhausted
const DefaultFallbackSymbol = "⚪"

// PanelRegistry stores panels by generated id. Panels are never removed.
type PanelRegistry struct {
	mu       sync.RWMutex
	panels   map[string]*entities.Panel
	palette  []string
	fallback string
	newID    func() string
}

// NewPanelRegistry creates an empty registry using the given symbol palette
func NewPanelRegistry(palette []string, fallback string) *PanelRegistry {
	if len(palette) == 0 {
		palette = DefaultRolePalette
	}
	if fallback == "" {
		fallback = DefaultFallbackSymbol
	}
	return &PanelRegistry{
		panels:   make(map[string]*entities.Panel),
		palette:  palette,
		fallback: fallback,
		newID:    shortID,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:panelIDLength]
}

// CreateTicketPanel stores a ticket panel for categoryID with 1 to 4 roles
func (r *PanelRegistry) CreateTicketPanel(categoryID string, roleIDs []string, now time.Time) (*entities.Panel, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidPanel)
	}
	roles := dedupe(roleIDs)
	if len(roles) < 1 || len(roles) > entities.MaxTicketRoles {
		return nil, fmt.Errorf("%w: ticket panels take 1 to %d roles, got %d", ErrInvalidPanel, entities.MaxTicketRoles, len(roles))
	}

	return r.store(&entities.Panel{
		Kind:       entities.PanelTicket,
		CreatedAt:  now,
		CategoryID: categoryID,
		RoleIDs:    roles,
	}), nil
}

// CreateRoleSelectPanel stores a role panel with 1 to 5 options. Each option
// receives the next palette symbol.
func (r *PanelRegistry) CreateRoleSelectPanel(options []entities.RoleOption, now time.Time) (*entities.Panel, error) {
	if len(options) < 1 || len(options) > entities.MaxRoleSelectRoles {
		return nil, fmt.Errorf("%w: role panels take 1 to %d roles, got %d", ErrInvalidPanel, entities.MaxRoleSelectRoles, len(options))
	}

	seen := make(map[string]bool, len(options))
	stored := make([]entities.RoleOption, 0, len(options))
	for _, option := range options {
		if seen[option.RoleID] {
			return nil, fmt.Errorf("%w: role %s listed twice", ErrInvalidPanel, option.RoleID)
		}
		seen[option.RoleID] = true
		option.Symbol = r.symbol(len(stored))
		stored = append(stored, option)
	}

	return r.store(&entities.Panel{
		Kind:      entities.PanelRoleSelect,
		CreatedAt: now,
		Options:   stored,
	}), nil
}

func (r *PanelRegistry) symbol(index int) string {
	if index < len(r.palette) {
		return r.palette[index]
	}
	return r.fallback
}

func (r *PanelRegistry) store(panel *entities.Panel) *entities.Panel {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, taken := r.panels[id]; taken; _, taken = r.panels[id] {
		id = r.newID()
	}
	panel.ID = id
	r.panels[id] = panel
	return panel
}

// Get returns the panel with id, if it exists
func (r *PanelRegistry) Get(id string) (*entities.Panel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	panel, ok := r.panels[id]
	return panel, ok
}

// Count returns the number of stored panels
func (r *PanelRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.panels)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
