// Package prefs persists the two per-visitor preferences: the interface
// language and the population tag picked on the landing page.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/academydays/hubby/internal/db"
	"github.com/academydays/hubby/internal/lang"
)

// Preference keys.
const (
	KeyLanguage   = "hubbyLang"
	KeyPopulation = "hubbyPopulation"
)

// ErrUnknownKey is returned for keys other than the two preferences.
var ErrUnknownKey = errors.New("unknown preference key")

func checkKey(key string) error {
	if key != KeyLanguage && key != KeyPopulation {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Store reads and writes visitor preferences in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new preference store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the stored value, and false when none is stored.
func (s *Store) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM visitor_preferences WHERE visitor_id = ? AND key = ?`,
		visitorID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting preference: %w", err)
	}
	return value, true, nil
}

// Set stores value, replacing any previous one.
func (s *Store) Set(ctx context.Context, visitorID, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitor_preferences (visitor_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		visitorID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting preference: %w", err)
	}
	return nil
}

// All returns every stored preference of a visitor.
func (s *Store) All(ctx context.Context, visitorID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM visitor_preferences WHERE visitor_id = ?`, visitorID)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Visitor binds a store to one visitor.
func (s *Store) Visitor(ctx context.Context, visitorID string) *Visitor {
	return &Visitor{ctx: ctx, store: s, id: visitorID}
}

// Visitor is the preference view of a single visitor.
type Visitor struct {
	ctx   context.Context
	store *Store
	id    string
}

func (v *Visitor) Get(key string) (string, bool) {
	value, ok, err := v.store.Get(v.ctx, v.id, key)
	if err != nil {
		return "", false
	}
	return value, ok
}

func (v *Visitor) Set(key, value string) error {
	return v.store.Set(v.ctx, v.id, key, value)
}

// Memory is an in-process preference set, used by the terminal and tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

// Getter is satisfied by Visitor and Memory.
type Getter interface {
	Get(key string) (string, bool)
}

// Language returns the stored language, defaulting to French when absent or
// invalid.
func Language(g Getter) lang.Language {
	if g == nil {
		return lang.Default
	}
	v, ok := g.Get(KeyLanguage)
	if !ok || !lang.Valid(v) {
		return lang.Default
	}
	return lang.Parse(v)
}

// Population returns the stored population tag, or "".
func Population(g Getter) string {
	if g == nil {
		return ""
	}
	v, _ := g.Get(KeyPopulation)
	return v
}
