// Package knowledge holds the knowledge-base document the assistant answers
// from: per-day categories of localized messages, details and links.
package knowledge

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/academydays/hubby/internal/lang"
)

// Document is the complete knowledge base, keyed by day identifier.
type Document struct {
	Days     map[string]Day `json:"days"`
	Fallback lang.Text      `json:"fallback,omitempty"`
}

// Day maps a category (action) identifier to its content.
type Day map[string]*Category

// Decode reads a JSON knowledge-base document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding knowledge base: %w", err)
	}
	if doc.Days == nil {
		doc.Days = map[string]Day{}
	}
	return &doc, nil
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// HasDay reports whether the document carries content for day.
func (d *Document) HasDay(day string) bool {
	if d == nil {
		return false
	}
	_, ok := d.Days[day]
	return ok
}

// Category returns the content of action on day.
func (d *Document) Category(day, action string) (*Category, bool) {
	if d == nil {
		return nil, false
	}
	dayEntry, ok := d.Days[day]
	if !ok {
		return nil, false
	}
	c, ok := dayEntry[action]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// Put stores c under day/action, creating the day if needed.
func (d *Document) Put(day, action string, c *Category) {
	if d.Days == nil {
		d.Days = map[string]Day{}
	}
	if d.Days[day] == nil {
		d.Days[day] = Day{}
	}
	d.Days[day][action] = c
}
