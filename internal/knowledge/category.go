package knowledge

import (
	"encoding/json"
	"fmt"

	"github.com/academydays/hubby/internal/lang"
)

// Category is the content answered for one action on one day.
//
// On the wire the localized message lives directly on the category object
// under the language keys ("fr", "en"), next to "details", "link" and
// "linkLabel". Spreadsheet-derived categories also carry "entries".
type Category struct {
	Message lang.Text
	Details Details
	Link    *Link
	Entries []Entry
}

// Link is an optional hyperlink attached to a category.
type Link struct {
	URL   string    `json:"url"`
	Label lang.Text `json:"label,omitempty"`
}

// Derived reports whether the category was built from spreadsheet rows.
func (c *Category) Derived() bool { return len(c.Entries) > 0 }

// UnmarshalJSON accepts the loose shapes the static document uses.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("category: %w", err)
	}

	var linkLabel lang.Text
	for key, value := range raw {
		switch key {
		case "details":
			if err := json.Unmarshal(value, &c.Details); err != nil {
				return fmt.Errorf("category details: %w", err)
			}
		case "link":
			link, err := decodeLink(value)
			if err != nil {
				return err
			}
			c.Link = link
		case "linkLabel":
			label, err := decodeText(value)
			if err != nil {
				return fmt.Errorf("category linkLabel: %w", err)
			}
			linkLabel = label
		case "entries":
			if err := json.Unmarshal(value, &c.Entries); err != nil {
				return fmt.Errorf("category entries: %w", err)
			}
		default:
			if !lang.Valid(key) {
				continue
			}
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("category message %q: %w", key, err)
			}
			c.Message.Set(lang.Parse(key), s)
		}
	}

	if c.Link != nil && c.Link.Label.Empty() && !linkLabel.Empty() {
		c.Link.Label = linkLabel
	}
	return nil
}

// MarshalJSON writes the canonical object form.
func (c Category) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	for code, msg := range c.Message {
		if msg != "" {
			out[code] = msg
		}
	}
	if !c.Details.Empty() {
		out["details"] = c.Details
	}
	if c.Link != nil && c.Link.URL != "" {
		out["link"] = c.Link
	}
	if len(c.Entries) > 0 {
		out["entries"] = c.Entries
	}
	return json.Marshal(out)
}

// decodeLink accepts either a URL string or an object {url, label}.
func decodeLink(data []byte) (*Link, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			return nil, nil
		}
		return &Link{URL: s}, nil
	}

	var obj struct {
		URL   string          `json:"url"`
		Label json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("category link: %w", err)
	}
	if obj.URL == "" {
		return nil, nil
	}
	link := &Link{URL: obj.URL}
	if len(obj.Label) > 0 {
		label, err := decodeText(obj.Label)
		if err != nil {
			return nil, fmt.Errorf("category link label: %w", err)
		}
		link.Label = label
	}
	return link, nil
}

// decodeText accepts a plain string (valid for every language) or a
// language map.
func decodeText(data []byte) (lang.Text, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			return nil, nil
		}
		return lang.Text{string(lang.French): s, string(lang.English): s}, nil
	}
	var t lang.Text
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Details is an ordered list of detail lines, either shared by every
// language or localized per language.
type Details struct {
	Shared []string
	ByLang map[string][]string
}

// Get returns the lines for l, falling back to English then French.
func (d Details) Get(l lang.Language) []string {
	if len(d.Shared) > 0 {
		return d.Shared
	}
	for _, code := range []lang.Language{l, lang.English, lang.French} {
		if lines := d.ByLang[string(code)]; len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// Empty reports whether no lines are present.
func (d Details) Empty() bool {
	if len(d.Shared) > 0 {
		return false
	}
	for _, lines := range d.ByLang {
		if len(lines) > 0 {
			return false
		}
	}
	return true
}

func (d *Details) UnmarshalJSON(data []byte) error {
	var shared []string
	if err := json.Unmarshal(data, &shared); err == nil {
		d.Shared = shared
		return nil
	}
	var byLang map[string][]string
	if err := json.Unmarshal(data, &byLang); err != nil {
		// Any other shape carries no usable lines.
		return nil
	}
	d.ByLang = byLang
	return nil
}

func (d Details) MarshalJSON() ([]byte, error) {
	if len(d.Shared) > 0 {
		return json.Marshal(d.Shared)
	}
	return json.Marshal(d.ByLang)
}
