// Package render turns a knowledge-base category into a chat bubble.
package render

import (
	"strings"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
)

// Query selects what to render.
type Query struct {
	Day        string
	Action     string
	Lang       lang.Language
	Population string
}

// Link is a resolved hyperlink.
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Bubble is one bot message.
type Bubble struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Link    *Link    `json:"link,omitempty"`
	Apology bool     `json:"apology,omitempty"`
}

// Text is the plain-text rendition used by the terminal and chat platforms.
func (b Bubble) Text() string {
	var sb strings.Builder
	sb.WriteString(b.Message)
	for _, d := range b.Details {
		sb.WriteString("\n• ")
		sb.WriteString(d)
	}
	if b.Link != nil {
		sb.WriteString("\n")
		sb.WriteString(b.Link.Label)
		sb.WriteString(": ")
		sb.WriteString(b.Link.URL)
	}
	return sb.String()
}

// Renderer answers queries against a document with the configured copy.
type Renderer struct {
	cfg *config.Config
}

// New returns a renderer using cfg for day labels and fallback texts.
func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Apology is the bubble shown when nothing can be answered.
func (r *Renderer) Apology(doc *knowledge.Document, l lang.Language) Bubble {
	msg := ""
	if doc != nil {
		msg = doc.Fallback.Get(l)
	}
	if msg == "" {
		msg = r.cfg.Text(l).Fallback
	}
	return Bubble{Message: msg, Apology: true}
}

// Render answers q from doc. A missing day, action or category, or a
// derived category with nothing left after filtering, yields the apology.
func (r *Renderer) Render(doc *knowledge.Document, q Query) Bubble {
	l := lang.Parse(string(q.Lang))
	c, ok := doc.Category(q.Day, q.Action)
	if !ok {
		return r.Apology(doc, l)
	}
	if c.Derived() {
		return r.derived(doc, c, q.Day, l, q.Population)
	}
	return r.static(doc, c, l)
}

func (r *Renderer) static(doc *knowledge.Document, c *knowledge.Category, l lang.Language) Bubble {
	b := Bubble{
		Message: c.Message.Get(l),
		Details: c.Details.Get(l),
	}
	if c.Link != nil {
		if u, ok := knowledge.ValidLink(c.Link.URL); ok {
			label := c.Link.Label.Get(l)
			if label == "" {
				label = r.cfg.Text(l).DefaultLink
			}
			b.Link = &Link{URL: u, Label: label}
		}
	}
	if b.Message == "" && len(b.Details) == 0 && b.Link == nil {
		return r.Apology(doc, l)
	}
	return b
}

func (r *Renderer) derived(doc *knowledge.Document, c *knowledge.Category, day string, l lang.Language, population string) Bubble {
	visitor := knowledge.VisitorTokens(population)

	var scoped []knowledge.Entry
	for _, e := range c.Entries {
		if e.Day != "" && e.Day != day {
			continue
		}
		if !knowledge.MatchesPopulation(e.Population, visitor) {
			continue
		}
		scoped = append(scoped, e)
	}

	entries := preferLanguage(scoped, l)
	if len(entries) == 0 {
		return r.Apology(doc, l)
	}
	entries = knowledge.Dedupe(entries)
	knowledge.SortByTime(entries)

	b := Bubble{Message: r.intro(c, day, l)}
	for _, e := range entries {
		if line := Line(e); line != "" {
			b.Details = append(b.Details, line)
		}
		if b.Link == nil && e.Link != "" {
			if u, ok := knowledge.ValidLink(e.Link); ok {
				label := strings.TrimSpace(e.LinkLabel.Get(l))
				if label == "" {
					label = r.cfg.Text(l).DefaultLink
				}
				b.Link = &Link{URL: u, Label: label}
			}
		}
	}
	return b
}

// preferLanguage keeps the entries written in l, or every entry when none is.
func preferLanguage(entries []knowledge.Entry, l lang.Language) []knowledge.Entry {
	var out []knowledge.Entry
	for _, e := range entries {
		if e.Lang == l {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = append(out, entries...)
	}
	return out
}

func (r *Renderer) intro(c *knowledge.Category, day string, l lang.Language) string {
	label := day
	if d, ok := r.cfg.Day(day); ok {
		if s := d.Labels.Get(l); s != "" {
			label = s
		}
	}
	return strings.ReplaceAll(c.Message.Get(l), "{day}", label)
}

// Line formats an entry as "time · head · location — description",
// omitting empty parts.
func Line(e knowledge.Entry) string {
	var parts []string
	for _, s := range []string{e.Time, e.Head(), e.Location} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	line := strings.Join(parts, " · ")
	desc := strings.TrimSpace(e.Description)
	switch {
	case desc == "":
		return line
	case line == "":
		return desc
	default:
		return line + " — " + desc
	}
}
