// Package chat holds the per-page conversation state of the widget.
package chat

import (
	"strings"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/intent"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/prefs"
	"github.com/academydays/hubby/internal/render"
)

// Role tells who wrote a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one transcript entry. Bot messages carry a bubble.
type Message struct {
	Role   Role           `json:"role"`
	Text   string         `json:"text,omitempty"`
	Bubble *render.Bubble `json:"bubble,omitempty"`
}

// Button is a day or action control.
type Button struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active,omitempty"`
}

// Controls is everything the widget needs to draw its buttons and copy.
type Controls struct {
	Lang    lang.Language `json:"lang"`
	UI      config.UIText `json:"ui"`
	Days    []Button      `json:"days"`
	Actions []Button      `json:"actions"`
}

// Preferences is the persisted visitor state a session reads and updates.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Options configures a session.
type Options struct {
	Config  *config.Config
	Prefs   Preferences
	Matcher *intent.Matcher
}

// Session owns one page's state. It is not safe for concurrent use.
type Session struct {
	cfg      *config.Config
	prefs    Preferences
	matcher  *intent.Matcher
	renderer *render.Renderer

	doc        *knowledge.Document
	days       []config.Day
	lang       lang.Language
	day        string
	population string
	transcript []Message
}

// New starts a session over doc. The language and population come from the
// preferences; the selected day is the first available one.
func New(doc *knowledge.Document, opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if doc == nil {
		doc = &knowledge.Document{Days: map[string]knowledge.Day{}}
	}
	m := opts.Matcher
	if m == nil {
		m = intent.NewMatcher(cfg.Actions)
	}
	p := opts.Prefs
	if p == nil {
		p = &prefs.Memory{}
	}

	s := &Session{
		cfg:        cfg,
		prefs:      p,
		matcher:    m,
		renderer:   render.New(cfg),
		doc:        doc,
		days:       AvailableDays(cfg, doc),
		lang:       prefs.Language(p),
		population: prefs.Population(p),
	}
	if len(s.days) > 0 {
		s.day = s.days[0].ID
	}
	return s
}

// AvailableDays is the configured day catalogue restricted to the days the
// document has content for, in catalogue order.
func AvailableDays(cfg *config.Config, doc *knowledge.Document) []config.Day {
	var out []config.Day
	for _, d := range cfg.Days {
		if doc.HasDay(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Session) Language() lang.Language { return s.lang }
func (s *Session) Day() string             { return s.day }
func (s *Session) Population() string      { return s.population }
func (s *Session) Days() []config.Day      { return s.days }

// Transcript returns a copy of the messages exchanged so far.
func (s *Session) Transcript() []Message {
	return append([]Message(nil), s.transcript...)
}

// Welcome returns the greeting, or the apology when no day has content.
func (s *Session) Welcome() Message {
	var b render.Bubble
	if len(s.days) == 0 {
		b = s.renderer.Apology(s.doc, s.lang)
	} else {
		b = render.Bubble{Message: s.cfg.Text(s.lang).Welcome}
	}
	return s.bot(b)
}

// Controls returns the localized buttons for the current state.
func (s *Session) Controls() Controls {
	c := Controls{Lang: s.lang, UI: s.cfg.Text(s.lang)}
	for _, d := range s.days {
		c.Days = append(c.Days, Button{ID: d.ID, Label: labelOr(d.Labels, s.lang, d.ID), Active: d.ID == s.day})
	}
	for _, a := range s.cfg.Actions {
		c.Actions = append(c.Actions, Button{ID: a.ID, Label: labelOr(a.Labels, s.lang, a.ID)})
	}
	return c
}

func labelOr(t lang.Text, l lang.Language, fallback string) string {
	if s := t.Get(l); s != "" {
		return s
	}
	return fallback
}

// SelectDay switches the active day. Unknown or unchanged ids are ignored
// and reported as false.
func (s *Session) SelectDay(id string) bool {
	if id == s.day {
		return false
	}
	for _, d := range s.days {
		if d.ID == id {
			s.day = id
			return true
		}
	}
	return false
}

// SwitchLanguage normalizes code, applies it and persists it.
func (s *Session) SwitchLanguage(code string) (lang.Language, error) {
	s.lang = lang.Parse(code)
	return s.lang, s.prefs.Set(prefs.KeyLanguage, string(s.lang))
}

// ClickAction answers a quick-action button: the button label as the user
// message, then the bot answer.
func (s *Session) ClickAction(id string) ([]Message, bool) {
	a, ok := s.cfg.Action(id)
	if !ok {
		return nil, false
	}
	user := s.user(labelOr(a.Labels, s.lang, a.ID))
	return []Message{user, s.answer(a.ID)}, true
}

// SendText answers free text. Blank input is ignored.
func (s *Session) SendText(text string) ([]Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	user := s.user(text)
	action, ok := s.matcher.Match(text, s.lang)
	if !ok {
		return []Message{user, s.bot(s.renderer.Apology(s.doc, s.lang))}, true
	}
	return []Message{user, s.answer(action)}, true
}

func (s *Session) answer(action string) Message {
	return s.bot(s.renderer.Render(s.doc, render.Query{
		Day:        s.day,
		Action:     action,
		Lang:       s.lang,
		Population: s.population,
	}))
}

func (s *Session) user(text string) Message {
	m := Message{Role: RoleUser, Text: text}
	s.transcript = append(s.transcript, m)
	return m
}

func (s *Session) bot(b render.Bubble) Message {
	m := Message{Role: RoleBot, Text: b.Text(), Bubble: &b}
	s.transcript = append(s.transcript, m)
	return m
}
