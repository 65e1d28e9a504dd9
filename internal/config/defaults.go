package config

import "github.com/academydays/hubby/internal/lang"

// DefaultDays is the Academy Days calendar.
var DefaultDays = []Day{
	{ID: "18", Labels: lang.Text{"fr": "18 novembre", "en": "18 November"}},
	{ID: "19", Labels: lang.Text{"fr": "19 novembre", "en": "19 November"}},
	{ID: "20", Labels: lang.Text{"fr": "20 novembre", "en": "20 November"}},
}

// DefaultActions are the quick actions, in matching order.
var DefaultActions = []Action{
	{
		ID:     "programme",
		Labels: lang.Text{"fr": "Programme", "en": "Program"},
		Keywords: map[string][]string{
			"fr": {"programme", "planning", "agenda", "horaires"},
			"en": {"program", "programme", "schedule", "agenda"},
		},
		Intro: lang.Text{"fr": "Voici le programme du {day} :", "en": "Here is the programme for {day}:"},
	},
	{
		ID:     "groupes",
		Labels: lang.Text{"fr": "Groupes", "en": "Groups"},
		Keywords: map[string][]string{
			"fr": {"groupe", "groupes", "équipe", "contacts"},
			"en": {"group", "groups", "team", "teams"},
		},
		Intro: lang.Text{"fr": "Voici les groupes du {day} :", "en": "Here are the groups for {day}:"},
	},
	{
		ID:     "activities",
		Labels: lang.Text{"fr": "Activités", "en": "Activities"},
		Keywords: map[string][]string{
			"fr": {"activité", "activités", "atelier", "ateliers"},
			"en": {"activities", "activity", "workshop", "workshops"},
		},
		Intro: lang.Text{"fr": "Voici les activités du {day} :", "en": "Here are the activities for {day}:"},
	},
	{
		ID:     "dresscode",
		Labels: lang.Text{"fr": "Dress code", "en": "Dress code"},
		Keywords: map[string][]string{
			"fr": {"dress code", "tenue", "code vestimentaire"},
			"en": {"dress code", "outfit", "look"},
		},
		Intro: lang.Text{"fr": "Le dress code du {day} :", "en": "The dress code for {day}:"},
	},
	{
		ID:     "clubmedlive",
		Labels: lang.Text{"fr": "Club Med Live", "en": "Club Med Live"},
		Keywords: map[string][]string{
			"fr": {"club med live", "show", "concert", "soirée"},
			"en": {"club med live", "show", "concert", "live"},
		},
		Intro: lang.Text{"fr": "Au Club Med Live le {day} :", "en": "On the Club Med Live stage on {day}:"},
	},
}

// DefaultUI is the widget copy per language.
var DefaultUI = map[string]UIText{
	"fr": {
		Placeholder: "Écrivez votre message...",
		Send:        "Envoyer",
		Typing:      "Hubby tape…",
		DefaultLink: "Ouvrir le lien",
		Welcome:     "Bonjour ! Choisis une date puis une action rapide pour découvrir le contenu des Academy Days.",
		Fallback:    "Je n’ai pas encore la réponse à cette question 😅",
		Home:        "Accueil",
	},
	"en": {
		Placeholder: "Type your message…",
		Send:        "Send",
		Typing:      "Hubby is typing…",
		DefaultLink: "Open link",
		Welcome:     "Hello! Pick a date and a quick action to explore the Academy Days content.",
		Fallback:    "I don’t have the answer to that yet 😅",
		Home:        "Home",
	},
}

// DefaultSheets maps each action to the glob patterns its sheet name may
// match once folded to lower case without accents.
var DefaultSheets = map[string][]string{
	"programme":   {"program*", "planning*", "agenda*"},
	"activities":  {"activit*", "atelier*", "workshop*"},
	"clubmedlive": {"*live*", "line*up*"},
	"groupes":     {"group*", "equipe*", "team*"},
	"dresscode":   {"dress*", "tenue*"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Source: SourceConfig{
			Mode:       SourceStatic,
			StaticPath: "data/data.json",
		},
		DataDir:         ".hubby",
		DefaultLanguage: string(lang.French),
		TypingDelayMS:   400,
		Days:            DefaultDays,
		Actions:         DefaultActions,
		UI:              DefaultUI,
		Populations: []Population{
			{Tag: "CDV", Label: lang.Text{"fr": "Chefs de village", "en": "Village managers"}, Link: "/chat"},
			{Tag: "CDG", Label: lang.Text{"fr": "Chefs de service", "en": "Department heads"}, Link: "/chat"},
			{Tag: "LC", Label: lang.Text{"fr": "Learning Center", "en": "Learning Center"}, Link: "/chat"},
		},
		Sheets: DefaultSheets,
	}
}

// applyDefaults fills every unset field from DefaultConfig so that a partial
// YAML file or environment overlay never leaves the assistant without tables.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Source.Mode == "" {
		c.Source.Mode = d.Source.Mode
	}
	if c.Source.StaticPath == "" {
		c.Source.StaticPath = d.Source.StaticPath
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = d.DefaultLanguage
	}
	if c.TypingDelayMS == 0 {
		c.TypingDelayMS = d.TypingDelayMS
	}
	if len(c.Days) == 0 {
		c.Days = d.Days
	}
	if len(c.Actions) == 0 {
		c.Actions = d.Actions
	}
	if len(c.UI) == 0 {
		c.UI = d.UI
	}
	if len(c.Populations) == 0 {
		c.Populations = d.Populations
	}
	if len(c.Sheets) == 0 {
		c.Sheets = d.Sheets
	}
}
