package config

import "github.com/academydays/hubby/internal/lang"

// SourceMode selects where the knowledge base comes from.
type SourceMode string

const (
	SourceStatic      SourceMode = "static"
	SourceSpreadsheet SourceMode = "spreadsheet"
)

// Config is the top-level hubby configuration, corresponding to .hubby.yml.
type Config struct {
	Server          ServerConfig        `yaml:"server" koanf:"server"`
	Source          SourceConfig        `yaml:"source" koanf:"source"`
	Bots            BotsConfig          `yaml:"bots" koanf:"bots"`
	DataDir         string              `yaml:"data_dir" koanf:"data_dir"`
	DefaultLanguage string              `yaml:"default_language" koanf:"default_language"`
	TypingDelayMS   int                 `yaml:"typing_delay_ms" koanf:"typing_delay_ms"`
	Days            []Day               `yaml:"days" koanf:"days"`
	Actions         []Action            `yaml:"actions" koanf:"actions"`
	UI              map[string]UIText   `yaml:"ui" koanf:"ui"`
	Populations     []Population        `yaml:"populations" koanf:"populations"`
	Sheets          map[string][]string `yaml:"sheets" koanf:"sheets"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// SourceConfig locates the knowledge base.
type SourceConfig struct {
	Mode           SourceMode `yaml:"mode" koanf:"mode"`
	StaticPath     string     `yaml:"static_path" koanf:"static_path"`
	SpreadsheetURL string     `yaml:"spreadsheet_url" koanf:"spreadsheet_url"`
}

// BotsConfig holds chat platform settings.
type BotsConfig struct {
	SlackSigningSecret string `yaml:"slack_signing_secret" koanf:"slack_signing_secret"`
}

// Day is one canonical event day.
type Day struct {
	ID     string    `yaml:"id" koanf:"id"`
	Labels lang.Text `yaml:"labels" koanf:"labels"`
}

// Action is a quick-action button and the intent it answers.
type Action struct {
	ID       string              `yaml:"id" koanf:"id"`
	Labels   lang.Text           `yaml:"labels" koanf:"labels"`
	Keywords map[string][]string `yaml:"keywords" koanf:"keywords"`
	Intro    lang.Text           `yaml:"intro" koanf:"intro"`
}

// UIText is the static widget copy for one language.
type UIText struct {
	Placeholder string `yaml:"placeholder" koanf:"placeholder" json:"placeholder"`
	Send        string `yaml:"send" koanf:"send" json:"send"`
	Typing      string `yaml:"typing" koanf:"typing" json:"typing"`
	DefaultLink string `yaml:"default_link" koanf:"default_link" json:"default_link"`
	Welcome     string `yaml:"welcome" koanf:"welcome" json:"welcome"`
	Fallback    string `yaml:"fallback" koanf:"fallback" json:"fallback"`
	Home        string `yaml:"home" koanf:"home" json:"home"`
}

// Population is a visitor segment offered on the landing page.
type Population struct {
	Tag   string    `yaml:"tag" koanf:"tag"`
	Label lang.Text `yaml:"label" koanf:"label"`
	Link  string    `yaml:"link" koanf:"link"`
}

// Text returns the UI copy for l, defaulting to French when l is missing.
func (c *Config) Text(l lang.Language) UIText {
	if t, ok := c.UI[string(l)]; ok {
		return t
	}
	return c.UI[string(lang.French)]
}

// Language returns the configured default language.
func (c *Config) Language() lang.Language {
	return lang.Parse(c.DefaultLanguage)
}

// Action looks up an action by id.
func (c *Config) Action(id string) (Action, bool) {
	for _, a := range c.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Day looks up a day by id.
func (c *Config) Day(id string) (Day, bool) {
	for _, d := range c.Days {
		if d.ID == id {
			return d, true
		}
	}
	return Day{}, false
}

// DayIDs lists the canonical day identifiers in order.
func (c *Config) DayIDs() []string {
	ids := make([]string, 0, len(c.Days))
	for _, d := range c.Days {
		ids = append(ids, d.ID)
	}
	return ids
}
