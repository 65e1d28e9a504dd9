package lang

import "strings"

// Language is one of the two supported interface languages.
type Language string

const (
	French  Language = "fr"
	English Language = "en"
)

// Default is used whenever a stored or requested language is absent or invalid.
const Default = French

// All lists the supported languages in display order.
var All = []Language{French, English}

// Parse normalizes a language code. Anything that is not English is French.
func Parse(code string) Language {
	if strings.ToLower(strings.TrimSpace(code)) == string(English) {
		return English
	}
	return Default
}

// Valid reports whether code names a supported language exactly.
func Valid(code string) bool {
	c := strings.ToLower(strings.TrimSpace(code))
	return c == string(French) || c == string(English)
}

// Other returns the other supported language.
func (l Language) Other() Language {
	if l == English {
		return French
	}
	return English
}

func (l Language) String() string { return string(l) }

// Text is a string localized by language code.
type Text map[string]string

// Get resolves the text for l, falling back to English then French.
func (t Text) Get(l Language) string {
	if t == nil {
		return ""
	}
	if v := t[string(l)]; v != "" {
		return v
	}
	if v := t[string(English)]; v != "" {
		return v
	}
	return t[string(French)]
}

// Empty reports whether no language carries a value.
func (t Text) Empty() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// Set stores v for l, allocating the map if needed.
func (t *Text) Set(l Language, v string) {
	if *t == nil {
		*t = Text{}
	}
	(*t)[string(l)] = v
}
