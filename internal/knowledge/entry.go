package knowledge

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/textnorm"
)

// PopulationAll is the token that matches every visitor.
const PopulationAll = "ALL"

// UnknownTime is the sort value of a time text that cannot be parsed.
// It sorts after every real time of day.
const UnknownTime = 1<<31 - 1

// Entry is one row derived from the event spreadsheet.
type Entry struct {
	Day         string        `json:"day"`
	Time        string        `json:"time,omitempty"`
	Title       string        `json:"title,omitempty"`
	Activity    string        `json:"activity,omitempty"`
	Artist      string        `json:"artist,omitempty"`
	Category    string        `json:"category,omitempty"`
	Location    string        `json:"location,omitempty"`
	Description string        `json:"description,omitempty"`
	Lang        lang.Language `json:"lang"`
	Population  []string      `json:"population,omitempty"`
	Link        string        `json:"link,omitempty"`
	LinkLabel   lang.Text     `json:"linkLabel,omitempty"`
}

// Head is the leading label of the entry: title, activity, category or artist.
func (e Entry) Head() string {
	for _, s := range []string{e.Title, e.Activity, e.Category, e.Artist} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// DedupKey is the composite identity used to drop duplicate rows.
func (e Entry) DedupKey() string {
	head := e.Title
	if strings.TrimSpace(head) == "" {
		head = e.Activity
	}
	parts := []string{e.Time, head, e.Location, e.Description}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "\x1f")
}

// Dedupe keeps the first entry of each DedupKey, preserving order.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// SortByTime orders entries by TimeMinutes, keeping input order for ties.
func SortByTime(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return TimeMinutes(entries[i].Time) < TimeMinutes(entries[j].Time)
	})
}

var timeAnchors = []struct {
	words   []string
	minutes int
}{
	{[]string{"afternoon", "apres-midi", "apres midi", "aprem"}, 14 * 60},
	{[]string{"morning", "matin"}, 8 * 60},
	{[]string{"evening", "soir"}, 19 * 60},
	{[]string{"night", "nuit"}, 22 * 60},
}

var clockPattern = regexp.MustCompile(`(\d{1,2})\s*(?:[h:.]\s*(\d{2})?)?\s*(am|pm|a\.m\.|p\.m\.)?`)

// TimeMinutes converts a time-of-day text to minutes since midnight.
// Day-part words map to fixed anchors; otherwise the first hour[:minute]
// pattern is used. Unparseable values return UnknownTime.
func TimeMinutes(text string) int {
	folded := textnorm.Fold(strings.TrimSpace(text))
	if folded == "" {
		return UnknownTime
	}
	for _, anchor := range timeAnchors {
		for _, w := range anchor.words {
			if strings.Contains(folded, w) {
				return anchor.minutes
			}
		}
	}

	m := clockPattern.FindStringSubmatch(folded)
	if m == nil {
		return UnknownTime
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return UnknownTime
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ReplaceAll(m[3], ".", "") {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return UnknownTime
	}
	return hour*60 + minute
}

var populationSeparators = regexp.MustCompile(`(?i)[/;,&]|\band\b`)

// Tokenize splits a free-text population field into upper-case tokens.
func Tokenize(field string) []string {
	var tokens []string
	seen := map[string]bool{}
	for _, part := range populationSeparators.Split(field, -1) {
		tok := strings.ToUpper(strings.Join(strings.Fields(part), ""))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// MatchesPopulation reports whether an entry scoped to entryTokens applies
// to a visitor scoped to visitorTokens. A visitor without tokens sees all.
func MatchesPopulation(entryTokens, visitorTokens []string) bool {
	if len(entryTokens) == 0 || len(visitorTokens) == 0 {
		return true
	}
	visitor := make(map[string]bool, len(visitorTokens))
	for _, t := range visitorTokens {
		visitor[t] = true
	}
	for _, t := range entryTokens {
		if t == PopulationAll || visitor[t] {
			return true
		}
	}
	return false
}

// VisitorTokens returns the population scope of a visitor: the implicit ALL
// token plus the tokens of the stored population tag. An empty tag yields
// no scope at all.
func VisitorTokens(population string) []string {
	tokens := Tokenize(population)
	if len(tokens) == 0 {
		return nil
	}
	for _, t := range tokens {
		if t == PopulationAll {
			return tokens
		}
	}
	return append([]string{PopulationAll}, tokens...)
}

// ValidLink returns the trimmed URL when raw is an absolute http(s) URL.
func ValidLink(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return raw, true
}
