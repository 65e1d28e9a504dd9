// Package intent maps free text to a quick action by keyword substring match.
package intent

import (
	"strings"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/textnorm"
)

type rule struct {
	action   string
	keywords map[lang.Language][]string
}

// Matcher tests actions in configured order; the first action with a
// matching keyword wins.
type Matcher struct {
	rules []rule
}

// NewMatcher precomputes folded keywords for every action. An action's
// button labels count as keywords in their language.
func NewMatcher(actions []config.Action) *Matcher {
	m := &Matcher{}
	for _, a := range actions {
		r := rule{action: a.ID, keywords: map[lang.Language][]string{}}
		for _, l := range lang.All {
			var kws []string
			for _, kw := range a.Keywords[string(l)] {
				kws = appendFolded(kws, kw)
			}
			kws = appendFolded(kws, a.Labels[string(l)])
			r.keywords[l] = kws
		}
		m.rules = append(m.rules, r)
	}
	return m
}

func appendFolded(dst []string, kw string) []string {
	folded := strings.TrimSpace(textnorm.Fold(kw))
	if folded == "" {
		return dst
	}
	for _, existing := range dst {
		if existing == folded {
			return dst
		}
	}
	return append(dst, folded)
}

// Match returns the action whose keyword in language l occurs in text.
func (m *Matcher) Match(text string, l lang.Language) (string, bool) {
	input := textnorm.Fold(strings.TrimSpace(text))
	if input == "" {
		return "", false
	}
	for _, r := range m.rules {
		for _, kw := range r.keywords[l] {
			if strings.Contains(input, kw) {
				return r.action, true
			}
		}
	}
	return "", false
}
