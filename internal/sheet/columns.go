package sheet

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/academydays/hubby/internal/textnorm"
)

type field int

const (
	fieldDay field = iota
	fieldTime
	fieldTitle
	fieldActivity
	fieldArtist
	fieldCategory
	fieldLocation
	fieldDescription
	fieldLanguage
	fieldPopulation
	fieldLink
	fieldLinkLabel
	fieldLinkLabelFR
	fieldLinkLabelEN
)

// synonyms lists the accepted header names per logical field, already
// folded with textnorm.Key.
var synonyms = map[field][]string{
	fieldDay:         {"day", "date", "jour", "journee"},
	fieldTime:        {"time", "hour", "heure", "horaire", "horaires", "creneau", "slot"},
	fieldTitle:       {"title", "titre", "event", "evenement", "session", "name", "nom", "group", "groupe"},
	fieldActivity:    {"activity", "activite", "atelier", "workshop"},
	fieldArtist:      {"artist", "artiste", "performer", "dj"},
	fieldCategory:    {"category", "categorie", "type", "theme"},
	fieldLocation:    {"location", "lieu", "place", "salle", "room", "venue"},
	fieldDescription: {"description", "desc", "details", "detail", "contenu", "content", "infos", "info"},
	fieldLanguage:    {"language", "lang", "langue"},
	fieldPopulation:  {"population", "populations", "public", "audience", "cible", "target"},
	fieldLink:        {"link", "lien", "url"},
	fieldLinkLabel:   {"link label", "link text", "libelle lien", "libelle", "texte lien", "label"},
	fieldLinkLabelFR: {"link label fr", "link text fr", "libelle lien fr", "libelle fr", "texte lien fr", "label fr"},
	fieldLinkLabelEN: {"link label en", "link text en", "libelle lien en", "libelle en", "texte lien en", "label en"},
}

var headerIndex = func() map[string]field {
	idx := map[string]field{}
	for f, names := range synonyms {
		for _, n := range names {
			idx[n] = f
		}
	}
	return idx
}()

// columns maps each recognized field to its column index.
type columns map[field]int

func resolveColumns(header []Cell) columns {
	cols := columns{}
	for i, cell := range header {
		f, ok := headerIndex[textnorm.Key(cell.Text)]
		if !ok {
			continue
		}
		if _, taken := cols[f]; taken {
			continue
		}
		cols[f] = i
	}
	return cols
}

func (c columns) has(f field) bool {
	_, ok := c[f]
	return ok
}

func (c columns) cell(row []Cell, f field) Cell {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return Cell{}
	}
	return row[i]
}

func (c columns) text(row []Cell, f field) string {
	return c.cell(row, f).String()
}

// matchSheet returns the action whose alias patterns match the sheet name.
// Actions are tried in the given order.
func matchSheet(name string, order []string, aliases map[string][]string) (string, bool) {
	key := textnorm.Key(name)
	for _, action := range order {
		for _, pattern := range aliases[action] {
			if ok, err := doublestar.Match(pattern, key); err == nil && ok {
				return action, true
			}
		}
	}
	return "", false
}
