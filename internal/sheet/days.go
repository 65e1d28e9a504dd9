package sheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/academydays/hubby/internal/textnorm"
)

// excelEpoch is day zero of the 1900 date system as spreadsheets count it
// (the phantom 1900-02-29 makes it the 30th, not the 31st).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// SerialToTime converts a spreadsheet day serial to a UTC time.
func SerialToTime(serial float64) (time.Time, bool) {
	if serial <= 0 || serial > maxSerial || math.IsNaN(serial) {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(frac * float64(24*time.Hour))), true
}

// DayRegistry maps raw date cells to the event's canonical day ids.
// Each id is handed out at most once; repeated raw values hit the cache.
// Ids reserved by real dates are never handed to undated cells.
type DayRegistry struct {
	ids        []string
	byMonthDay map[int]string
	cache      map[string]string
	used       map[string]bool
	reserved   map[string]bool
}

// NewDayRegistry builds a registry over ids, in positional order. Ids that
// are day-of-month numbers also resolve dates directly.
func NewDayRegistry(ids []string) *DayRegistry {
	r := &DayRegistry{
		ids:        ids,
		byMonthDay: map[int]string{},
		cache:      map[string]string{},
		used:       map[string]bool{},
		reserved:   map[string]bool{},
	}
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil {
			r.byMonthDay[n] = id
		}
	}
	return r
}

// Reserve marks the ids that cells name by date. Call it with every day
// cell before resolving so an undated row met first cannot take the id of
// a date that appears later.
func (r *DayRegistry) Reserve(cells ...Cell) {
	for _, c := range cells {
		if c.Empty() {
			continue
		}
		if dom, ok := dayOfMonth(c); ok {
			if id, ok := r.byMonthDay[dom]; ok {
				r.reserved[id] = true
			}
		}
	}
}

// Resolve returns the canonical day id for a cell. Resolution order is
// typed date, numeric serial, free-text date, then the next unused id.
// Empty cells, and unknown dates once every id is taken, do not resolve.
func (r *DayRegistry) Resolve(c Cell) (string, bool) {
	if c.Empty() {
		return "", false
	}
	key := c.cacheKey()
	if id, ok := r.cache[key]; ok {
		return id, true
	}

	id, ok := "", false
	if dom, found := dayOfMonth(c); found {
		id, ok = r.byMonthDay[dom]
	}
	if !ok {
		id, ok = r.nextUnused()
	}
	if !ok {
		return "", false
	}

	r.cache[key] = id
	r.used[id] = true
	return id, true
}

// Registered returns the ids handed out so far, in canonical order.
func (r *DayRegistry) Registered() []string {
	var out []string
	for _, id := range r.ids {
		if r.used[id] {
			out = append(out, id)
		}
	}
	return out
}

func (r *DayRegistry) nextUnused() (string, bool) {
	for _, id := range r.ids {
		if !r.used[id] && !r.reserved[id] {
			return id, true
		}
	}
	return "", false
}

func dayOfMonth(c Cell) (int, bool) {
	switch {
	case c.HasDate:
		return c.Date.Day(), true
	case c.HasNumber:
		// A bare day number typed as a number, not a serial.
		if c.Number >= 1 && c.Number <= 31 && c.Number == math.Trunc(c.Number) {
			return int(c.Number), true
		}
		t, ok := SerialToTime(c.Number)
		if !ok {
			return 0, false
		}
		return t.Day(), true
	default:
		return parseDateText(c.Text)
	}
}

var frenchWords = map[string]string{
	"janvier": "january", "fevrier": "february", "mars": "march", "avril": "april",
	"mai": "may", "juin": "june", "juillet": "july", "aout": "august",
	"septembre": "september", "octobre": "october", "novembre": "november", "decembre": "december",
	"janv": "jan", "fevr": "feb", "avr": "apr", "juil": "jul", "sept": "sep", "oct": "oct", "nov": "nov", "dec": "dec",
}

var weekdays = map[string]bool{
	"lundi": true, "mardi": true, "mercredi": true, "jeudi": true, "vendredi": true, "samedi": true, "dimanche": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true,
	"le": true, "the": true, "du": true, "of": true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02.01.2006",
	"2.1.2006",
	"02-01-2006",
	"2 January 2006",
	"2 January",
	"2 Jan 2006",
	"2 Jan",
	"January 2 2006",
	"January 2",
	"Jan 2 2006",
	"Jan 2",
}

var (
	ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th|er|e)\b`)
	bareDay       = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// parseDateText extracts the day of month from a free-text date.
func parseDateText(s string) (int, bool) {
	folded := textnorm.Fold(strings.TrimSpace(s))
	folded = strings.NewReplacer(",", " ").Replace(folded)
	folded = ordinalSuffix.ReplaceAllString(folded, "$1")

	var words []string
	for _, w := range strings.Fields(folded) {
		w = strings.TrimSuffix(w, ".")
		if weekdays[w] {
			continue
		}
		if en, ok := frenchWords[w]; ok {
			w = en
		}
		words = append(words, w)
	}
	cleaned := strings.Join(words, " ")
	if cleaned == "" {
		return 0, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Day(), true
		}
	}

	// Last resort: the first standalone one- or two-digit number.
	if m := bareDay.FindStringSubmatch(cleaned); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 31 {
			return n, true
		}
	}
	return 0, false
}
