package sheet

import (
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
)

// Options drives a transformation.
type Options struct {
	DayIDs          []string
	ActionOrder     []string
	Intros          map[string]lang.Text
	Sheets          map[string][]string
	DefaultLanguage lang.Language
	Logger          *zap.Logger

	// Progress, when set, is called after each sheet.
	Progress func(done, total int, sheet string)
}

// OptionsFromConfig derives transformation options from the assistant config.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		DayIDs:          cfg.DayIDs(),
		Intros:          map[string]lang.Text{},
		Sheets:          cfg.Sheets,
		DefaultLanguage: cfg.Language(),
	}
	for _, a := range cfg.Actions {
		opts.ActionOrder = append(opts.ActionOrder, a.ID)
		opts.Intros[a.ID] = a.Intro
	}
	return opts
}

// Stats summarizes a transformation.
type Stats struct {
	Sheets  int `json:"sheets"`
	Rows    int `json:"rows"`
	Dropped int `json:"dropped"`
	Entries int `json:"entries"`
}

type bucketKey struct{ day, action string }

// Transform converts the workbook into a knowledge-base document. Rows whose
// day cannot be resolved are dropped silently; they only show in Stats.
func Transform(wb *Workbook, opts Options) (*knowledge.Document, Stats) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	defaultLang := opts.DefaultLanguage
	if defaultLang == "" {
		defaultLang = lang.Default
	}

	registry := NewDayRegistry(opts.DayIDs)
	reserveDays(registry, wb, opts)
	buckets := map[bucketKey][]knowledge.Entry{}
	var stats Stats

	for i, table := range wb.Tables {
		action, ok := matchSheet(table.Name, opts.ActionOrder, opts.Sheets)
		if !ok || len(table.Rows) == 0 {
			log.Debug("skipping sheet", zap.String("sheet", table.Name))
			if opts.Progress != nil {
				opts.Progress(i+1, len(wb.Tables), table.Name)
			}
			continue
		}
		stats.Sheets++

		cols := resolveColumns(table.Rows[0])
		for _, row := range table.Rows[1:] {
			if blankRow(row) {
				continue
			}
			stats.Rows++

			entry := rowEntry(cols, row, defaultLang)

			var days []string
			if cols.has(fieldDay) {
				day, ok := registry.Resolve(cols.cell(row, fieldDay))
				if !ok {
					stats.Dropped++
					log.Debug("dropping row without resolvable day",
						zap.String("sheet", table.Name),
						zap.String("day", cols.text(row, fieldDay)))
					continue
				}
				days = []string{day}
			} else {
				// Sheets without a day column apply to every day.
				days = opts.DayIDs
			}

			for _, day := range days {
				e := entry
				e.Day = day
				k := bucketKey{day: day, action: action}
				buckets[k] = append(buckets[k], e)
			}
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(wb.Tables), table.Name)
		}
	}

	doc := &knowledge.Document{Days: map[string]knowledge.Day{}}
	for k, entries := range buckets {
		entries = knowledge.Dedupe(entries)
		knowledge.SortByTime(entries)
		stats.Entries += len(entries)
		doc.Put(k.day, k.action, &knowledge.Category{
			Message: opts.Intros[k.action],
			Entries: entries,
		})
	}

	log.Info("spreadsheet transformed",
		zap.Int("sheets", stats.Sheets),
		zap.Int("rows", stats.Rows),
		zap.Int("dropped", stats.Dropped),
		zap.Int("entries", stats.Entries),
		zap.Strings("days", registry.Registered()))

	return doc, stats
}

// reserveDays registers every dated cell of the matched sheets before any
// row is resolved.
func reserveDays(registry *DayRegistry, wb *Workbook, opts Options) {
	for _, table := range wb.Tables {
		if _, ok := matchSheet(table.Name, opts.ActionOrder, opts.Sheets); !ok || len(table.Rows) == 0 {
			continue
		}
		cols := resolveColumns(table.Rows[0])
		if !cols.has(fieldDay) {
			continue
		}
		for _, row := range table.Rows[1:] {
			registry.Reserve(cols.cell(row, fieldDay))
		}
	}
}

func rowEntry(cols columns, row []Cell, defaultLang lang.Language) knowledge.Entry {
	e := knowledge.Entry{
		Time:        cols.text(row, fieldTime),
		Title:       cols.text(row, fieldTitle),
		Activity:    cols.text(row, fieldActivity),
		Artist:      cols.text(row, fieldArtist),
		Category:    cols.text(row, fieldCategory),
		Location:    cols.text(row, fieldLocation),
		Description: cols.text(row, fieldDescription),
		Population:  knowledge.Tokenize(cols.text(row, fieldPopulation)),
		Lang:        defaultLang,
	}
	if code := cols.text(row, fieldLanguage); lang.Valid(code) {
		e.Lang = lang.Parse(code)
	}
	if link, ok := knowledge.ValidLink(cols.text(row, fieldLink)); ok {
		e.Link = link
		e.LinkLabel = linkLabel(cols, row, e.Lang)
	}
	return e
}

// linkLabel reads the plain label column as the row's language, then lets
// the language-suffixed columns override it.
func linkLabel(cols columns, row []Cell, rowLang lang.Language) lang.Text {
	var t lang.Text
	if s := cols.text(row, fieldLinkLabel); s != "" {
		t.Set(rowLang, s)
	}
	if s := cols.text(row, fieldLinkLabelFR); s != "" {
		t.Set(lang.French, s)
	}
	if s := cols.text(row, fieldLinkLabelEN); s != "" {
		t.Set(lang.English, s)
	}
	return t
}

func blankRow(row []Cell) bool {
	for _, c := range row {
		if !c.Empty() {
			return false
		}
	}
	return true
}
