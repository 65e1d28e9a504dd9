package sheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
)

func row(values ...string) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = TextCell(v)
	}
	return cells
}

func testOptions(t *testing.T) Options {
	opts := OptionsFromConfig(config.DefaultConfig())
	opts.Logger = zaptest.NewLogger(t)
	return opts
}

func TestMatchSheet(t *testing.T) {
	opts := testOptions(t)
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Programme", "programme", true},
		{"Planning J1", "programme", true},
		{"Activités", "activities", true},
		{"Club Med Live", "clubmedlive", true},
		{"Line-up", "clubmedlive", true},
		{"Groupes", "groupes", true},
		{"Équipes", "groupes", true},
		{"Dress Code", "dresscode", true},
		{"Notes", "", false},
	}
	for _, tt := range tests {
		got, ok := matchSheet(tt.name, opts.ActionOrder, opts.Sheets)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestResolveColumns(t *testing.T) {
	cols := resolveColumns(row("Jour", "Heure", "Titre", "Lieu", "Détails", "Langue", "Public", "Lien", "Libellé lien", "Remarques"))
	assert.Equal(t, 0, cols[fieldDay])
	assert.Equal(t, 1, cols[fieldTime])
	assert.Equal(t, 2, cols[fieldTitle])
	assert.Equal(t, 3, cols[fieldLocation])
	assert.Equal(t, 4, cols[fieldDescription])
	assert.Equal(t, 5, cols[fieldLanguage])
	assert.Equal(t, 6, cols[fieldPopulation])
	assert.Equal(t, 7, cols[fieldLink])
	assert.Equal(t, 8, cols[fieldLinkLabel])
	assert.Len(t, cols, 9)

	// The first matching column wins.
	dup := resolveColumns(row("Date", "Day"))
	assert.Equal(t, 0, dup[fieldDay])
}

func TestTransform(t *testing.T) {
	wb := &Workbook{Tables: []Table{
		{Name: "Programme", Rows: [][]Cell{
			row("Date", "Time", "Title", "Location", "Description", "Language", "Population", "Link", "Link label"),
			row("18 novembre", "14h30", "Atelier RH", "Salle B", "Pitch", "fr", "CDV/CDG", "https://example.com/rh", "Inscription"),
			row("18 novembre", "morning", "Accueil", "Hall", "", "fr", "ALL", "", ""),
			row("18 novembre", "14h30", "atelier rh", "salle b", "pitch", "fr", "LC", "", ""),
			row("", "10h", "Sans date", "", "", "fr", "", "", ""),
			row("", "", "", "", "", "", "", "", ""),
			row("2025-11-19", "9h", "Welcome", "Hall", "", "en", "", "not a url", "x"),
		}},
		{Name: "Dress code", Rows: [][]Cell{
			row("Description", "Langue"),
			row("Tenue blanche", "fr"),
		}},
		{Name: "Notes", Rows: [][]Cell{
			row("Whatever"),
			row("ignored"),
		}},
	}}

	var progress []string
	opts := testOptions(t)
	opts.Progress = func(done, total int, sheet string) {
		assert.Equal(t, 3, total)
		progress = append(progress, sheet)
	}

	doc, stats := Transform(wb, opts)

	assert.Equal(t, []string{"Programme", "Dress code", "Notes"}, progress)
	assert.Equal(t, 2, stats.Sheets)
	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 1, stats.Dropped)

	prog, ok := doc.Category("18", "programme")
	require.True(t, ok)
	require.Len(t, prog.Entries, 2, "duplicate row should be dropped")
	assert.Equal(t, "Accueil", prog.Entries[0].Title, "morning sorts first")
	assert.Equal(t, "Atelier RH", prog.Entries[1].Title)
	assert.Equal(t, []string{"CDV", "CDG"}, prog.Entries[1].Population)
	assert.Equal(t, "https://example.com/rh", prog.Entries[1].Link)
	assert.Equal(t, lang.Text{"fr": "Inscription"}, prog.Entries[1].LinkLabel)
	assert.Equal(t, "Voici le programme du {day} :", prog.Message.Get(lang.French))

	day19, ok := doc.Category("19", "programme")
	require.True(t, ok)
	require.Len(t, day19.Entries, 1)
	assert.Equal(t, lang.English, day19.Entries[0].Lang)
	assert.Empty(t, day19.Entries[0].Link, "invalid link should be dropped")

	// A sheet without a day column applies to every day.
	for _, day := range []string{"18", "19", "20"} {
		dc, ok := doc.Category(day, "dresscode")
		require.True(t, ok, day)
		require.Len(t, dc.Entries, 1)
		assert.Equal(t, day, dc.Entries[0].Day)
	}
}

func TestTransformDefaultLanguage(t *testing.T) {
	wb := &Workbook{Tables: []Table{
		{Name: "Activities", Rows: [][]Cell{
			row("Day", "Activity"),
			row("20", "Yoga"),
		}},
	}}
	opts := testOptions(t)
	opts.DefaultLanguage = lang.English
	doc, _ := Transform(wb, opts)

	c, ok := doc.Category("20", "activities")
	require.True(t, ok)
	assert.Equal(t, lang.English, c.Entries[0].Lang)
	assert.Equal(t, "Yoga", c.Entries[0].Head())
}

func TestTransformUndatedRowDoesNotTakeLaterDate(t *testing.T) {
	wb := &Workbook{Tables: []Table{
		{Name: "Programme", Rows: [][]Cell{
			row("Jour", "Titre"),
			row("à confirmer", "Surprise"),
			row("18 novembre", "Accueil"),
		}},
	}}
	doc, stats := Transform(wb, testOptions(t))
	assert.Equal(t, 0, stats.Dropped)

	c, ok := doc.Category("18", "programme")
	require.True(t, ok)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, "Accueil", c.Entries[0].Title)

	c, ok = doc.Category("19", "programme")
	require.True(t, ok)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, "Surprise", c.Entries[0].Title)
}

func TestTransformLocalizedLinkLabels(t *testing.T) {
	wb := &Workbook{Tables: []Table{
		{Name: "Activités", Rows: [][]Cell{
			row("Day", "Activity", "Lien", "Libellé lien", "Link label EN"),
			row("19", "Padel", "https://example.com/padel", "Réserver", "Book"),
			row("19", "Golf", "https://example.com/golf", "", "Tee time"),
		}},
	}}
	doc, _ := Transform(wb, testOptions(t))

	c, ok := doc.Category("19", "activities")
	require.True(t, ok)
	require.Len(t, c.Entries, 2)
	byHead := map[string]lang.Text{}
	for _, e := range c.Entries {
		byHead[e.Head()] = e.LinkLabel
	}
	assert.Equal(t, lang.Text{"fr": "Réserver", "en": "Book"}, byHead["Padel"])
	assert.Equal(t, lang.Text{"en": "Tee time"}, byHead["Golf"])
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Programme"))
	require.NoError(t, f.SetCellValue("Programme", "A1", "Date"))
	require.NoError(t, f.SetCellValue("Programme", "B1", "Heure"))
	require.NoError(t, f.SetCellValue("Programme", "C1", "Titre"))
	require.NoError(t, f.SetCellValue("Programme", "A2", time.Date(2025, time.November, 19, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Programme", "B2", "10h"))
	require.NoError(t, f.SetCellValue("Programme", "C2", "Plénière"))
	require.NoError(t, f.SetCellValue("Programme", "A3", 45981))
	require.NoError(t, f.SetCellValue("Programme", "B3", "soir"))
	require.NoError(t, f.SetCellValue("Programme", "C3", "Gala"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, wb.Tables, 1)
	require.Len(t, wb.Tables[0].Rows, 3)
	assert.True(t, wb.Tables[0].Rows[2][0].HasNumber)
	assert.Equal(t, float64(45981), wb.Tables[0].Rows[2][0].Number)

	doc, stats := Transform(wb, testOptions(t))
	assert.Equal(t, 2, stats.Entries)

	c, ok := doc.Category("19", "programme")
	require.True(t, ok)
	assert.Equal(t, "Plénière", c.Entries[0].Title)

	c, ok = doc.Category("20", "programme")
	require.True(t, ok)
	assert.Equal(t, "Gala", c.Entries[0].Title)
	assert.Equal(t, 1140, knowledge.TimeMinutes(c.Entries[0].Time))
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
