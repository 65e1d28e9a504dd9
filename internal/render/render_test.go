package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
)

func testDoc() *knowledge.Document {
	doc := &knowledge.Document{Days: map[string]knowledge.Day{}}
	doc.Put("18", "dresscode", &knowledge.Category{
		Message: lang.Text{"fr": "Tenue blanche", "en": "White outfit"},
		Details: knowledge.Details{ByLang: map[string][]string{"fr": {"Chaussures plates"}}},
		Link:    &knowledge.Link{URL: "https://example.com/dress"},
	})
	doc.Put("18", "groupes", &knowledge.Category{})
	doc.Put("18", "programme", &knowledge.Category{
		Message: lang.Text{"fr": "Voici le programme du {day} :", "en": "Here is the programme for {day}:"},
		Entries: []knowledge.Entry{
			{Day: "18", Time: "evening", Title: "Gala", Location: "Théâtre", Lang: lang.French},
			{Day: "18", Time: "14h30", Title: "Atelier RH", Location: "Salle B", Description: "Pitch", Lang: lang.French, Population: []string{"CDV", "CDG"}, Link: "https://example.com/rh", LinkLabel: lang.Text{"fr": "Inscription", "en": "Sign up"}},
			{Day: "18", Time: "morning", Title: "Accueil", Lang: lang.French, Population: []string{"ALL"}},
			{Day: "18", Time: "14h30", Title: "atelier rh", Location: "salle b", Description: "pitch", Lang: lang.French, Population: []string{"CDV", "CDG"}, Link: "https://example.com/dup"},
			{Day: "18", Time: "9h", Activity: "Yoga", Lang: lang.French, Population: []string{"LC"}},
			{Day: "18", Time: "10h", Title: "Keynote", Lang: lang.English},
		},
	})
	return doc
}

func TestRenderStatic(t *testing.T) {
	r := New(config.DefaultConfig())
	doc := testDoc()

	got := r.Render(doc, Query{Day: "18", Action: "dresscode", Lang: lang.French})
	want := Bubble{
		Message: "Tenue blanche",
		Details: []string{"Chaussures plates"},
		Link:    &Link{URL: "https://example.com/dress", Label: "Ouvrir le lien"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}

	// Details fall back through en then fr.
	got = r.Render(doc, Query{Day: "18", Action: "dresscode", Lang: lang.English})
	if got.Message != "White outfit" || len(got.Details) != 1 || got.Link.Label != "Open link" {
		t.Errorf("english render = %+v", got)
	}
}

func TestRenderDerived(t *testing.T) {
	r := New(config.DefaultConfig())
	doc := testDoc()

	got := r.Render(doc, Query{Day: "18", Action: "programme", Lang: lang.French, Population: "CDV"})
	want := Bubble{
		Message: "Voici le programme du 18 novembre :",
		Details: []string{
			"morning · Accueil",
			"14h30 · Atelier RH · Salle B — Pitch",
			"evening · Gala · Théâtre",
		},
		Link: &Link{URL: "https://example.com/rh", Label: "Inscription"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDerivedLinkLabelFollowsLanguage(t *testing.T) {
	r := New(config.DefaultConfig())
	doc := &knowledge.Document{Days: map[string]knowledge.Day{}}
	doc.Put("19", "activities", &knowledge.Category{Entries: []knowledge.Entry{
		{Day: "19", Activity: "Padel", Lang: lang.French, Link: "https://example.com/padel", LinkLabel: lang.Text{"fr": "Réserver", "en": "Book"}},
	}})
	doc.Put("20", "activities", &knowledge.Category{Entries: []knowledge.Entry{
		{Day: "20", Activity: "Golf", Lang: lang.French, Link: "https://example.com/golf"},
	}})

	tests := []struct {
		day  string
		l    lang.Language
		want string
	}{
		{"19", lang.French, "Réserver"},
		{"19", lang.English, "Book"},
		{"20", lang.English, "Open link"},
	}
	for _, tt := range tests {
		got := r.Render(doc, Query{Day: tt.day, Action: "activities", Lang: tt.l})
		if got.Link == nil || got.Link.Label != tt.want {
			t.Errorf("Render(%s, %s) link = %+v, want label %q", tt.day, tt.l, got.Link, tt.want)
		}
	}
}

func TestRenderDerivedWithoutPopulationSeesAll(t *testing.T) {
	r := New(config.DefaultConfig())
	got := r.Render(testDoc(), Query{Day: "18", Action: "programme", Lang: lang.French})
	if len(got.Details) != 4 {
		t.Fatalf("details = %v, want 4 lines", got.Details)
	}
	if got.Details[1] != "9h · Yoga" {
		t.Errorf("details[1] = %q, want the 9h activity", got.Details[1])
	}
}

func TestRenderDerivedLanguagePreference(t *testing.T) {
	r := New(config.DefaultConfig())
	doc := testDoc()

	got := r.Render(doc, Query{Day: "18", Action: "programme", Lang: lang.English})
	if diff := cmp.Diff([]string{"10h · Keynote"}, got.Details); diff != "" {
		t.Errorf("english details mismatch (-want +got):\n%s", diff)
	}
	if got.Message != "Here is the programme for 18 November:" {
		t.Errorf("message = %q", got.Message)
	}

	// No english entries at all: fall back to the french ones.
	cat, _ := doc.Category("18", "programme")
	cat.Entries = cat.Entries[:5]
	got = r.Render(doc, Query{Day: "18", Action: "programme", Lang: lang.English, Population: "LC"})
	if diff := cmp.Diff([]string{"morning · Accueil", "9h · Yoga", "evening · Gala · Théâtre"}, got.Details); diff != "" {
		t.Errorf("fallback details mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderedDetailsAreUniqueAndOrdered(t *testing.T) {
	r := New(config.DefaultConfig())
	doc := testDoc()
	cat, _ := doc.Category("18", "programme")

	got := r.Render(doc, Query{Day: "18", Action: "programme", Lang: lang.French})

	seen := map[string]bool{}
	for _, d := range got.Details {
		if seen[strings.ToLower(d)] {
			t.Errorf("duplicate detail line %q", d)
		}
		seen[strings.ToLower(d)] = true
	}

	times := map[string]int{}
	for _, e := range cat.Entries {
		times[Line(e)] = knowledge.TimeMinutes(e.Time)
	}
	for i := 1; i < len(got.Details); i++ {
		if times[got.Details[i-1]] > times[got.Details[i]] {
			t.Errorf("details out of order: %q before %q", got.Details[i-1], got.Details[i])
		}
	}
}

func TestRenderApology(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(cfg)
	doc := testDoc()

	tests := []struct {
		name string
		q    Query
	}{
		{"unknown day", Query{Day: "21", Action: "programme", Lang: lang.French}},
		{"unknown action", Query{Day: "18", Action: "karaoke", Lang: lang.French}},
		{"empty category", Query{Day: "18", Action: "groupes", Lang: lang.French}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(doc, tt.q)
			if !got.Apology || got.Message != cfg.UI["fr"].Fallback {
				t.Errorf("Render() = %+v, want the apology", got)
			}
		})
	}
}

func TestRenderFilteredOutKeepsOnlyAllEntries(t *testing.T) {
	r := New(config.DefaultConfig())
	got := r.Render(testDoc(), Query{Day: "18", Action: "programme", Lang: lang.French, Population: "XYZ"})
	// Entries scoped to ALL or unscoped still match an unknown population.
	if got.Apology {
		t.Fatalf("expected unscoped entries, got apology")
	}
	want := []string{"morning · Accueil", "evening · Gala · Théâtre"}
	if diff := cmp.Diff(want, got.Details); diff != "" {
		t.Errorf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestDegradedDocumentAnswersApologyForEveryAction(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(cfg)
	degraded := &knowledge.Document{
		Days:     map[string]knowledge.Day{},
		Fallback: lang.Text{"fr": cfg.UI["fr"].Fallback, "en": cfg.UI["en"].Fallback},
	}
	for _, a := range cfg.Actions {
		for _, l := range lang.All {
			got := r.Render(degraded, Query{Day: "18", Action: a.ID, Lang: l})
			if got.Message != cfg.Text(l).Fallback || len(got.Details) != 0 || got.Link != nil {
				t.Errorf("%s/%s: got %+v, want apology only", a.ID, l, got)
			}
		}
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		entry knowledge.Entry
		want  string
	}{
		{knowledge.Entry{Time: "9h", Title: "Café", Location: "Hall", Description: "Viennoiseries"}, "9h · Café · Hall — Viennoiseries"},
		{knowledge.Entry{Artist: "DJ Sam"}, "DJ Sam"},
		{knowledge.Entry{Description: "Tenue blanche"}, "Tenue blanche"},
		{knowledge.Entry{Category: "Sport", Location: "Plage"}, "Sport · Plage"},
		{knowledge.Entry{}, ""},
	}
	for _, tt := range tests {
		if got := Line(tt.entry); got != tt.want {
			t.Errorf("Line(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestBubbleText(t *testing.T) {
	b := Bubble{
		Message: "Programme",
		Details: []string{"9h · Café"},
		Link:    &Link{URL: "https://example.com", Label: "Voir"},
	}
	want := "Programme\n• 9h · Café\nVoir: https://example.com"
	if got := b.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(Bubble{
		Message: "Ligne 1\nLigne 2 <script>alert(1)</script>",
		Details: []string{"9h · Café"},
		Link:    &Link{URL: "https://example.com/a", Label: "Voir [plus]"},
	})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	for _, want := range []string{"<br>", "<li>9h · Café</li>", `<a href="https://example.com/a">Voir [plus]</a>`} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("HTML() passed raw html through:\n%s", out)
	}
}

func TestHTMLRendersSheetTextLiterally(t *testing.T) {
	out, err := HTML(Bubble{
		Message: "Prix *promo* <b>x</b>\n1. premier",
		Details: []string{"_atelier_", "- tiret", "1) un", "a & b", "# titre", "voir https://example.com/a_b"},
	})
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	for _, want := range []string{
		"Prix *promo* &lt;b&gt;x&lt;/b&gt;",
		"1. premier",
		"<li>_atelier_</li>",
		"<li>- tiret</li>",
		"<li>1) un</li>",
		"<li>a &amp; b</li>",
		"<li># titre</li>",
		`<a href="https://example.com/a_b">https://example.com/a_b</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q in:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"<em>", "<ol>", "<h1>", "raw HTML omitted"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("HTML() reformatted sheet text (%q) in:\n%s", unwanted, out)
		}
	}
}
