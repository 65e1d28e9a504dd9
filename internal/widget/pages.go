package widget

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/prefs"
)

//go:embed landing.html
var landingHTML string

//go:embed chat.html
var chatHTML []byte

var landingTmpl = template.Must(template.New("landing").Parse(landingHTML))

type landingButton struct {
	Label string
	Href  string
}

type landingData struct {
	Lang    string
	Title   string
	Buttons []landingButton
}

// ServeLanding renders one button per configured population.
func (wg *Widget) ServeLanding(w http.ResponseWriter, r *http.Request) {
	visitor := visitorID(w, r)
	l := prefs.Language(wg.store.Visitor(r.Context(), visitor))

	data := landingData{Lang: string(l), Title: "Academy Days"}
	for _, p := range wg.cfg.Populations {
		label := p.Label.Get(l)
		if label == "" {
			label = p.Tag
		}
		q := url.Values{"population": {p.Tag}, "link": {p.Link}}
		data.Buttons = append(data.Buttons, landingButton{Label: label, Href: "/select?" + q.Encode()})
	}

	var buf bytes.Buffer
	if err := landingTmpl.Execute(&buf, data); err != nil {
		wg.logger.Error("rendering landing page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ServeChat serves the embedded chat page.
func (wg *Widget) ServeChat(w http.ResponseWriter, r *http.Request) {
	visitorID(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(chatHTML)
}

// handleSelect stores the chosen population and redirects to its page.
func (wg *Widget) handleSelect(w http.ResponseWriter, r *http.Request) {
	visitor := visitorID(w, r)
	population := strings.TrimSpace(r.URL.Query().Get("population"))
	if population != "" {
		if err := wg.store.Set(r.Context(), visitor, prefs.KeyPopulation, population); err != nil {
			wg.logger.Error("saving population", zap.String("visitor", visitor), zap.Error(err))
		}
	}
	http.Redirect(w, r, safeRedirect(r.URL.Query().Get("link")), http.StatusSeeOther)
}

// safeRedirect keeps only same-origin relative paths.
func safeRedirect(link string) string {
	const fallback = "/chat"
	if !strings.HasPrefix(link, "/") || strings.HasPrefix(link, "//") || strings.HasPrefix(link, `/\`) {
		return fallback
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return u.String()
}
