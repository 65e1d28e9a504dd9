package bots

import (
	"context"
	"regexp"
	"strings"

	"github.com/academydays/hubby/internal/chat"
	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/intent"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/render"
	"github.com/academydays/hubby/internal/source"
	"github.com/academydays/hubby/internal/textnorm"
)

// Loader acquires the knowledge base.
type Loader interface {
	Load(ctx context.Context) *source.Result
}

// Processor answers chat platform messages with the keyword intent and
// rendering pipeline used by the widget.
type Processor struct {
	cfg      *config.Config
	loader   Loader
	matcher  *intent.Matcher
	renderer *render.Renderer
}

// NewProcessor creates a new message processor.
func NewProcessor(cfg *config.Config, loader Loader) *Processor {
	return &Processor{
		cfg:      cfg,
		loader:   loader,
		matcher:  intent.NewMatcher(cfg.Actions),
		renderer: render.New(cfg),
	}
}

// HandleMessage answers in the configured language, falling back to the
// other language when only its keywords match. The day is the first one the
// message names, else the first available day.
func (p *Processor) HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	out := &OutgoingMessage{ChannelID: msg.ChannelID, ThreadID: msg.ThreadID}

	l := p.cfg.Language()
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		out.reply(l, render.Bubble{Message: p.cfg.Text(l).Welcome})
		return out, nil
	}

	doc := p.loader.Load(ctx).Doc
	days := chat.AvailableDays(p.cfg, doc)

	action, ok := p.matcher.Match(text, l)
	if !ok {
		if action, ok = p.matcher.Match(text, l.Other()); ok {
			l = l.Other()
		}
	}
	if !ok {
		out.reply(l, p.renderer.Apology(doc, l))
		return out, nil
	}

	day := mentionedDay(text, days)
	if day == "" && len(days) > 0 {
		day = days[0].ID
	}

	out.Action, out.Day = action, day
	out.reply(l, p.renderer.Render(doc, render.Query{Day: day, Action: action, Lang: l}))
	return out, nil
}

// mentionedDay returns the first day whose id (as a standalone number) or
// label in any language appears in text.
func mentionedDay(text string, days []config.Day) string {
	folded := textnorm.Fold(text)
	for _, d := range days {
		for _, l := range lang.All {
			if label := textnorm.Fold(d.Labels.Get(l)); label != "" && strings.Contains(folded, label) {
				return d.ID
			}
		}
	}
	for _, d := range days {
		re, err := regexp.Compile(`(^|\D)` + regexp.QuoteMeta(d.ID) + `(\D|$)`)
		if err == nil && re.MatchString(folded) {
			return d.ID
		}
	}
	return ""
}
