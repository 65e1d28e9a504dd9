package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/sheet"
)

// Result is the outcome of a load. A degraded result carries an empty
// document whose fallback is the apology.
type Result struct {
	Doc      *knowledge.Document
	Origin   Origin
	LoadedAt time.Time
	Err      error
}

// Degraded reports whether both sources failed.
func (r *Result) Degraded() bool { return r.Origin == OriginDegraded }

// Loader tries its primary source once, then its fallback once.
type Loader struct {
	Primary  Source
	Fallback Source
	Apology  lang.Text
	Logger   *zap.Logger

	group singleflight.Group
}

// NewLoader builds the loader for the configured source mode. The static
// document is always the fallback of the spreadsheet mode.
func NewLoader(cfg *config.Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	static := &StaticSource{Path: cfg.Source.StaticPath}
	l := &Loader{
		Primary: static,
		Apology: lang.Text{},
		Logger:  logger,
	}
	for _, code := range lang.All {
		l.Apology.Set(code, cfg.Text(code).Fallback)
	}

	if cfg.Source.Mode == config.SourceSpreadsheet {
		opts := sheet.OptionsFromConfig(cfg)
		opts.Logger = logger.Named("sheet")
		l.Primary = &SpreadsheetSource{URL: cfg.Source.SpreadsheetURL, Options: opts}
		if cfg.Source.StaticPath != "" {
			l.Fallback = static
		}
	}
	return l
}

// Load acquires the knowledge base. Concurrent calls share a single fetch,
// which runs detached from any one caller: a caller that goes away stops
// waiting without failing the others.
func (l *Loader) Load(ctx context.Context) *Result {
	ch := l.group.DoChan("load", func() (any, error) {
		return l.load(context.WithoutCancel(ctx)), nil
	})
	select {
	case res := <-ch:
		return res.Val.(*Result)
	case <-ctx.Done():
		return l.degraded(fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err()))
	}
}

func (l *Loader) load(ctx context.Context) *Result {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var errs []error
	for _, src := range []Source{l.Primary, l.Fallback} {
		if src == nil {
			continue
		}
		doc, err := src.Fetch(ctx)
		if err != nil {
			log.Warn("knowledge base source failed",
				zap.String("origin", string(src.Origin())),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(doc.Days) == 0 {
			err := fmt.Errorf("%s source: %w", src.Origin(), ErrEmpty)
			log.Warn("knowledge base source has no days", zap.String("origin", string(src.Origin())))
			errs = append(errs, err)
			continue
		}
		if doc.Fallback.Empty() {
			doc.Fallback = l.Apology
		}
		log.Info("knowledge base loaded",
			zap.String("origin", string(src.Origin())),
			zap.Int("days", len(doc.Days)))
		return &Result{Doc: doc, Origin: src.Origin(), LoadedAt: time.Now()}
	}

	err := ErrUnavailable
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	}
	log.Error("serving degraded knowledge base", zap.Error(err))
	return l.degraded(err)
}

func (l *Loader) degraded(err error) *Result {
	return &Result{
		Doc:      &knowledge.Document{Days: map[string]knowledge.Day{}, Fallback: l.Apology},
		Origin:   OriginDegraded,
		LoadedAt: time.Now(),
		Err:      err,
	}
}
