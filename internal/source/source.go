// Package source acquires the knowledge base, either from the static JSON
// document or from the event workbook.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/sheet"
)

// ErrUnavailable is returned when no source could provide a knowledge base.
var ErrUnavailable = errors.New("knowledge base unavailable")

// ErrEmpty is returned for a document that parses but holds no day.
var ErrEmpty = errors.New("knowledge base has no days")

// Origin records where a loaded document came from.
type Origin string

const (
	OriginStatic      Origin = "static"
	OriginSpreadsheet Origin = "spreadsheet"
	OriginDegraded    Origin = "degraded"
)

// Source produces a knowledge-base document.
type Source interface {
	Origin() Origin
	Fetch(ctx context.Context) (*knowledge.Document, error)
}

// StaticSource reads the JSON document from disk, or over HTTP when Path is
// a URL.
type StaticSource struct {
	Path   string
	Client *http.Client
}

func (s *StaticSource) Origin() Origin { return OriginStatic }

func (s *StaticSource) Fetch(ctx context.Context) (*knowledge.Document, error) {
	if strings.HasPrefix(s.Path, "http") {
		body, err := get(ctx, s.Client, s.Path)
		if err != nil {
			return nil, err
		}
		return knowledge.Decode(bytes.NewReader(body))
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}
	defer f.Close()
	return knowledge.Decode(f)
}

// SpreadsheetSource downloads the workbook and transforms it.
type SpreadsheetSource struct {
	URL     string
	Client  *http.Client
	Options sheet.Options

	// Now stamps the cache-busting parameter; defaults to time.Now.
	Now func() time.Time

	// LastStats holds the statistics of the most recent transformation.
	LastStats sheet.Stats
}

func (s *SpreadsheetSource) Origin() Origin { return OriginSpreadsheet }

func (s *SpreadsheetSource) Fetch(ctx context.Context) (*knowledge.Document, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	target, err := cacheBust(s.URL, now())
	if err != nil {
		return nil, err
	}

	body, err := get(ctx, s.Client, target)
	if err != nil {
		return nil, err
	}
	wb, err := sheet.ReadWorkbook(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	doc, stats := sheet.Transform(wb, s.Options)
	s.LastStats = stats
	return doc, nil
}

// cacheBust appends the _ts query parameter so intermediaries never serve a
// stale workbook.
func cacheBust(raw string, now time.Time) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing spreadsheet url: %w", err)
	}
	q := u.Query()
	q.Set("_ts", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func get(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
