// Package roster loads the people of a team from a spreadsheet, an html
// table or a page of the league website.
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/danielholmes839/attendance-list/internal/layout"
)

var (
	ErrUnsupportedSource = errors.New("unsupported roster source")
	ErrNoFetcher         = errors.New("no page fetcher configured")
)

// Source identifies a roster. Section is the sheet name for workbooks and a
// css selector for html tables; empty selects the default.
type Source struct {
	Path    string
	Section string
}

func (s Source) String() string {
	if s.Section == "" {
		return s.Path
	}
	return s.Path + "#" + s.Section
}

// Remote reports whether the roster is a page of a website.
func (s Source) Remote() bool {
	return strings.HasPrefix(s.Path, "http://") || strings.HasPrefix(s.Path, "https://")
}

// PageFetcher returns the rendered html of a page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (io.Reader, error)
}

type Loader struct {
	Fs      afero.Fs
	Fetcher PageFetcher
	Logger  *slog.Logger
}

// Load returns the people of src in source order. Rows without both a last
// and a first name are dropped.
func (l *Loader) Load(ctx context.Context, src Source) ([]layout.Person, error) {
	start := time.Now()

	people, err := l.load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", src, err)
	}

	if l.Logger != nil {
		l.Logger.Info("loaded roster", "source", src.String(), "players", len(people), "dur", time.Since(start).String())
	}
	return people, nil
}

func (l *Loader) load(ctx context.Context, src Source) ([]layout.Person, error) {
	if src.Remote() {
		if l.Fetcher == nil {
			return nil, ErrNoFetcher
		}
		page, err := l.Fetcher.FetchPage(ctx, src.Path)
		if err != nil {
			return nil, err
		}
		return ParseTable(page, src.Section)
	}

	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".xlsx", ".xlsm":
		file, err := l.Fs.Open(src.Path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ParseWorkbook(file, src.Section)

	case ".html", ".htm":
		file, err := l.Fs.Open(src.Path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ParseTable(file, src.Section)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Path)
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// person builds a Person from the two leading cells of a row.
func person(cells []string) (layout.Person, bool) {
	if len(cells) < 2 {
		return layout.Person{}, false
	}

	p := layout.Person{LastName: clean(cells[0]), FirstName: clean(cells[1])}
	if p.LastName == "" || p.FirstName == "" {
		return layout.Person{}, false
	}
	return p, true
}
