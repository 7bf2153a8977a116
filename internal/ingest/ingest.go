// Package ingest loads already-extracted page text from disk into RawPages.
// The upstream text extractor writes one "<page>.txt" per page; ingest only
// orders and decodes them, it never corrects extraction artifacts.
package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// PageLoader is the behavior the CLI and server depend on.
type PageLoader interface {
	LoadPages(dir string) ([]bol.RawPage, bol.Diagnostics, error)
}

// DirLoader reads numbered page files from a directory.
type DirLoader struct {
	Logger *slog.Logger
}

func NewDirLoader(logger *slog.Logger) *DirLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirLoader{Logger: logger}
}

// LoadPages reads every "<n>.txt" in dir, ordered by page number. Files with
// non-numeric names are ignored (the session directory also holds uploads
// and outputs). Empty pages are kept — page numbering must stay aligned with
// the source document — and flagged.
func (l *DirLoader) LoadPages(dir string) ([]bol.RawPage, bol.Diagnostics, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, common.NewAppError("INGEST_READ", "reading page directory", err)
	}

	type pageFile struct {
		number int
		name   string
	}
	var files []pageFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.PageFileExtensions[ext]; !ok {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		n, err := strconv.Atoi(base)
		if err != nil || n < 1 {
			continue
		}
		files = append(files, pageFile{number: n, name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	var (
		pages []bol.RawPage
		diags bol.Diagnostics
	)
	for _, pf := range files {
		data, err := os.ReadFile(filepath.Join(dir, pf.name))
		if err != nil {
			return nil, diags, common.NewAppError("INGEST_READ", "reading page file "+pf.name, err)
		}
		lines := splitLines(string(data))
		if len(lines) == 0 {
			diags.Add(bol.SeverityInfo, bol.DiagEmptyPage, "", "",
				"page %d has no extractable text", pf.number)
		}
		pages = append(pages, bol.RawPage{PageNumber: pf.number, Lines: lines})
	}

	l.Logger.Info("ingest.pages.ok", "dir", dir, "pages", len(pages))
	return pages, diags, nil
}

// splitLines splits on LF, tolerating CRLF, and drops a single trailing
// empty line left by a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
