package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aworks-dev/bol-extractor/internal/bol"
)

func testLoader() *DirLoader {
	return NewDirLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writePage(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadPagesOrdered(t *testing.T) {
	dir := t.TempDir()
	// Written out of order; numeric page order must win over lexical.
	writePage(t, dir, "10.txt", "tenth page\n")
	writePage(t, dir, "2.txt", "second page\n")
	writePage(t, dir, "1.txt", "A123\r\n5 10 200.0\r\n")

	pages, diags, err := testLoader().LoadPages(dir)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, pages, 3)

	assert.Equal(t, []int{1, 2, 10}, []int{pages[0].PageNumber, pages[1].PageNumber, pages[2].PageNumber})
	assert.Equal(t, []string{"A123", "5 10 200.0"}, pages[0].Lines)
}

func TestLoadPagesIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "1.txt", "page one\n")
	writePage(t, dir, "upload.pdf", "binary")
	writePage(t, dir, "notes.txt", "not a page")
	writePage(t, dir, "0.txt", "page numbers start at one")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "3.txt"), 0o755))

	pages, _, err := testLoader().LoadPages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)
}

func TestLoadPagesEmptyPageKept(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "1.txt", "A123\n")
	writePage(t, dir, "2.txt", "")
	writePage(t, dir, "3.txt", "5 10 200.0\n")

	pages, diags, err := testLoader().LoadPages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Empty(t, pages[1].Lines)
	require.Len(t, diags.ByCode(bol.DiagEmptyPage), 1)
}

func TestLoadPagesMissingDir(t *testing.T) {
	_, _, err := testLoader().LoadPages(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"interior blank kept", "a\n\nb\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.in))
		})
	}
}
