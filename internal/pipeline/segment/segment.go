// Package segment splits raw per-page document text into ordered shipment
// blocks. Pure function, no I/O; identical input always yields identical
// block boundaries and order.
package segment

import (
	"regexp"
	"strings"

	"github.com/aworks-dev/bol-extractor/internal/bol"
)

// A block header is either a shipment/style code standing alone on its line,
// or one prefixed by a document label. Style codes are letters-then-digits
// or digits-then-letters.
var (
	styleCodeRe  = regexp.MustCompile(`^(?:[A-Za-z]{1,5}\d{1,10}|\d{1,10}[A-Za-z]{1,5})$`)
	labeledHdrRe = regexp.MustCompile(`(?i)^(?:BILL OF LADING|B/?L|SHIPMENT|STYLE|INVOICE)\s*[:#]?\s+([A-Za-z]{1,5}\d{1,10}|\d{1,10}[A-Za-z]{1,5})\s*$`)
)

// HeaderID returns the shipment identifier when the line is a block header.
func HeaderID(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}
	if m := labeledHdrRe.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]), true
	}
	if styleCodeRe.MatchString(s) {
		return strings.ToUpper(s), true
	}
	return "", false
}

// Segment walks pages in order and opens a new block at every header line.
// Lines after a header belong to that block until the next header or end of
// input, so blocks span page boundaries. Lines before the first header are
// document preamble: discarded, but surfaced as diagnostics rather than
// silently eaten.
func Segment(pages []bol.RawPage) ([]bol.ShipmentBlock, bol.Diagnostics) {
	var (
		blocks []bol.ShipmentBlock
		diags  bol.Diagnostics
		cur    *bol.ShipmentBlock
	)
	for _, page := range pages {
		for _, line := range page.Lines {
			if id, ok := HeaderID(line); ok {
				if cur != nil {
					blocks = append(blocks, *cur)
				}
				cur = &bol.ShipmentBlock{
					BlockID:     id,
					SourcePages: []int{page.PageNumber},
				}
				continue
			}
			if cur == nil {
				if strings.TrimSpace(line) != "" {
					diags.Add(bol.SeverityInfo, bol.DiagPreambleLine, "", line,
						"page %d: line before first shipment header discarded", page.PageNumber)
				}
				continue
			}
			cur.RawLines = append(cur.RawLines, line)
			cur.SourcePages = appendPage(cur.SourcePages, page.PageNumber)
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks, diags
}

// appendPage records n once, keeping page order. Pages arrive sorted, so
// checking the tail is enough.
func appendPage(pages []int, n int) []int {
	if len(pages) > 0 && pages[len(pages)-1] == n {
		return pages
	}
	return append(pages, n)
}
