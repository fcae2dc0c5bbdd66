package entry

import (
	"strings"

	"golang.org/x/net/html"
)

// Enhance inserts block immediately before the element whose id is
// mountID. It reports false, returning doc unchanged, when no such element
// exists. Enhance does not detect a block inserted by an earlier run.
func Enhance(doc, block, mountID string) (string, bool) {
	offset, ok := mountOffset(doc, mountID)
	if !ok {
		return doc, false
	}

	indent := indentBefore(doc, offset)

	var b strings.Builder
	b.Grow(len(doc) + len(block) + len(indent) + 1)
	b.WriteString(doc[:offset])
	b.WriteString(strings.TrimSpace(block))
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString(doc[offset:])
	return b.String(), true
}

// mountOffset returns the byte offset of the mount element's start tag.
// Token raw spans are contiguous, so summing their lengths tracks the
// position in doc.
func mountOffset(doc, mountID string) (int, bool) {
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, false
		}
		size := len(z.Raw())

		if tt == html.StartTagToken {
			name, hasAttr := z.TagName()
			if string(name) == "div" && readAttrs(z, hasAttr)["id"] == mountID {
				return offset, true
			}
		}
		offset += size
	}
}

// indentBefore returns the run of spaces and tabs that precedes offset on
// its line.
func indentBefore(doc string, offset int) string {
	start := offset
	for start > 0 && (doc[start-1] == ' ' || doc[start-1] == '\t') {
		start--
	}
	return doc[start:offset]
}
