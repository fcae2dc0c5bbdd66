package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/config"
)

// LiteralLoader reads the hand-authored TypeScript array literal
// (src/data/masjids.ts). It first normalizes the literal into JSON; when
// that fails it falls back to scanning object bodies field by field.
// Invalid records are skipped with a warning in both modes.
type LiteralLoader struct {
	Config    *config.Config
	Log       *zap.Logger
	validator *recordValidator
}

// Load reads the data file and extracts every usable record.
func (l *LiteralLoader) Load() (*Result, error) {
	path := l.Config.Paths.Data
	res := &Result{}

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(res, errors.CodeDataUnavailable, fmt.Sprintf("reading data file %s", path), err)
	}

	candidates, strategy, warnings := parseLiteral(string(data))
	res.Strategy = strategy
	res.Warnings = warnings

	records, skipped, _ := l.validator.accept(candidates, true)
	res.Records = records
	res.Warnings = append(res.Warnings, skipped...)

	if len(records) == 0 {
		return failed(res, errors.CodeDataUnavailable,
			fmt.Sprintf("no usable records in %s (%d candidates)", path, len(candidates)), nil)
	}

	logResult(l.Log, path, res)
	return res, nil
}

// parseLiteral runs the strict tier and, if it fails, the fallback tier.
func parseLiteral(src string) ([]*rawRecord, Strategy, []Warning) {
	arr, ok := locateArray(src)
	if ok {
		var candidates []*rawRecord
		err := json.Unmarshal([]byte(normalizeLiteral(arr)), &candidates)
		if err == nil {
			return candidates, StrategyStrict, nil
		}
		return fallback(src, fmt.Sprintf("strict parse failed, using field scanner: %v", err))
	}
	return fallback(src, "no array literal found, using field scanner")
}

func fallback(src, reason string) ([]*rawRecord, Strategy, []Warning) {
	candidates, warnings := scanRecords(src)
	drift := Warning{Code: errors.CodeRecordParseDrift, Message: reason}
	return candidates, StrategyFallback, append([]Warning{drift}, warnings...)
}

var assignedArray = regexp.MustCompile(`=\s*\[`)

// locateArray returns the text from the array literal's opening bracket
// through the last closing bracket in src. The literal assigned with "= ["
// wins over any earlier bracket, such as the one in a "Masjid[]" type
// annotation.
func locateArray(src string) (string, bool) {
	start := -1
	if loc := assignedArray.FindStringIndex(src); loc != nil {
		start = loc[1] - 1
	} else {
		start = strings.IndexByte(src, '[')
	}
	end := strings.LastIndexByte(src, ']')
	if start < 0 || end <= start {
		return "", false
	}
	return src[start : end+1], true
}

var (
	// Strings are matched first so that comment markers and colons inside
	// them, like the "//" in "https://", are left alone.
	commentToken = regexp.MustCompile(`'(?:[^'\\\n]|\\.)*'|"(?:[^"\\\n]|\\.)*"|//[^\n]*|/\*[\s\S]*?\*/`)
	keyToken     = regexp.MustCompile(`"(?:[^"\\\n]|\\.)*"|[A-Za-z_$][\w$]*\s*:|,\s*[\]}]`)
)

// normalizeLiteral rewrites a JavaScript array literal into JSON: comments
// are stripped, single-quoted strings become double-quoted, bare keys are
// quoted and trailing commas are dropped.
func normalizeLiteral(src string) string {
	src = commentToken.ReplaceAllStringFunc(src, func(tok string) string {
		switch {
		case strings.HasPrefix(tok, "//"), strings.HasPrefix(tok, "/*"):
			return ""
		case tok[0] == '\'':
			return requote(tok[1 : len(tok)-1])
		default:
			return tok
		}
	})

	return keyToken.ReplaceAllStringFunc(src, func(tok string) string {
		switch tok[0] {
		case '"':
			return tok
		case ',':
			return strings.TrimLeft(tok[1:], " \t\r\n")
		default:
			key := strings.TrimSpace(strings.TrimSuffix(tok, ":"))
			return strconv.Quote(key) + ":"
		}
	})
}

// requote turns the body of a single-quoted string into a JSON string.
func requote(body string) string {
	var b strings.Builder
	b.Grow(len(body) + 2)
	b.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && body[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			b.WriteByte(body[i+1])
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// field matches a key, bare or quoted, and its colon. The word boundary
// keeps "id" from matching inside a longer key such as "masjidId".
func field(name string) string {
	return `['"]?\b` + name + `\b['"]?\s*:\s*`
}

// quoted captures a single- or double-quoted value in two groups, one per
// quote style.
const quoted = `(?:'((?:[^'\\\n]|\\.)*)'|"((?:[^"\\\n]|\\.)*)")`

// gap is any text inside the same object between two known fields:
// comments, extra keys and whitespace.
const gap = `[^{}]*?`

var (
	recordPattern = regexp.MustCompile(`^\{` + gap +
		field("id") + quoted + gap +
		field("readerName") + quoted + gap +
		field("masjidName") + quoted + gap +
		field("region") + quoted + gap +
		field("coordinates") + `\{([^{}]*)\}` + gap +
		field("googleMapsUrl") + quoted + gap +
		field("audioUrl") + quoted +
		`([^{}]*)\}$`)
	latPattern   = regexp.MustCompile(field("lat") + `(-?[\d.]+)`)
	lngPattern   = regexp.MustCompile(field("lng") + `(-?[\d.]+)`)
	notesPattern = regexp.MustCompile(field("notes") + quoted)
	idPattern    = regexp.MustCompile(field("id") + quoted)
)

// scanRecords is the fallback tier. It splits the source into top-level
// object literals and matches each one with the fields in their fixed
// authoring order; other text between the fields is ignored. A coordinate
// that is missing or does not parse is left nil so validation rejects the
// record. Objects the pattern cannot rebuild are reported as warnings.
func scanRecords(src string) ([]*rawRecord, []Warning) {
	if arr, ok := locateArray(src); ok {
		src = arr
	}

	var (
		out      []*rawRecord
		warnings []Warning
	)
	for i, obj := range objectLiterals(src) {
		m := recordPattern.FindStringSubmatch(obj)
		if m == nil {
			id := ""
			if idm := idPattern.FindStringSubmatch(obj); idm != nil {
				id = unquote(idm[1], idm[2])
			}
			label := fmt.Sprintf("object %d", i+1)
			if id != "" {
				label = fmt.Sprintf("object %d (id %q)", i+1, id)
			}
			warnings = append(warnings, Warning{
				Code:    errors.CodeInvalidRecord,
				Message: fmt.Sprintf("skipping %s: fields missing or out of order", label),
			})
			continue
		}

		r := &rawRecord{
			ID:         unquote(m[1], m[2]),
			ReaderName: unquote(m[3], m[4]),
			MosqueName: unquote(m[5], m[6]),
			Region:     unquote(m[7], m[8]),
			MapsURL:    unquote(m[10], m[11]),
			AudioURL:   unquote(m[12], m[13]),
		}
		r.Coordinates.Lat = scanFloat(latPattern, m[9])
		r.Coordinates.Lng = scanFloat(lngPattern, m[9])
		if n := notesPattern.FindStringSubmatch(m[14]); n != nil {
			r.Notes = unquote(n[1], n[2])
		}
		out = append(out, r)
	}
	return out, warnings
}

// unquote returns whichever quote-style group matched, with backslash
// escapes resolved.
func unquote(single, double string) string {
	v := single
	if v == "" {
		v = double
	}
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

// objectLiterals returns every brace-delimited object at the outermost
// nesting level of src. Braces inside strings and comments are ignored.
func objectLiterals(src string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\'', '"', '`':
			i = stringEnd(src, i)
		case '/':
			if i+1 >= len(src) {
				continue
			}
			switch src[i+1] {
			case '/':
				if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
					i += j
				} else {
					i = len(src)
				}
			case '*':
				if j := strings.Index(src[i+2:], "*/"); j >= 0 {
					i += j + 3
				} else {
					i = len(src)
				}
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, src[start:i+1])
			}
		}
	}
	return out
}

// stringEnd returns the index of the quote closing the string that opens
// at i. Single- and double-quoted strings also end at a newline.
func stringEnd(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j
		case '\n':
			if q != '`' {
				return j
			}
		}
	}
	return len(src)
}

func scanFloat(p *regexp.Regexp, body string) *float64 {
	m := p.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
