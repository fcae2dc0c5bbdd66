// Package entry reads and rewrites the entry document produced by the
// application bundle build.
package entry

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
)

// AssetTags holds the stylesheet and script tags of the entry document,
// verbatim and in document order.
type AssetTags struct {
	Stylesheets []string
	Scripts     []string
}

// Empty reports whether no asset tags were found, which usually means the
// entry document is a development placeholder.
func (a AssetTags) Empty() bool {
	return len(a.Stylesheets) == 0 && len(a.Scripts) == 0
}

// StylesheetHTML returns the stylesheet tags joined for embedding in <head>.
func (a AssetTags) StylesheetHTML() template.HTML {
	return template.HTML(strings.Join(a.Stylesheets, "\n    "))
}

// ScriptHTML returns the script tags joined for embedding in <body>.
func (a AssetTags) ScriptHTML() template.HTML {
	return template.HTML(strings.Join(a.Scripts, "\n    "))
}

// ExtractAssets scans doc for <link rel="stylesheet"> tags and <script>
// tags with a src attribute. Scripts are returned with their closing tag.
func ExtractAssets(doc string) AssetTags {
	var (
		tags   AssetTags
		script *strings.Builder
	)

	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())

		if script != nil {
			script.WriteString(raw)
			if tt == html.EndTagToken {
				if name, _ := z.TagName(); string(name) == "script" {
					tags.Scripts = append(tags.Scripts, script.String())
					script = nil
				}
			}
			continue
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		attrs := readAttrs(z, hasAttr)

		switch string(name) {
		case "link":
			if hasToken(attrs["rel"], "stylesheet") {
				tags.Stylesheets = append(tags.Stylesheets, raw)
			}
		case "script":
			if _, ok := attrs["src"]; !ok {
				continue
			}
			if tt == html.SelfClosingTagToken {
				tags.Scripts = append(tags.Scripts, raw)
				continue
			}
			script = &strings.Builder{}
			script.WriteString(raw)
		}
	}

	return tags
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	var key, val []byte
	for more {
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// hasToken reports whether the space-separated list contains tok,
// ignoring ASCII case.
func hasToken(list, tok string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}
