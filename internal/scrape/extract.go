// Package scrape holds the defensive field extractors shared by the
// source clients. Upstream markup is unversioned; a missing node or path
// always degrades to the caller's default and never aborts a fetch.
package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// Text returns the text of the first node matched by selector, or def
// when nothing matches or the text is blank.
func Text(s *goquery.Selection, selector, def string) string {
	t := strings.TrimSpace(s.Find(selector).First().Text())
	if t == "" {
		return def
	}
	return t
}

// Attr returns the named attribute of the first node matched by
// selector, or def when the node or attribute is absent.
func Attr(s *goquery.Selection, selector, attr, def string) string {
	v, ok := s.Find(selector).First().Attr(attr)
	if !ok || v == "" {
		return def
	}
	return v
}

// Float parses the text of the first node matched by selector as a
// float. Absent nodes and unparseable text both yield def; the sentinel
// is applied before strconv ever runs on an empty string.
func Float(s *goquery.Selection, selector string, def float64) float64 {
	t := strings.TrimSpace(s.Find(selector).First().Text())
	if t == "" {
		return def
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return def
	}
	return v
}

// Int is the integer counterpart of Float.
func Int(s *goquery.Selection, selector string, def int) int {
	t := strings.TrimSpace(s.Find(selector).First().Text())
	if t == "" {
		return def
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return def
	}
	return v
}

// JSONStr resolves path in doc, returning def when the path is absent
// or blank.
func JSONStr(doc gjson.Result, path, def string) string {
	v := doc.Get(path)
	if !v.Exists() || v.String() == "" {
		return def
	}
	return v.String()
}

// JSONFloat resolves path in doc as a float64, def when absent.
func JSONFloat(doc gjson.Result, path string, def float64) float64 {
	v := doc.Get(path)
	if !v.Exists() {
		return def
	}
	return v.Float()
}

// JSONInt resolves path in doc as an int, def when absent.
func JSONInt(doc gjson.Result, path string, def int) int {
	v := doc.Get(path)
	if !v.Exists() {
		return def
	}
	return int(v.Int())
}

// JSONJoin joins the elements of the array at path with sep. Scalar
// values at path come back as themselves; an absent path yields def.
func JSONJoin(doc gjson.Result, path, sep, def string) string {
	v := doc.Get(path)
	if !v.Exists() {
		return def
	}
	if !v.IsArray() {
		if v.String() == "" {
			return def
		}
		return v.String()
	}
	var parts []string
	for _, el := range v.Array() {
		if s := el.String(); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return def
	}
	return strings.Join(parts, sep)
}

// OrNA coerces a blank string to the "N/A" sentinel that downstream
// code probes for.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// SplitDurationAndClass classifies the positional metadata fragments of
// a search row. The first fragment is always the year; of the trailing
// one or two, the fragment containing an hour/minute token is the
// duration and the other is the content classification.
func SplitDurationAndClass(fragments []string) (duration, class string) {
	if len(fragments) <= 1 {
		return "N/A", "N/A"
	}
	if len(fragments) == 2 {
		if isDuration(fragments[1]) {
			return fragments[1], "N/A"
		}
		return "N/A", fragments[1]
	}
	if isDuration(fragments[1]) {
		return fragments[1], fragments[2]
	}
	return fragments[2], fragments[1]
}

func isDuration(s string) bool {
	return strings.Contains(s, "h") || strings.Contains(s, "m")
}
