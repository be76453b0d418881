package scrape

import (
	"strconv"
	"strings"
)

var namedEntities = map[string]rune{
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
	"lt":   '<',
	"gt":   '>',
}

// UnescapeHTML decodes the common named entities plus decimal and hex
// numeric character references. Unknown entities pass through unchanged,
// delimiters included, so garbled upstream text survives verbatim.
func UnescapeHTML(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		if r, ok := decodeEntity(s[i+1 : i+end]); ok {
			b.WriteRune(r)
			i += end + 1
			continue
		}
		b.WriteByte('&')
		i++
	}
	return b.String()
}

func decodeEntity(name string) (rune, bool) {
	if r, ok := namedEntities[name]; ok {
		return r, true
	}
	if len(name) > 2 && (strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X")) {
		n, err := strconv.ParseInt(name[2:], 16, 32)
		if err != nil || n < 0 {
			return 0, false
		}
		return rune(n), true
	}
	if len(name) > 1 && name[0] == '#' {
		n, err := strconv.ParseInt(name[1:], 10, 32)
		if err != nil || n < 0 {
			return 0, false
		}
		return rune(n), true
	}
	return 0, false
}
