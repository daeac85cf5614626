package rustsrc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeString returns the contents of a quoted Rust string literal with
// escapes resolved. Malformed escapes are kept verbatim.
func decodeString(raw string) string {
	s := strings.TrimLeft(raw, "bc")
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return raw
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(s[i])
		case '\n':
			// line continuation: skip the newline and leading whitespace
			for i+1 < len(s) && strings.ContainsRune(" \t\r\n", rune(s[i+1])) {
				i++
			}
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteString(`\x`)
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if i+1 < len(s) && s[i+1] == '{' && end > 0 {
				hex := strings.ReplaceAll(s[i+2:i+end], "_", "")
				if v, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(v)) {
					b.WriteRune(rune(v))
					i += end
					continue
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeRaw strips the r#"..."# delimiters of a raw string literal.
func decodeRaw(raw string) string {
	s := strings.TrimLeft(raw, "bc")
	s = strings.TrimPrefix(s, "r")
	hashes := len(s) - len(strings.TrimLeft(s, "#"))
	s = s[hashes:]
	s = s[:len(s)-min(hashes, len(s))]
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return raw
	}
	return s[1 : len(s)-1]
}
