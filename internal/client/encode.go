package client

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way the browser's encodeURIComponent does:
// everything except A-Z a-z 0-9 and -_.!~*'() is escaped as UTF-8 bytes.
// url.QueryEscape differs (space becomes "+", and !'()* are escaped).
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
