package sourcedb

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset - кодировка текстовых колонок базы источника.
type Charset string

const (
	CharsetUTF8   Charset = "utf8"
	CharsetCP1251 Charset = "cp1251"
)

func ParseCharset(s string) (Charset, error) {
	switch c := Charset(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CharsetUTF8:
		return CharsetUTF8, nil
	case CharsetCP1251:
		return c, nil
	}
	return "", fmt.Errorf("unsupported source charset %q", s)
}

func (c Charset) decoder() (func(string) string, error) {
	switch c {
	case "", CharsetUTF8:
		return func(s string) string { return s }, nil
	case CharsetCP1251:
		return decodeCP1251, nil
	}
	return nil, fmt.Errorf("unsupported source charset %q", string(c))
}

// decodeCP1251 перекодирует строку из windows-1251.
// Уже валидный UTF-8 с кириллицей не трогается, чтобы не испортить его повторным декодированием.
func decodeCP1251(s string) string {
	if s == "" || (utf8.ValidString(s) && !hasHighBytes(s)) {
		return s
	}
	if utf8.ValidString(s) && strings.ContainsFunc(s, isCyrillic) {
		return s
	}
	out, _, err := transform.String(charmap.Windows1251.NewDecoder(), s)
	if err != nil {
		return s
	}
	return out
}

func hasHighBytes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}
