package packet

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Charset converts packet strings between UTF-8 and the encoding spectator
// clients expect. A nil *Charset passes UTF-8 through untouched.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// LookupCharset resolves a WHATWG encoding label ("utf-8", "big5", "gbk", ...).
func LookupCharset(label string) (*Charset, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	if name == "utf-8" {
		return nil, nil
	}
	return &Charset{name: name, enc: enc}, nil
}

func (c *Charset) Name() string {
	if c == nil {
		return "utf-8"
	}
	return c.name
}

// Encode converts s to the charset. Unencodable runes fall back to the raw
// UTF-8 bytes of the whole string.
func (c *Charset) Encode(s string) []byte {
	if c == nil || isASCII(s) {
		return []byte(s)
	}
	b, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// Decode converts raw charset bytes to UTF-8.
func (c *Charset) Decode(raw []byte) string {
	if c == nil || isASCII(string(raw)) {
		return string(raw)
	}
	b, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil || !utf8.Valid(b) {
		return string(raw)
	}
	return string(b)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
