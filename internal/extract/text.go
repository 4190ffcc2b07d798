package extract

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText decodes raw text bytes. UTF-8 wins when valid, then Latin-1,
// then a lossy pass that strips invalid sequences.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(decoded)
	}

	return string(bytes.ToValidUTF8(data, nil))
}
