package extract

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractPlain decodes a text file: drops a UTF-8 byte order mark, normalizes CRLF and CR
// line endings to LF, and replaces invalid sequences with U+FFFD.
func extractPlain(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	text := strings.ToValidUTF8(string(content), "\ufffd")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
