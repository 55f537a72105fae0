package xmlparse

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"treelink/internal/domain"
)

// Charset is a named single-byte text encoding tried when UTF-8 fails
type Charset struct {
	Name     string
	Encoding encoding.Encoding
}

// DefaultFallbacks is the ordered list of legacy Cyrillic encodings tried
// after UTF-8 and the declared encoding
var DefaultFallbacks = []Charset{
	{Name: "windows-1251", Encoding: charmap.Windows1251},
	{Name: "koi8-r", Encoding: charmap.KOI8R},
	{Name: "ibm866", Encoding: charmap.CodePage866},
	{Name: "iso-8859-5", Encoding: charmap.ISO8859_5},
}

var (
	utf8BOM         = []byte{0xEF, 0xBB, 0xBF}
	declaredPattern = regexp.MustCompile(`^\s*<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:\-]+)["']`)
)

// DeclaredEncoding returns the encoding named in the XML prolog, or "".
func DeclaredEncoding(raw []byte) string {
	head := raw
	if len(head) > 256 {
		head = head[:256]
	}
	head = bytes.TrimPrefix(head, utf8BOM)
	m := declaredPattern.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return strings.ToLower(string(m[1]))
}

// DecodeText converts raw bytes to a UTF-8 string. UTF-8 is tried first, then
// the declared encoding when it is a known charset, then each fallback in
// order. A candidate fails when it produces replacement characters.
// Returns the decoded text and the name of the charset that succeeded.
func DecodeText(raw []byte, declared string, fallbacks []Charset) (string, string, error) {
	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), "utf-8", nil
	}

	candidates := make([]Charset, 0, len(fallbacks)+1)
	if declared != "" && declared != "utf-8" && declared != "utf8" {
		if enc, err := ianaindex.IANA.Encoding(declared); err == nil && enc != nil {
			candidates = append(candidates, Charset{Name: declared, Encoding: enc})
		}
	}
	candidates = append(candidates, fallbacks...)

	tried := []string{"utf-8"}
	for _, cs := range candidates {
		tried = append(tried, cs.Name)
		out, err := cs.Encoding.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out), cs.Name, nil
	}

	return "", "", &domain.DecodeError{Tried: tried}
}
