package xmlparse

import (
	"io"

	"github.com/beevik/etree"

	"treelink/internal/domain"
)

// Parser decodes uploaded bytes and parses them into an element tree
type Parser struct {
	Fallbacks []Charset
}

// NewParser creates a parser with the default legacy encoding fallbacks
func NewParser() *Parser {
	return &Parser{Fallbacks: DefaultFallbacks}
}

// Parse decodes raw and returns the document root element along with the
// charset used to decode it
func (p *Parser) Parse(raw []byte) (*etree.Element, string, error) {
	text, charset, err := DecodeText(raw, DeclaredEncoding(raw), p.Fallbacks)
	if err != nil {
		return nil, "", err
	}

	doc := etree.NewDocument()
	// Text is already UTF-8; the prolog may still name the original charset
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, "", &domain.MalformedXMLError{Diagnostic: err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, "", &domain.MalformedXMLError{Diagnostic: "no root element"}
	}

	return root, charset, nil
}
