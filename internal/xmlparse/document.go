package xmlparse

import (
	"strings"

	"github.com/beevik/etree"

	"treelink/internal/domain"
)

// ParsedDocument is a parsed document upload
type ParsedDocument struct {
	Code       string            // header/doc_number
	Title      string            // header/title
	FolderCode string            // metadata/folder_code
	Metadata   map[string]string // every non-blank metadata child, trimmed
	Charset    string
}

// ParseDocument parses a document upload and checks its required fields.
// An absent element and a blank one are reported differently.
func (p *Parser) ParseDocument(raw []byte) (*ParsedDocument, error) {
	root, charset, err := p.Parse(raw)
	if err != nil {
		return nil, err
	}

	header := root.SelectElement("header")
	if header == nil {
		return nil, &domain.MissingRequiredFieldError{Field: "header", Presence: domain.PresenceMissing}
	}

	code, err := requiredText(header, "header", "doc_number")
	if err != nil {
		return nil, err
	}
	title, err := requiredText(header, "header", "title")
	if err != nil {
		return nil, err
	}

	metadata := root.SelectElement("metadata")
	if metadata == nil {
		return nil, &domain.MissingRequiredFieldError{Field: "metadata", Presence: domain.PresenceMissing}
	}

	folderCode, err := requiredText(metadata, "metadata", "folder_code")
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, child := range metadata.ChildElements() {
		if text := strings.TrimSpace(child.Text()); text != "" {
			values[child.Tag] = text
		}
	}

	return &ParsedDocument{
		Code:       code,
		Title:      title,
		FolderCode: folderCode,
		Metadata:   values,
		Charset:    charset,
	}, nil
}

func requiredText(parent *etree.Element, parentTag, tag string) (string, error) {
	field := parentTag + "/" + tag

	el := parent.SelectElement(tag)
	if el == nil {
		return "", &domain.MissingRequiredFieldError{Field: field, Presence: domain.PresenceMissing}
	}

	text := strings.TrimSpace(el.Text())
	if text == "" {
		return "", &domain.MissingRequiredFieldError{Field: field, Presence: domain.PresenceEmpty}
	}

	return text, nil
}
