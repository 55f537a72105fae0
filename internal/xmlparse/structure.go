package xmlparse

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ParsedStructure is a parsed structure file
type ParsedStructure struct {
	// Name is the root name attribute, or the upload filename without its
	// extension when the attribute is absent
	Name string

	// Root is the normalized structure root
	Root *etree.Element

	// Folders are the top-level folder elements in document order. The same
	// element may be reached from several discovery sites; duplicates are
	// left for the tree builder's cache to merge.
	Folders []*etree.Element

	Charset string
}

// FolderFields holds the values extracted from one folder element
type FolderFields struct {
	Name       string
	Code       string
	Attributes map[string]string
}

// ParseStructure parses a structure upload. filename supplies the structure
// name when the root carries none.
func (p *Parser) ParseStructure(raw []byte, filename string) (*ParsedStructure, error) {
	root, charset, err := p.Parse(raw)
	if err != nil {
		return nil, err
	}

	root = NormalizeRoot(root)

	name := root.SelectAttrValue("name", "")
	if name == "" {
		base := path.Base(filename)
		name = strings.TrimSuffix(base, path.Ext(base))
	}

	return &ParsedStructure{
		Name:    name,
		Root:    root,
		Folders: DiscoverFolders(root),
		Charset: charset,
	}, nil
}

// NormalizeRoot descends from an <organization> root into its <structure>
// child when one is present
func NormalizeRoot(root *etree.Element) *etree.Element {
	if root.Tag != "organization" {
		return root
	}
	if structure := root.SelectElement("structure"); structure != nil {
		return structure
	}
	return root
}

// DiscoverFolders pools folder elements found directly under root, under a
// <folders> wrapper and under a <structure> wrapper, in that order
func DiscoverFolders(root *etree.Element) []*etree.Element {
	folders := append([]*etree.Element{}, root.SelectElements("folder")...)

	if wrapper := root.SelectElement("folders"); wrapper != nil {
		folders = append(folders, wrapper.SelectElements("folder")...)
	}
	if wrapper := root.SelectElement("structure"); wrapper != nil {
		folders = append(folders, wrapper.SelectElements("folder")...)
	}

	return folders
}

// ReadFolder extracts name, code and attributes from a folder element.
//
// Attributes merge three encodings, later ones overriding earlier:
//  1. <attribute name="k">v</attribute> children (empty values skipped)
//  2. the element's own XML attributes except name, code and id
//  3. children of an <attributes> wrapper, keyed by tag
func ReadFolder(el *etree.Element) FolderFields {
	name := el.SelectAttrValue("name", "")
	code := el.SelectAttrValue("code", "")
	if code == "" {
		code = DeriveCode(name)
	}

	attrs := make(map[string]string)

	for _, child := range el.SelectElements("attribute") {
		key := child.SelectAttrValue("name", "")
		value := child.Text()
		if key != "" && value != "" {
			attrs[key] = value
		}
	}

	for i := range el.Attr {
		attr := &el.Attr[i]
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		switch attr.FullKey() {
		case "name", "code", "id":
			continue
		}
		attrs[attr.FullKey()] = attr.Value
	}

	if wrapper := el.SelectElement("attributes"); wrapper != nil {
		for _, child := range wrapper.ChildElements() {
			attrs[child.Tag] = child.Text()
		}
	}

	return FolderFields{Name: name, Code: code, Attributes: attrs}
}

// DeriveCode builds a folder code from its display name
func DeriveCode(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// ChildFolders returns the folder elements nested under el: direct <folder>
// children, then <folder> children of any other wrapper child that holds
// at least one folder
func ChildFolders(el *etree.Element) []*etree.Element {
	children := append([]*etree.Element{}, el.SelectElements("folder")...)

	for _, child := range el.ChildElements() {
		if child.Tag == "folder" || child.SelectElement("folder") == nil {
			continue
		}
		children = append(children, child.SelectElements("folder")...)
	}

	return children
}
