package xmlparse

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"treelink/internal/domain"
)

func element(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(src))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func folderNames(els []*etree.Element) []string {
	names := make([]string, 0, len(els))
	for _, el := range els {
		names = append(names, el.SelectAttrValue("name", ""))
	}
	return names
}

func TestParseStructure_Name(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name     string
		src      string
		filename string
		want     string
	}{
		{name: "root name attribute", src: `<structure name="Company"/>`, filename: "org.xml", want: "Company"},
		{name: "filename without extension", src: `<structure/>`, filename: "org_chart.xml", want: "org_chart"},
		{name: "organization root uses inner structure name", src: `<organization name="Outer"><structure name="Inner"/></organization>`, filename: "x.xml", want: "Inner"},
		{name: "organization without structure child", src: `<organization name="Outer"><folder name="A"/></organization>`, filename: "x.xml", want: "Outer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := p.ParseStructure([]byte(tt.src), tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.Name)
		})
	}
}

func TestParseStructure_PoolsDiscoverySites(t *testing.T) {
	src := `<structure name="S">
		<folder name="Direct"/>
		<folders><folder name="Wrapped"/></folders>
		<structure><folder name="Nested"/></structure>
	</structure>`

	parsed, err := NewParser().ParseStructure([]byte(src), "s.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Direct", "Wrapped", "Nested"}, folderNames(parsed.Folders))
	assert.Equal(t, "utf-8", parsed.Charset)
}

func TestParseStructure_LegacyEncoding(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String(`<structure name="Оргструктура"><folder name="Отдел кадров" code="HR"/></structure>`)
	require.NoError(t, err)

	parsed, err := NewParser().ParseStructure([]byte(raw), "s.xml")
	require.NoError(t, err)
	assert.Equal(t, "Оргструктура", parsed.Name)
	require.Len(t, parsed.Folders, 1)
	assert.Equal(t, "Отдел кадров", ReadFolder(parsed.Folders[0]).Name)
}

func TestParseStructure_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated tag", src: `<structure><folder code="F1"`},
		{name: "no root element", src: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseStructure([]byte(tt.src), "bad.xml")
			var malformed *domain.MalformedXMLError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.NotEmpty(t, malformed.Diagnostic)
		})
	}
}

func TestReadFolder_AttributePrecedence(t *testing.T) {
	el := element(t, `<folder name="Sales Dept" id="7" owner="xml-attr" region="north">
		<attribute name="owner">child</attribute>
		<attribute name="floor">3</attribute>
		<attribute name="ignored"></attribute>
		<attributes><owner>wrapper</owner><budget/></attributes>
	</folder>`)

	got := ReadFolder(el)

	assert.Equal(t, "Sales Dept", got.Name)
	assert.Equal(t, "sales_dept", got.Code)
	assert.Equal(t, map[string]string{
		"owner":  "wrapper",
		"floor":  "3",
		"region": "north",
		"budget": "",
	}, got.Attributes)
}

func TestReadFolder_Code(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "explicit code", src: `<folder name="Finance" code="FIN-01"/>`, want: "FIN-01"},
		{name: "derived from name", src: `<folder name="Human Resources"/>`, want: "human_resources"},
		{name: "empty code attribute derives", src: `<folder name="IT Ops" code=""/>`, want: "it_ops"},
		{name: "cyrillic name lowercased", src: `<folder name="Отдел Кадров"/>`, want: "отдел_кадров"},
		{name: "no name no code", src: `<folder/>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadFolder(element(t, tt.src)).Code)
		})
	}
}

func TestChildFolders_SecondarySweep(t *testing.T) {
	el := element(t, `<folder name="Root">
		<folder name="A"/>
		<children><folder name="B"/><folder name="C"/></children>
		<attributes><owner>x</owner></attributes>
		<folder name="D"/>
	</folder>`)

	assert.Equal(t, []string{"A", "D", "B", "C"}, folderNames(ChildFolders(el)))
}
