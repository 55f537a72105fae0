package xmlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelink/internal/domain"
)

func TestParseDocument(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<document>
	<header>
		<doc_number>  INV-001 </doc_number>
		<title>Invoice</title>
	</header>
	<metadata>
		<folder_code>FIN</folder_code>
		<author> Ivanov </author>
		<blank>   </blank>
	</metadata>
</document>`

	parsed, err := NewParser().ParseDocument([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "INV-001", parsed.Code)
	assert.Equal(t, "Invoice", parsed.Title)
	assert.Equal(t, "FIN", parsed.FolderCode)
	assert.Equal(t, map[string]string{"folder_code": "FIN", "author": "Ivanov"}, parsed.Metadata)
}

func TestParseDocument_RequiredFields(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantField    string
		wantPresence domain.Presence
	}{
		{
			name:         "header missing",
			src:          `<document><metadata><folder_code>F</folder_code></metadata></document>`,
			wantField:    "header",
			wantPresence: domain.PresenceMissing,
		},
		{
			name:         "header without children still checked for doc_number",
			src:          `<document><header/><metadata><folder_code>F</folder_code></metadata></document>`,
			wantField:    "header/doc_number",
			wantPresence: domain.PresenceMissing,
		},
		{
			name:         "doc_number blank",
			src:          `<document><header><doc_number>  </doc_number><title>T</title></header><metadata><folder_code>F</folder_code></metadata></document>`,
			wantField:    "header/doc_number",
			wantPresence: domain.PresenceEmpty,
		},
		{
			name:         "title missing",
			src:          `<document><header><doc_number>D</doc_number></header><metadata><folder_code>F</folder_code></metadata></document>`,
			wantField:    "header/title",
			wantPresence: domain.PresenceMissing,
		},
		{
			name:         "metadata missing",
			src:          `<document><header><doc_number>D</doc_number><title>T</title></header></document>`,
			wantField:    "metadata",
			wantPresence: domain.PresenceMissing,
		},
		{
			name:         "folder_code empty",
			src:          `<document><header><doc_number>D</doc_number><title>T</title></header><metadata><folder_code/></metadata></document>`,
			wantField:    "metadata/folder_code",
			wantPresence: domain.PresenceEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseDocument([]byte(tt.src))

			var missing *domain.MissingRequiredFieldError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.wantField, missing.Field)
			assert.Equal(t, tt.wantPresence, missing.Presence)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}
