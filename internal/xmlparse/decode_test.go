package xmlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"treelink/internal/domain"
)

func TestDeclaredEncoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "double quotes", raw: `<?xml version="1.0" encoding="windows-1251"?><a/>`, want: "windows-1251"},
		{name: "single quotes upper case", raw: `<?xml version='1.0' encoding='KOI8-R'?><a/>`, want: "koi8-r"},
		{name: "no encoding", raw: `<?xml version="1.0"?><a/>`, want: ""},
		{name: "no prolog", raw: `<a encoding="x"/>`, want: ""},
		{name: "bom before prolog", raw: "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"utf-8\"?><a/>", want: "utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeclaredEncoding([]byte(tt.raw)))
		})
	}
}

func TestDecodeText_UTF8(t *testing.T) {
	text, charset, err := DecodeText([]byte("\xEF\xBB\xBF<a>Отдел</a>"), "", DefaultFallbacks)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", charset)
	assert.Equal(t, "<a>Отдел</a>", text)
}

func TestDecodeText_Windows1251Fallback(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String(`<folder name="Отдел продаж"/>`)
	require.NoError(t, err)

	text, charset, err := DecodeText([]byte(raw), "", DefaultFallbacks)
	require.NoError(t, err)
	assert.Equal(t, "windows-1251", charset)
	assert.Equal(t, `<folder name="Отдел продаж"/>`, text)
}

func TestDecodeText_DeclaredEncodingWins(t *testing.T) {
	src := `<?xml version="1.0" encoding="koi8-r"?><folder name="Бухгалтерия"/>`
	raw, err := charmap.KOI8R.NewEncoder().String(src)
	require.NoError(t, err)

	text, charset, err := DecodeText([]byte(raw), DeclaredEncoding([]byte(raw)), DefaultFallbacks)
	require.NoError(t, err)
	assert.Equal(t, "koi8-r", charset)
	assert.Equal(t, src, text)
}

func TestDecodeText_NoEncodingSucceeds(t *testing.T) {
	_, _, err := DecodeText([]byte{'<', 'a', '>', 0xCE, 0xF2, '<', '/', 'a', '>'}, "", nil)
	require.Error(t, err)

	var decodeErr *domain.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, []string{"utf-8"}, decodeErr.Tried)
	assert.Equal(t, "decode_error", decodeErr.Reason())
}
