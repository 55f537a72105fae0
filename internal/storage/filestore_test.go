package storage

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveOpenRemove(t *testing.T) {
	store := NewMemoryStore()

	name, err := store.Save(DocumentsPrefix, "invoice.xml", []byte("<document/>"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "documents/"))
	assert.True(t, strings.HasSuffix(name, "_invoice.xml"))

	f, err := store.Open(name)
	require.NoError(t, err)
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "<document/>", string(content))

	require.NoError(t, store.Remove(name))
	_, err = store.Open(name)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileStore_SameFilenameTwice(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Save(StructuresPrefix, "org.xml", []byte("a"))
	require.NoError(t, err)
	second, err := store.Save(StructuresPrefix, "org.xml", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "org.xml", want: "org.xml"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\org.xml`, want: "org.xml"},
		{in: "", want: "upload.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, baseName(tt.in))
		})
	}
}
