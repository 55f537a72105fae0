package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structureXML = `<?xml version="1.0" encoding="UTF-8"?>
<structure name="Registry">
  <folder name="Finance" code="FIN">
    <folder name="Invoices" code="INV"/>
  </folder>
  <folder name="Legal" code="LEG"/>
</structure>`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "ctl.db"))
	t.Setenv("STORAGE_ROOT", filepath.Join(dir, "media"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	dropConfirm = false
	verbose = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestImportTreeCheck(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 3")
	assert.Contains(t, out, "00001_create_structures_folders.sql")

	path := filepath.Join(dir, "registry.xml")
	require.NoError(t, os.WriteFile(path, []byte(structureXML), 0o644))

	out, err = run(t, "import", path, "--json")
	require.NoError(t, err)

	var imported struct {
		StructureID string `json:"structure_id"`
		Folders     int    `json:"folders_processed"`
		Duplicate   bool   `json:"duplicate"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Equal(t, 3, imported.Folders)
	assert.False(t, imported.Duplicate)

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already imported")

	out, err = run(t, "tree", imported.StructureID)
	require.NoError(t, err)
	assert.Contains(t, out, "Registry\n")
	assert.Contains(t, out, "  Finance [FIN]\n")
	assert.Contains(t, out, "    Invoices [INV]\n")

	out, err = run(t, "check", imported.StructureID)
	require.NoError(t, err)
	assert.Contains(t, out, "Registry: 3 folders, 0 issues")

	out, err = run(t, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "VALIDATE")
	assert.Contains(t, out, "STRUCTURE_IMPORT")
}

func TestDrop(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "migrate", "up")
	require.NoError(t, err)

	_, err = run(t, "drop")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, "drop", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "all tables dropped")

	t.Setenv("ENVIRONMENT", "prod")
	_, err = run(t, "drop", "--yes")
	assert.ErrorContains(t, err, "production")
}
