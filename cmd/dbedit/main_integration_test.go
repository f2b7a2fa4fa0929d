//go:build integration
// +build integration

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbedit"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLISQLite(t *testing.T) {
	chdir(t, t.TempDir())
	url := "sqlite://" + filepath.Join(t.TempDir(), "cli.db")

	s, err := dbedit.Open(context.Background(), url, nil)
	require.NoError(t, err)
	_, err = s.Run(context.Background(), `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT DEFAULT 'empty', pinned BOOLEAN DEFAULT 0)`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, _, err := runCLI(t, "tables", "--url", url)
	require.NoError(t, err)
	assert.Equal(t, "notes\n", out)

	out, _, err = runCLI(t, "insert", "notes", "--url", url, "--set", "body=it's here")
	require.NoError(t, err)
	assert.Contains(t, out, `INSERT INTO "notes" ("body", "pinned") VALUES ('it''s here', 0)`)
	assert.Contains(t, out, "1 row affected")

	out, stderr, err := runCLI(t, "query", "SELECT id, body FROM notes", "--url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "it's here")
	assert.Contains(t, stderr, "rows editable in table notes")

	_, stderr, err = runCLI(t, "query", "SELECT body FROM notes", "--url", url)
	require.NoError(t, err)
	assert.Contains(t, stderr, "read-only: Select at least all primary columns")

	out, _, err = runCLI(t, "edit", "notes", "--url", url, "--key", "id=1", "--set", "pinned=1")
	require.NoError(t, err)
	assert.Contains(t, out, `UPDATE "notes" SET "pinned" = 1 WHERE "id" = 1`)

	out, stderr, err = runCLI(t, "clone", "notes", "--url", url, "--key", "id=1", "--set", "id=", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `INSERT INTO "notes" ("body", "pinned") VALUES ('it''s here', 1)`)
	assert.Contains(t, stderr, "dry run")

	out, _, err = runCLI(t, "delete", "notes", "--url", url, "--key", "id=1")
	require.NoError(t, err)
	assert.Contains(t, out, `DELETE FROM "notes" WHERE "id" = 1`)

	out, _, err = runCLI(t, "browse", "notes", "--url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "(0 rows)")
}
