package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbedit/internal/config"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    []assignment
		wantErr bool
	}{
		{
			name:  "simple",
			pairs: []string{"name=Ann", "id=5"},
			want:  []assignment{{column: "name", value: "Ann"}, {column: "id", value: "5"}},
		},
		{
			name:  "value keeps later equals signs and spaces",
			pairs: []string{" note = a=b "},
			want:  []assignment{{column: "note", value: " a=b "}},
		},
		{
			name:  "empty value",
			pairs: []string{"id="},
			want:  []assignment{{column: "id", value: ""}},
		},
		{
			name:    "missing equals",
			pairs:   []string{"name"},
			wantErr: true,
		},
		{
			name:    "missing column",
			pairs:   []string{"=x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyMap(t *testing.T) {
	m := keyMap([]assignment{{column: "id", value: "1"}, {column: "lang", value: "en"}})
	assert.Equal(t, map[string]string{"id": "1", "lang": "en"}, m)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "json"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "table", "users")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"table":"users"`)
}

func TestRootCmdSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"tables", "columns", "query", "browse", "default-row", "insert", "edit", "clone", "delete"} {
		assert.Contains(t, names, want)
	}

	del, _, err := root.Find([]string{"delete"})
	require.NoError(t, err)
	assert.Nil(t, del.Flags().Lookup("set"))
	assert.NotNil(t, del.Flags().Lookup("key"))
}

func TestRootCmdRequiresURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DBEDIT_DATABASE_URL", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"tables"})

	err := root.Execute()
	assert.ErrorContains(t, err, "database URL is required")
}

func TestRootCmdRejectsBadOutput(t *testing.T) {
	chdir(t, t.TempDir())

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"tables", "--output", "yaml", "--url", "sqlite://x.db"})

	err := root.Execute()
	assert.ErrorContains(t, err, "unsupported output format")
}
