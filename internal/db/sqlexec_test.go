package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbedit/internal/schema"
	"github.com/tordrt/dbedit/internal/testutil"
)

func newMockExecutor(t *testing.T) (*SQLExecutor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &SQLExecutor{DB: db, Logger: testutil.NewTestLogger(t)}, mock
}

func usersRows() *sqlmock.Rows {
	return sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT", int64(0)),
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("score").OfType("DECIMAL", ""),
	)
}

func TestSQLExecutor_Query(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users")).WillReturnRows(
		usersRows().
			AddRow([]byte("1"), []byte("ann"), []byte("12.50")).
			AddRow([]byte("2"), nil, nil),
	)

	res, err := exec.Query(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)

	assert.True(t, res.IsQuery)
	assert.Equal(t, []string{"id", "name", "score"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, schema.Row{
		"id":    schema.Number(1),
		"name":  schema.Text("ann"),
		"score": schema.Number(12.5),
	}, res.Rows[0])
	assert.True(t, res.Rows[1]["name"].IsNull())
	assert.Equal(t, "2 rows", res.Summary())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExecutor_Execute(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		setupMock func(mock sqlmock.Sqlmock)
		isQuery   bool
		summary   string
		expectErr bool
	}{
		{
			name: "update reports affected rows",
			sql:  "UPDATE `users` SET `name` = 'b' WHERE `id` = 1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE `users`").WillReturnResult(sqlmock.NewResult(0, 1))
			},
			summary: "1 row affected",
		},
		{
			name: "delete of many rows",
			sql:  "DELETE FROM `users` WHERE `id` = 1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM").WillReturnResult(sqlmock.NewResult(0, 3))
			},
			summary: "3 rows affected",
		},
		{
			name: "select goes through query",
			sql:  "  select id from users",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("select id").WillReturnRows(usersRows().AddRow([]byte("1"), []byte("a"), nil))
			},
			isQuery: true,
			summary: "1 row",
		},
		{
			name: "execution error surfaces",
			sql:  "INSERT INTO `users` (`id`) VALUES (1)",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO").WillReturnError(assert.AnError)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, mock := newMockExecutor(t)
			tt.setupMock(mock)

			res, err := exec.Execute(context.Background(), tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, assert.AnError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.isQuery, res.IsQuery)
			assert.Equal(t, tt.summary, res.Summary())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLExecutor_FetchRow(t *testing.T) {
	exec, mock := newMockExecutor(t)
	mock.ExpectQuery("SELECT").WillReturnRows(usersRows().AddRow([]byte("7"), []byte("zed"), nil))
	mock.ExpectQuery("SELECT").WillReturnRows(usersRows())

	row, found, err := exec.FetchRow(context.Background(), "SELECT * FROM `users` WHERE `id` = 7")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, schema.Text("zed"), row["name"])

	_, found, err = exec.FetchRow(context.Background(), "SELECT * FROM `users` WHERE `id` = 8")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLExecutor_WithoutConnection(t *testing.T) {
	exec := &SQLExecutor{}

	_, err := exec.Query(context.Background(), "SELECT 1")
	assert.ErrorContains(t, err, "database connection not established")

	_, err = exec.Exec(context.Background(), "DELETE FROM t")
	assert.ErrorContains(t, err, "database connection not established")

	assert.NoError(t, exec.Close())
}

func TestReturnsRows(t *testing.T) {
	tests := map[string]bool{
		"SELECT 1":                 true,
		"(select 1)":               true,
		"show tables":              true,
		"WITH x AS (SELECT 1) ...": true,
		"PRAGMA table_info(t)":     true,
		"insert into t values (1)": false,
		"UPDATE t SET a = 1":       false,
		"USE shop":                 false,
		"":                         false,
	}
	for sql, want := range tests {
		assert.Equal(t, want, returnsRows(sql), sql)
	}
}
