package mutation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbedit/internal/dialect"
	"github.com/tordrt/dbedit/internal/schema"
)

func labelsTable() *schema.Table {
	null := schema.Null()
	return &schema.Table{
		Name: "labels",
		Columns: []schema.Column{
			{Name: "id", DataType: "int", Key: "PRI", IsPrimaryKey: true},
			{Name: "label", DataType: "varchar", Nullable: true, Default: &null},
		},
		PrimaryKey: []string{"id"},
	}
}

func TestSynthesizeInsertOmitsEmptyKey(t *testing.T) {
	in := NewIntent(ActionNew, "labels", schema.DefaultRow(labelsTable()))
	in.Set("id", schema.Text(""))
	in.Set("label", schema.Text("hello"))

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO `labels` (`label`) VALUES ('hello')", sql)
	assert.NotContains(t, sql, "`id`")
}

func TestSynthesizeUpdateWritesOnlyChanges(t *testing.T) {
	in := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	in.Set("label", schema.Text("b"))

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE `labels` SET `label` = 'b' WHERE `id` = 5", sql)
}

func TestSynthesizeLargeKeysStayExact(t *testing.T) {
	row := schema.Row{"id": schema.Int(9007199254740993), "label": schema.Text("a")}

	edit := NewIntent(ActionEdit, "labels", row)
	edit.Set("label", schema.Text("b"))
	sql, err := Synthesize(edit, labelsTable(), dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `labels` SET `label` = 'b' WHERE `id` = 9007199254740993", sql)

	del := NewIntent(ActionDelete, "labels", row)
	sql, err = Synthesize(del, labelsTable(), dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `labels` WHERE `id` = 9007199254740993", sql)

	// a neighbouring key that rounds to the same float is still a change
	moved := NewIntent(ActionEdit, "labels", row)
	moved.Set("id", schema.Int(9007199254740992))
	assert.Equal(t, []string{"id"}, Diff(labelsTable(), moved.Initial, moved.Edited))
}

func TestSynthesizeUpdateWithoutChanges(t *testing.T) {
	row := schema.Row{"id": schema.Number(5), "label": schema.Text("a")}
	in := NewIntent(ActionEdit, "labels", row)

	assert.False(t, in.Changed())

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `labels` SET  WHERE `id` = 5", sql)
}

func TestSynthesizeEscapesQuotes(t *testing.T) {
	in := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	in.Set("label", schema.Text("O'Brien"))

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)

	assert.Contains(t, sql, `O\'Brien`)
	assert.NotContains(t, strings.ReplaceAll(sql, `\'`, ""), "O'B")
}

func TestSynthesizeUnchangedQuotedValueIsNotDiffed(t *testing.T) {
	in := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("O'Brien")})

	assert.Empty(t, Diff(labelsTable(), in.Initial, in.Edited))
}

func TestSynthesizeKeyChangeUsesOriginalKey(t *testing.T) {
	in := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	in.Set("id", schema.Number(6))

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE `labels` SET `id` = 6 WHERE `id` = 5", sql)
}

func TestSynthesizeDelete(t *testing.T) {
	in := NewIntent(ActionDelete, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	in.Set("id", schema.Number(99))

	sql, err := Synthesize(in, labelsTable(), dialect.MySQL)
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM `labels` WHERE `id` = 5", sql)
}

func TestSynthesizeCloneKeepsExplicitKey(t *testing.T) {
	edit := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	clone := edit.Clone()
	clone.Set("id", schema.Number(42))

	sql, err := Synthesize(clone, labelsTable(), dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `labels` (`id`, `label`) VALUES (42, 'a')", sql)

	clone.Set("id", schema.Number(0))
	sql, err = Synthesize(clone, labelsTable(), dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `labels` (`label`) VALUES ('a')", sql)
}

func TestSynthesizeCompositeKey(t *testing.T) {
	table := &schema.Table{
		Name: "memberships",
		Columns: []schema.Column{
			{Name: "user_id", DataType: "int", IsPrimaryKey: true},
			{Name: "team", DataType: "varchar", IsPrimaryKey: true},
			{Name: "role", DataType: "varchar", Nullable: true},
		},
		PrimaryKey: []string{"user_id", "team"},
	}
	in := NewIntent(ActionEdit, "memberships", schema.Row{
		"user_id": schema.Number(1),
		"team":    schema.Text("core"),
		"role":    schema.Text("dev"),
	})
	in.Set("role", schema.Null())

	sql, err := Synthesize(in, table, dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `memberships` SET `role` = NULL WHERE `user_id` = 1 AND `team` = 'core'", sql)
}

func TestSynthesizeDialects(t *testing.T) {
	in := NewIntent(ActionEdit, "labels", schema.Row{"id": schema.Number(5), "label": schema.Text("a")})
	in.Set("label", schema.Text("it's"))

	pg, err := Synthesize(in, labelsTable(), dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "labels" SET "label" = E'it\'s' WHERE "id" = 5`, pg)

	lite, err := Synthesize(in, labelsTable(), dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "labels" SET "label" = 'it''s' WHERE "id" = 5`, lite)
}

func TestSynthesizeInsertWithOnlyGeneratedKey(t *testing.T) {
	table := &schema.Table{
		Name:       "events",
		Columns:    []schema.Column{{Name: "id", DataType: "int", IsPrimaryKey: true}},
		PrimaryKey: []string{"id"},
	}
	in := NewIntent(ActionNew, "events", schema.DefaultRow(table))

	sql, err := Synthesize(in, table, dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `events` () VALUES ()", sql)

	sql, err = Synthesize(in, table, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "events" DEFAULT VALUES`, sql)
}

func TestSynthesizeErrors(t *testing.T) {
	keyless := &schema.Table{Name: "logs", Columns: []schema.Column{{Name: "msg", DataType: "text"}}}

	tests := []struct {
		name    string
		intent  *Intent
		table   *schema.Table
		wantErr error
	}{
		{
			name:    "edit without primary key",
			intent:  NewIntent(ActionEdit, "logs", schema.Row{"msg": schema.Text("a")}),
			table:   keyless,
			wantErr: ErrNoPrimaryKey,
		},
		{
			name:    "delete without primary key",
			intent:  NewIntent(ActionDelete, "logs", schema.Row{"msg": schema.Text("a")}),
			table:   keyless,
			wantErr: ErrNoPrimaryKey,
		},
		{
			name:    "unknown column",
			intent:  NewIntent(ActionNew, "labels", schema.Row{"nope": schema.Text("a")}),
			table:   labelsTable(),
			wantErr: schema.ErrColumnNotFound,
		},
		{
			name:    "initial row lacks key",
			intent:  NewIntent(ActionEdit, "labels", schema.Row{"label": schema.Text("a")}),
			table:   labelsTable(),
			wantErr: schema.ErrColumnNotFound,
		},
		{
			name:    "unknown action",
			intent:  NewIntent(Action("merge"), "labels", schema.Row{}),
			table:   labelsTable(),
			wantErr: ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.intent, tt.table, dialect.MySQL)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSynthesizeKeylessInsertIsAllowed(t *testing.T) {
	keyless := &schema.Table{Name: "logs", Columns: []schema.Column{{Name: "msg", DataType: "text"}}}
	in := NewIntent(ActionNew, "logs", schema.Row{"msg": schema.Text("hi")})

	sql, err := Synthesize(in, keyless, dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `logs` (`msg`) VALUES ('hi')", sql)
}

func TestSynthesizeTableMismatch(t *testing.T) {
	in := NewIntent(ActionNew, "other", schema.Row{})
	_, err := Synthesize(in, labelsTable(), dialect.MySQL)
	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"new", "EDIT", "clone", "delete"} {
		_, err := ParseAction(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseAction("upsert")
	assert.ErrorIs(t, err, ErrUnknownAction)

	assert.True(t, ActionNew.Inserts())
	assert.True(t, ActionClone.Inserts())
	assert.False(t, ActionEdit.Inserts())
}
