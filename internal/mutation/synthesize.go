package mutation

import (
	"fmt"
	"strings"

	"github.com/tordrt/dbedit/internal/dialect"
	"github.com/tordrt/dbedit/internal/reconcile"
	"github.com/tordrt/dbedit/internal/schema"
)

// Synthesize returns the statement carrying out the intent on t.
//
// Inserts (new, clone) write every edited column except primary-key columns
// left empty, so the database assigns the key. Edits write only the columns
// that changed. Edits and deletes address the row by the primary-key values
// it had when the session opened.
func Synthesize(in *Intent, t *schema.Table, d *dialect.Dialect) (string, error) {
	if in.Table != "" && in.Table != t.Name {
		return "", fmt.Errorf("intent for table %s used with schema of %s", in.Table, t.Name)
	}
	for name := range in.Edited {
		if !t.HasColumn(name) {
			return "", fmt.Errorf("%w: %s.%s", schema.ErrColumnNotFound, t.Name, name)
		}
	}

	switch in.Action {
	case ActionNew, ActionClone:
		return insertSQL(in, t, d)
	case ActionEdit:
		return updateSQL(in, t, d)
	case ActionDelete:
		return deleteSQL(in, t, d)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, in.Action)
	}
}

func insertSQL(in *Intent, t *schema.Table, d *dialect.Dialect) (string, error) {
	var cols, vals []string
	for _, col := range t.Columns {
		v, ok := in.Edited[col.Name]
		if !ok {
			continue
		}
		if col.IsPrimaryKey && v.IsZero() {
			continue
		}
		cols = append(cols, d.QuoteIdent(col.Name))
		vals = append(vals, d.Literal(col, v))
	}

	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s %s", d.QuoteIdent(t.Name), d.DefaultValues), nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(t.Name),
		strings.Join(cols, ", "),
		strings.Join(vals, ", "),
	), nil
}

func updateSQL(in *Intent, t *schema.Table, d *dialect.Dialect) (string, error) {
	where, err := keyCondition(in, t, d)
	if err != nil {
		return "", err
	}

	changed := Diff(t, in.Initial, in.Edited)
	sets := make([]string, 0, len(changed))
	for _, name := range changed {
		col, err := t.Column(name)
		if err != nil {
			return "", err
		}
		sets = append(sets, d.QuoteIdent(name)+" = "+d.Literal(col, in.Edited[name]))
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", d.QuoteIdent(t.Name), strings.Join(sets, ", "), where), nil
}

func deleteSQL(in *Intent, t *schema.Table, d *dialect.Dialect) (string, error) {
	where, err := keyCondition(in, t, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", d.QuoteIdent(t.Name), where), nil
}

func keyCondition(in *Intent, t *schema.Table, d *dialect.Dialect) (string, error) {
	if len(t.PrimaryKey) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, t.Name)
	}
	return reconcile.KeyCondition(d, t, in.Initial)
}
