// Package mutation builds the INSERT, UPDATE and DELETE statement for a
// single-row edit session.
package mutation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/dbedit/internal/schema"
)

// Action is what an edit session does with its row
type Action string

const (
	ActionNew    Action = "new"
	ActionEdit   Action = "edit"
	ActionClone  Action = "clone"
	ActionDelete Action = "delete"
)

var (
	ErrNoPrimaryKey  = errors.New("mutation: table has no primary key")
	ErrUnknownAction = errors.New("mutation: unknown action")
)

// ParseAction parses an action name
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(s)); a {
	case ActionNew, ActionEdit, ActionClone, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Inserts reports whether the action writes a new row
func (a Action) Inserts() bool {
	return a == ActionNew || a == ActionClone
}

// Intent is one edit session: the row as it was loaded and the row as the
// user left it. Initial is never modified after the session opens.
type Intent struct {
	Action  Action
	Table   string
	Initial schema.Row
	Edited  schema.Row
}

// NewIntent opens a session on a copy of initial
func NewIntent(action Action, table string, initial schema.Row) *Intent {
	return &Intent{
		Action:  action,
		Table:   table,
		Initial: initial.Clone(),
		Edited:  initial.Clone(),
	}
}

// Set records an edited value
func (in *Intent) Set(column string, v schema.Value) {
	if in.Edited == nil {
		in.Edited = schema.Row{}
	}
	in.Edited[column] = v
}

// Changed reports whether any edited value differs from the initial row
func (in *Intent) Changed() bool {
	for name, v := range in.Edited {
		if init, ok := in.Initial[name]; !ok || !init.Equal(v) {
			return true
		}
	}
	return false
}

// Clone opens a clone session seeded with this session's edited values
func (in *Intent) Clone() *Intent {
	return NewIntent(ActionClone, in.Table, in.Edited)
}

// Diff returns the names of the edited columns whose value differs from
// initial, in table column order.
func Diff(t *schema.Table, initial, edited schema.Row) []string {
	var changed []string
	for _, col := range t.Columns {
		v, ok := edited[col.Name]
		if !ok {
			continue
		}
		if init, had := initial[col.Name]; had && init.Equal(v) {
			continue
		}
		changed = append(changed, col.Name)
	}
	return changed
}
