package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/dbedit"
	"github.com/tordrt/dbedit/internal/formatter"
	"github.com/tordrt/dbedit/internal/mutation"
)

func (a *app) newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, _ formatter.Formatter) error {
				tables, err := s.Tables(ctx)
				if err != nil {
					return err
				}
				for _, name := range tables {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

func (a *app) newColumnsCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "columns [table...]",
		Short: "Show the column form of tables (all tables when none are named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				sch, err := s.Schema(ctx, args)
				if err != nil {
					return err
				}

				if outputDir != "" {
					if err := formatter.NewMultiFileFormatter(outputDir, a.cfg.Output).Format(sch); err != nil {
						return fmt.Errorf("failed to format output: %w", err)
					}
					return nil
				}

				for i := range sch.Tables {
					if i > 0 {
						_, _ = fmt.Fprintln(cmd.OutOrStdout())
					}
					if err := f.FormatTable(&sch.Tables[i]); err != nil {
						return fmt.Errorf("failed to format output: %w", err)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "write one file per table plus an overview into this directory")
	return cmd
}

func (a *app) newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a statement and report whether its rows can be edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				res, err := s.Run(ctx, args[0])
				if err != nil {
					return err
				}
				return printQueryResult(cmd, f, res)
			})
		},
	}
}

func (a *app) newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <table>",
		Short: "Show the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				res, err := s.Browse(ctx, args[0], a.cfg.Limit)
				if err != nil {
					return err
				}
				return printQueryResult(cmd, f, res)
			})
		},
	}
}

func (a *app) newDefaultRowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default-row <table>",
		Short: "Show the values a new row of a table starts with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				in, err := s.NewRow(ctx, args[0])
				if err != nil {
					return err
				}
				t, err := s.Table(ctx, in.Table)
				if err != nil {
					return err
				}
				return f.FormatRow(t, in.Edited)
			})
		},
	}
}

func (a *app) newInsertCmd() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Insert one row; columns not set keep their default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				in, err := s.NewRow(ctx, args[0])
				if err != nil {
					return err
				}
				return submit(ctx, cmd, s, f, in, values)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to write (repeatable; the value null writes NULL)")
	return cmd
}

func (a *app) newKeyedCmd(use, short string, action mutation.Action) *cobra.Command {
	var keys, sets []string

	cmd := &cobra.Command{
		Use:   use + " <table>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyValues, err := parseAssignments(keys)
			if err != nil {
				return err
			}
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			if action == mutation.ActionDelete && len(values) > 0 {
				return fmt.Errorf("delete does not take --set")
			}

			return a.withSession(cmd, func(ctx context.Context, s *dbedit.Session, f formatter.Formatter) error {
				in, err := s.EditByKey(ctx, args[0], keyMap(keyValues), action)
				if err != nil {
					return err
				}
				return submit(ctx, cmd, s, f, in, values)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "primary-key column=value identifying the row (repeatable)")
	if action != mutation.ActionDelete {
		cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to write (repeatable; the value null writes NULL)")
	}
	return cmd
}

// submit applies the assignments in order and runs the session's statement
func submit(ctx context.Context, cmd *cobra.Command, s *dbedit.Session, f formatter.Formatter, in *mutation.Intent, values []assignment) error {
	for _, v := range values {
		if err := s.SetInput(ctx, in, v.column, v.value); err != nil {
			return err
		}
	}

	sub, err := s.Submit(ctx, in)
	if err != nil {
		return err
	}
	if err := f.FormatStatement(sub.SQL); err != nil {
		return err
	}
	if sub.Executed {
		return f.FormatResult(sub.Result)
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "dry run: statement not executed")
	return nil
}

func printQueryResult(cmd *cobra.Command, f formatter.Formatter, res *dbedit.QueryResult) error {
	if err := f.FormatResult(res.Result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if !res.IsQuery {
		return nil
	}
	if res.Editable {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "rows editable in table %s\n", res.Table.Name)
	} else {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "read-only: %s\n", res.Reason)
	}
	return nil
}

type assignment struct {
	column string
	value  string
}

// parseAssignments splits column=value pairs at the first '='
func parseAssignments(pairs []string) ([]assignment, error) {
	out := make([]assignment, 0, len(pairs))
	for _, pair := range pairs {
		column, value, ok := strings.Cut(pair, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected column=value)", pair)
		}
		out = append(out, assignment{column: column, value: value})
	}
	return out, nil
}

func keyMap(values []assignment) map[string]string {
	m := make(map[string]string, len(values))
	for _, v := range values {
		m[v.column] = v.value
	}
	return m
}
