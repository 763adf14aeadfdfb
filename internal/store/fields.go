package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// updateFields builds a dynamic UPDATE over a whitelisted column set, the
// write half of a merge apply. Field keys equal column names throughout the
// codebase; the whitelist keeps that invariant honest at the SQL boundary.
func (s *PostgresStore) updateFields(ctx context.Context, table string, allowed map[string]struct{}, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	// Stable order keeps generated SQL deterministic for logging and tests.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	for _, name := range names {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("unknown %s field %q", table, name)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", name, argIdx))
		args = append(args, fields[name])
		argIdx++
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		table, strings.Join(setClauses, ", "), argIdx)
	args = append(args, id)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s fields: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating %s fields: row %s not found", table, id)
	}
	return nil
}
