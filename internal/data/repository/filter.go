package repository

import (
	"fmt"
	"strings"
)

// queryFilter collects WHERE conditions with positional arguments.
// Conditions reference their argument as $%d (or $%[1]d when used twice).
type queryFilter struct {
	conds []string
	args  []any
}

func (f *queryFilter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, len(f.args)))
}

func (f *queryFilter) raw(cond string) {
	f.conds = append(f.conds, cond)
}

func (f *queryFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page appends LIMIT/OFFSET and returns the clause plus the full argument list.
func (f *queryFilter) page(limit, offset int) (string, []any) {
	n := len(f.args)
	args := append(append([]any{}, f.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
