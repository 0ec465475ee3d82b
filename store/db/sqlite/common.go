package sqlite

import (
	"fmt"
	"strings"
)

// joinAnd joins where clauses with AND.
func joinAnd(where []string) string {
	return strings.Join(where, " AND ")
}

// limitClause renders a LIMIT clause.
func limitClause(limit int) string {
	return fmt.Sprintf(" LIMIT %d", limit)
}
