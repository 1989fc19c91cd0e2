package postgresdb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// WhereClause joins predicates with AND. It returns an empty string when
// there are no predicates.
func WhereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// AddOrderByClause adds ORDER BY clause to the query buffer. pkField is used as
// a tie breaker so pages are stable.
func AddOrderByClause(buf *bytes.Buffer, orderField, pkField, direction string) error {
	quotedOrderField, err := QuoteIdentifier(orderField)
	if err != nil {
		return fmt.Errorf("invalid order field name: %w", err)
	}
	quotedPKField, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}

	if direction != ASC && direction != DESC {
		return fmt.Errorf("invalid direction: %s", direction)
	}

	fmt.Fprintf(buf, " ORDER BY %s %s", quotedOrderField, direction)

	if orderField != pkField {
		fmt.Fprintf(buf, ", %s %s", quotedPKField, direction)
	}

	return nil
}

// AddLimitOffsetClause adds LIMIT and OFFSET for page based pagination.
func AddLimitOffsetClause(buf *bytes.Buffer, data pgx.NamedArgs, limit, offset int) {
	buf.WriteString(" LIMIT @limit OFFSET @offset")
	data["limit"] = limit
	data["offset"] = offset
}

// AliasedOrderField creates an aliased field name for queries with table aliases
func AliasedOrderField(field string, alias string) string {
	return fmt.Sprintf("%s.%s", alias, field)
}

// EscapeLike escapes the LIKE wildcards in s and wraps it for a contains match.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
