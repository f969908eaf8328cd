package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
)

// where turns a domain into a SQL WHERE clause (including the keyword, or
// empty for an empty domain) and its arguments. Field names come from the
// storage.Fields allow-list, values always travel as placeholders.
func where(domain storage.Domain) (string, []any, error) {
	if err := domain.Validate(); err != nil {
		return "", nil, err
	}
	if len(domain) == 0 {
		return "", nil, nil
	}

	var (
		terms []string
		args  []any
	)
	for _, c := range domain {
		switch c.Operator {
		case "in":
			values := c.Value.([]any)
			if len(values) == 0 {
				terms = append(terms, "0")
				continue
			}
			marks := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
			terms = append(terms, fmt.Sprintf("%s IN (%s)", c.Field, marks))
			args = append(args, values...)
		case "like":
			terms = append(terms, c.Field+" LIKE ?")
			args = append(args, "%"+fmt.Sprint(c.Value)+"%")
		case "ilike":
			terms = append(terms, "LOWER("+c.Field+") LIKE LOWER(?)")
			args = append(args, "%"+fmt.Sprint(c.Value)+"%")
		default:
			// false is how unset values are written in a domain.
			if b, ok := c.Value.(bool); ok && !b && c.Field != "active" {
				switch c.Operator {
				case "=":
					terms = append(terms, c.Field+" IS NULL")
					continue
				case "!=":
					terms = append(terms, c.Field+" IS NOT NULL")
					continue
				}
			}
			terms = append(terms, fmt.Sprintf("%s %s ?", c.Field, c.Operator))
			args = append(args, c.Value)
		}
	}
	return " WHERE " + strings.Join(terms, " AND "), args, nil
}

// orderBy renders an order clause, falling back to id ascending.
func orderBy(order string) (string, error) {
	terms, err := storage.ParseOrder(order)
	if err != nil {
		return "", err
	}
	if len(terms) == 0 {
		return " ORDER BY id", nil
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, t.Field+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// value normalises a scanned column: NULL becomes false, the active flag
// becomes a bool, text stays text.
func value(field string, v any) any {
	switch x := v.(type) {
	case nil:
		return false
	case []byte:
		return string(x)
	case int64:
		if field == "active" {
			return x != 0
		}
		return x
	default:
		return x
	}
}

// SearchCount returns the number of students matching domain.
func (s *SQLite) SearchCount(ctx context.Context, domain storage.Domain) (int, error) {
	clause, args, err := where(domain)
	if err != nil {
		return 0, fmt.Errorf("SearchCount: %w", err)
	}

	var n int
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students"+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("SearchCount: scan: %w", err)
	}
	return n, nil
}

// ReadGroup groups the students matching domain by a single field.
// Rows come back ordered by the grouped value; a NULL value is reported
// as false.
func (s *SQLite) ReadGroup(ctx context.Context, domain storage.Domain, fields []string, groupBy []string) ([]storage.Group, error) {
	if len(groupBy) != 1 {
		return nil, fmt.Errorf("ReadGroup: %w: exactly one group-by field is supported, got %d", storage.ErrInvalidQuery, len(groupBy))
	}
	field := groupBy[0]
	if err := storage.CheckFields(append([]string{field}, fields...)); err != nil {
		return nil, fmt.Errorf("ReadGroup: %w", err)
	}

	clause, args, err := where(domain)
	if err != nil {
		return nil, fmt.Errorf("ReadGroup: %w", err)
	}

	query := fmt.Sprintf("SELECT %[1]s, COUNT(*) FROM students%[2]s GROUP BY %[1]s ORDER BY %[1]s", field, clause)
	rows, err := s.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReadGroup: query: %w", err)
	}
	defer rows.Close()

	countKey := s.countKey
	if countKey == "" {
		countKey = storage.CountKey(field)
	}

	groups := make([]storage.Group, 0)
	for rows.Next() {
		var (
			v any
			n int64
		)
		if err := rows.Scan(&v, &n); err != nil {
			return nil, fmt.Errorf("ReadGroup: scan row: %w", err)
		}
		groups = append(groups, storage.Group{
			field:    value(field, v),
			countKey: n,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ReadGroup: rows iteration: %w", err)
	}
	return groups, nil
}

// SearchRead returns the requested fields of the students matching domain.
// The id is always included.
func (s *SQLite) SearchRead(ctx context.Context, domain storage.Domain, fields []string, opts storage.SearchOptions) ([]storage.Record, error) {
	if err := storage.CheckFields(fields); err != nil {
		return nil, fmt.Errorf("SearchRead: %w", err)
	}
	columns := []string{"id"}
	for _, f := range fields {
		if f != "id" {
			columns = append(columns, f)
		}
	}
	if len(fields) == 0 {
		columns = storage.Fields
	}

	clause, args, err := where(domain)
	if err != nil {
		return nil, fmt.Errorf("SearchRead: %w", err)
	}
	order, err := orderBy(opts.Order)
	if err != nil {
		return nil, fmt.Errorf("SearchRead: %w", err)
	}

	query := "SELECT " + strings.Join(columns, ", ") + " FROM students" + clause + order
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1 // sqlite: no limit
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := s.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchRead: query: %w", err)
	}
	defer rows.Close()

	records := make([]storage.Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("SearchRead: scan row: %w", err)
		}

		record := make(storage.Record, len(columns))
		for i, col := range columns {
			record[col] = value(col, values[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchRead: rows iteration: %w", err)
	}
	return records, nil
}
