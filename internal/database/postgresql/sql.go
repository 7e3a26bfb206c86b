// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postgresql

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// buildSelect renders an equality-filtered, ordered query over the JSONB column.
// jsonb comparison orders numbers numerically and strings lexically, so the
// document values can be ordered without casts.
func buildSelect(table string, q dbi.Query) (string, []interface{}, error) {
	var (
		where []string
		args  []interface{}
	)

	for _, c := range q.Conditions {
		if !identPattern.MatchString(c.Name) {
			return "", nil, fmt.Errorf("%w: %q", dbi.ErrInvalidField, c.Name)
		}
		if c.Value == nil {
			where = append(where, fmt.Sprintf("(data->'%[1]s' IS NULL OR data->'%[1]s' = 'null'::jsonb)", c.Name))
			continue
		}
		encoded, err := json.Marshal(c.Value)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode filter %s: %w", c.Name, err)
		}
		args = append(args, string(encoded))
		where = append(where, fmt.Sprintf("data->'%s' = $%d::jsonb", c.Name, len(args)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT data FROM %s", table)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if q.OrderBy != "" {
		if !identPattern.MatchString(q.OrderBy) {
			return "", nil, fmt.Errorf("%w: %q", dbi.ErrInvalidField, q.OrderBy)
		}
		fmt.Fprintf(&sb, " ORDER BY data->'%s' %s, object_id %s", q.OrderBy, q.Direction, q.Direction)
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), args, nil
}

// buildIncrement renders a single-statement increment that floors at zero.
// Parameters: $1 object_id, $2 delta, $3 last_updated.
func buildIncrement(table, field string) (string, error) {
	if !identPattern.MatchString(field) {
		return "", fmt.Errorf("%w: %q", dbi.ErrInvalidField, field)
	}
	return fmt.Sprintf(`
		UPDATE %[1]s
		SET data = jsonb_set(data, '{%[2]s}', to_jsonb(GREATEST(0, COALESCE((data->>'%[2]s')::bigint, 0) + $2::bigint)), true),
			last_updated = $3
		WHERE object_id = $1
		RETURNING (data->>'%[2]s')::bigint`, table, field), nil
}

// classify maps driver errors onto the storage error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return dbi.ErrDuplicateKey
		case strings.HasPrefix(string(pgErr.Code), "08"),
			strings.HasPrefix(string(pgErr.Code), "57P"),
			pgErr.Code == "53300":
			return fmt.Errorf("%w: %s", dbi.ErrUnavailable, pgErr.Message)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s", dbi.ErrUnavailable, err.Error())
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %s", dbi.ErrUnavailable, err.Error())
	}
	return err
}
