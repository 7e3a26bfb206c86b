// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package utils

import (
	"encoding/json"
	"fmt"
	"sort"

	dbi "github.com/socialfeed/api/internal/database/interfaces"
)

// Matches reports whether doc satisfies every equality condition.
func Matches(doc dbi.Document, conditions []dbi.Field) bool {
	for _, c := range conditions {
		value, present := doc[c.Name]
		if c.Value == nil {
			if present && value != nil {
				return false
			}
			continue
		}
		if !present || compareValues(value, c.Value) != 0 {
			return false
		}
	}
	return true
}

// ApplyQuery filters, sorts and limits docs in memory with the same semantics the
// stores use for indexed queries. Ties on the order field fall back to the id in
// the same direction.
func ApplyQuery(docs []dbi.Document, q dbi.Query) []dbi.Document {
	out := make([]dbi.Document, 0, len(docs))
	for _, doc := range docs {
		if Matches(doc, q.Conditions) {
			out = append(out, doc)
		}
	}

	if q.OrderBy != "" {
		SortDocuments(out, q.OrderBy, q.Direction)
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// SortDocuments orders docs in place by field, then by id.
func SortDocuments(docs []dbi.Document, field string, dir dbi.Direction) {
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i][field], docs[j][field])
		if c == 0 {
			c = compareValues(docs[i]["id"], docs[j]["id"])
		}
		if dir == dbi.Descending {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders nil first, numbers numerically and everything else by its
// string form.
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// ToInt64 converts the numeric representations produced by the stores.
func ToInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}
