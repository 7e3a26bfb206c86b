// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

// Direction is the sort direction of an ordered query.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Field is a single equality condition. A nil Value matches documents where the
// field is absent or null.
type Field struct {
	Name  string
	Value interface{}
}

// Query defines a structured, database-agnostic query.
type Query struct {
	Conditions []Field
	OrderBy    string
	Direction  Direction
	Limit      int
}

// Where appends an equality condition.
func (q Query) Where(name string, value interface{}) Query {
	q.Conditions = append(append([]Field(nil), q.Conditions...), Field{Name: name, Value: value})
	return q
}

// Order sets the ordering field and direction.
func (q Query) Order(field string, dir Direction) Query {
	q.OrderBy = field
	q.Direction = dir
	return q
}

// NeedsCompositeIndex reports whether the query filters and orders on different
// fields, which document databases serve only from a prepared composite index.
func (q Query) NeedsCompositeIndex() bool {
	if q.OrderBy == "" || len(q.Conditions) == 0 {
		return false
	}
	for _, c := range q.Conditions {
		if c.Name != q.OrderBy {
			return true
		}
	}
	return false
}
