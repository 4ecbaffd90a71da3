// Package query builds typed filter predicates from list query parameters.
// Each entity exposes a params struct whose fields bind the public query
// parameter names; values are converted through an explicit operator enum
// instead of passing lookup strings into the ORM. Unparsable values are
// dropped silently, so garbage query parameters never fail a request.
package query

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Op enumerates the supported filter operators.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpLt
	OpIn
	OpContains
)

// Filter is a single composable restriction on a list query.
type Filter interface {
	Apply(db *gorm.DB) *gorm.DB
}

type columnFilter struct {
	column string
	op     Op
	value  interface{}
}

func (f columnFilter) Apply(db *gorm.DB) *gorm.DB {
	switch f.op {
	case OpEq:
		return db.Where(f.column+" = ?", f.value)
	case OpGt:
		return db.Where(f.column+" > ?", f.value)
	case OpLt:
		return db.Where(f.column+" < ?", f.value)
	case OpIn:
		return db.Where(f.column+" IN ?", f.value)
	case OpContains:
		return db.Where("LOWER("+f.column+") LIKE ?", "%"+strings.ToLower(f.value.(string))+"%")
	}
	return db
}

// Column builds a filter on a plain column.
func Column(column string, op Op, value interface{}) Filter {
	return columnFilter{column: column, op: op, value: value}
}

type scopeFilter struct {
	fn func(*gorm.DB) *gorm.DB
}

func (f scopeFilter) Apply(db *gorm.DB) *gorm.DB { return f.fn(db) }

// Scope wraps a relation predicate (subquery against a join table) that the
// column operators cannot express.
func Scope(fn func(*gorm.DB) *gorm.DB) Filter {
	return scopeFilter{fn: fn}
}

// Apply ANDs all filters onto the query.
func Apply(db *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		db = f.Apply(db)
	}
	return db
}

// --- lenient value parsers ---

const dateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd value; ok is false for garbage.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseBool accepts the usual form encodings of a checked box.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "":
		return false, false
	case "on", "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// ParseUintList converts string IDs, dropping non-numeric entries.
func ParseUintList(values []string) []uint {
	var out []uint
	for _, v := range values {
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, uint(n))
	}
	return out
}
