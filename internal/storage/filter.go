package storage

import (
	"fmt"
	"sort"
	"time"
)

// Doc is a single stored document. Field values are limited to strings,
// booleans, numbers, and time.Time; the remote backend normalizes
// driver-specific types into these on read.
type Doc map[string]any

// Op is a comparison operator in a query filter. The set is closed:
// filters are interpreted by evalCond, not by string-keyed dispatch.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Gte
	Lt
	Lte
)

// String returns the operator's query-language spelling.
func (o Op) String() string {
	switch o {
	case Eq:
		return "$eq"
	case Ne:
		return "$ne"
	case Gt:
		return "$gt"
	case Gte:
		return "$gte"
	case Lt:
		return "$lt"
	case Lte:
		return "$lte"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Cond is one comparison against a field value.
type Cond struct {
	Op    Op
	Value any
}

// Filter maps field names to the conditions they must satisfy. A nil or
// empty filter matches every document.
type Filter map[string][]Cond

// Where builds a single-condition filter.
func Where(field string, op Op, value any) Filter {
	return Filter{field: {{Op: op, Value: value}}}
}

// And adds a condition to an existing filter and returns it.
func (f Filter) And(field string, op Op, value any) Filter {
	f[field] = append(f[field], Cond{Op: op, Value: value})
	return f
}

// FindOptions controls ordering and truncation of Find results.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// matches evaluates a filter against a document. Missing fields only
// satisfy Ne conditions.
func (f Filter) matches(d Doc) bool {
	for field, conds := range f {
		val, present := d[field]
		for _, c := range conds {
			if !present {
				if c.Op != Ne {
					return false
				}
				continue
			}
			if !evalCond(val, c) {
				return false
			}
		}
	}
	return true
}

func evalCond(val any, c Cond) bool {
	cmp, comparable := compareValues(val, c.Value)
	switch c.Op {
	case Eq:
		return comparable && cmp == 0
	case Ne:
		return !comparable || cmp != 0
	case Gt:
		return comparable && cmp > 0
	case Gte:
		return comparable && cmp >= 0
	case Lt:
		return comparable && cmp < 0
	case Lte:
		return comparable && cmp <= 0
	}
	return false
}

// compareValues orders two field values. It reports -1/0/1 and whether
// the pair was comparable at all (numbers with numbers, strings with
// strings, times with times, bools with bools).
func compareValues(a, b any) (int, bool) {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		}
		return 0, true
	}

	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		}
		return 0, true
	}

	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		}
		return 1, true
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// sortDocs orders docs in place by the named field, stably. Documents
// missing the field sort as the minimal sentinel: first ascending,
// last descending. Incomparable value pairs keep their relative order.
func sortDocs(docs []Doc, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		vi, iok := docs[i][field]
		vj, jok := docs[j][field]
		if !iok && !jok {
			return false
		}
		if !iok || !jok {
			// missing sorts as the minimal sentinel
			if desc {
				return !jok
			}
			return !iok
		}
		cmp, comparable := compareValues(vi, vj)
		if !comparable {
			return false
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
