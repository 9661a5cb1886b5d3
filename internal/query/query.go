// Package query turns a request's query string into filter, sort and
// projection instructions for the repositories.
//
//	?price[gte]=100&type=Room&sort=-price,title&fields=title,price
//
// Reserved keys (page, sort, limit, fields) never become filters. Every other key is
// passed through to the store as a field name; callers decide which resources expose it.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
)

type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpGt  Op = "gt"
	OpLte Op = "lte"
	OpLt  Op = "lt"
)

const (
	DefaultSortField = "createdAt"
	VersionField     = "version"
	MaxLimit         = 100
)

var (
	reserved   = map[string]bool{"page": true, "sort": true, "limit": true, "fields": true}
	rangeOps   = map[string]Op{"gte": OpGte, "gt": OpGt, "lte": OpLte, "lt": OpLt}
	fieldName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	bracketKey = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)
)

// Condition is a single predicate on a field. Value is a string, or a []string for OpIn.
type Condition struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

type Sort struct {
	Field string
	Desc  bool
}

// Page is only set when the request carried a limit.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type Query struct {
	Conditions []Condition
	Sorts      []Sort
	Fields     []string
	Omit       []string
	Page       *Page
}

// With returns a copy of q whose conditions also include conds.
// Ownership fragments are merged this way so neither side overrides the other.
func (q Query) With(conds ...Condition) Query {
	merged := make([]Condition, 0, len(q.Conditions)+len(conds))
	merged = append(merged, q.Conditions...)
	merged = append(merged, conds...)
	q.Conditions = merged
	return q
}

// Default is the query used when a request carries no query string.
func Default() Query {
	q, _ := Parse(url.Values{})
	return q
}

func Parse(values url.Values) (Query, error) {
	var q Query
	var err error

	if q.Conditions, err = parseFilter(values); err != nil {
		return Query{}, err
	}
	if q.Sorts, err = parseSort(values.Get("sort")); err != nil {
		return Query{}, err
	}
	if q.Fields, q.Omit, err = parseFields(values.Get("fields")); err != nil {
		return Query{}, err
	}
	if q.Page, err = parsePage(values); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseFilter(values url.Values) ([]Condition, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conds []Condition
	for _, key := range keys {
		if reserved[key] {
			continue
		}
		vals := values[key]

		if !strings.ContainsAny(key, "[]") {
			if !fieldName.MatchString(key) {
				return nil, invalidField(key)
			}
			conds = append(conds, equality(key, vals))
			continue
		}

		m := bracketKey.FindStringSubmatch(key)
		if m == nil {
			return nil, httperr.BadRequest(fmt.Sprintf("Unsupported filter %q: only one level of nesting is allowed", key))
		}
		field, opName := m[1], m[2]
		if !fieldName.MatchString(field) {
			return nil, invalidField(field)
		}
		op, ok := rangeOps[opName]
		if !ok {
			return nil, httperr.BadRequest(fmt.Sprintf("Unsupported filter operator %q", opName))
		}
		if len(vals) != 1 {
			return nil, httperr.BadRequest(fmt.Sprintf("Filter %q given more than once", key))
		}
		conds = append(conds, Condition{Field: field, Op: op, Value: vals[0]})
	}
	return conds, nil
}

func equality(field string, vals []string) Condition {
	if len(vals) == 1 {
		return Eq(field, vals[0])
	}
	in := make([]string, len(vals))
	copy(in, vals)
	return Condition{Field: field, Op: OpIn, Value: in}
}

func parseSort(raw string) ([]Sort, error) {
	if strings.TrimSpace(raw) == "" {
		return []Sort{{Field: DefaultSortField, Desc: true}}, nil
	}

	var sorts []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s := Sort{Field: part}
		if strings.HasPrefix(part, "-") {
			s = Sort{Field: part[1:], Desc: true}
		}
		if !fieldName.MatchString(s.Field) {
			return nil, invalidField(s.Field)
		}
		sorts = append(sorts, s)
	}
	if len(sorts) == 0 {
		return []Sort{{Field: DefaultSortField, Desc: true}}, nil
	}
	return sorts, nil
}

func parseFields(raw string) (fields, omit []string, err error) {
	if strings.TrimSpace(raw) == "" {
		return nil, []string{VersionField}, nil
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, exclude := strings.CutPrefix(part, "-")
		if !fieldName.MatchString(name) {
			return nil, nil, invalidField(name)
		}
		if exclude {
			omit = append(omit, name)
		} else {
			fields = append(fields, name)
		}
	}
	if len(fields) > 0 && len(omit) > 0 {
		return nil, nil, httperr.BadRequest("Cannot mix selected and excluded fields")
	}
	if len(fields) == 0 && len(omit) == 0 {
		omit = []string{VersionField}
	}
	return fields, omit, nil
}

func parsePage(values url.Values) (*Page, error) {
	rawLimit := values.Get("limit")
	if rawLimit == "" {
		return nil, nil
	}
	size, err := strconv.Atoi(rawLimit)
	if err != nil || size < 1 || size > MaxLimit {
		return nil, httperr.BadRequest(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}

	number := 1
	if rawPage := values.Get("page"); rawPage != "" {
		number, err = strconv.Atoi(rawPage)
		if err != nil || number < 1 {
			return nil, httperr.BadRequest("page must be a positive integer")
		}
	}
	return &Page{Number: number, Size: size}, nil
}

func invalidField(name string) error {
	return httperr.BadRequest(fmt.Sprintf("Invalid field name %q", name))
}
