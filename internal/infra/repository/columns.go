package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// columns resolves API field names (maxGuests, host_id) against a model schema.
// Names the schema does not know are passed through as quoted identifiers and left
// for the database to reject.
type columns struct {
	schema *schema.Schema
}

func (c columns) lookup(name string) (string, *schema.Field) {
	if f := c.schema.LookUpField(name); f != nil && f.DBName != "" {
		return f.DBName, f
	}
	return name, nil
}

func (c columns) column(name string) clause.Column {
	col, _ := c.lookup(name)
	return clause.Column{Name: col}
}

func (c columns) conditions(conds []query.Condition) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(conds))
	for _, cond := range conds {
		e, err := c.condition(cond)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (c columns) condition(cond query.Condition) (clause.Expression, error) {
	name, field := c.lookup(cond.Field)
	col := clause.Column{Name: name}

	if field != nil && field.Serializer != nil {
		return c.containment(cond, col)
	}

	switch cond.Op {
	case query.OpIn:
		raw, ok := cond.Value.([]string)
		if !ok {
			return nil, fmt.Errorf("repository: %s: membership needs []string, got %T", cond.Field, cond.Value)
		}
		values := make([]any, len(raw))
		for i, r := range raw {
			v, err := cast(field, cond.Field, r)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return clause.IN{Column: col, Values: values}, nil
	}

	v, err := castAny(field, cond.Field, cond.Value)
	if err != nil {
		return nil, err
	}
	switch cond.Op {
	case query.OpEq:
		return clause.Eq{Column: col, Value: v}, nil
	case query.OpGte:
		return clause.Gte{Column: col, Value: v}, nil
	case query.OpGt:
		return clause.Gt{Column: col, Value: v}, nil
	case query.OpLte:
		return clause.Lte{Column: col, Value: v}, nil
	case query.OpLt:
		return clause.Lt{Column: col, Value: v}, nil
	}
	return nil, fmt.Errorf("repository: unsupported operator %q", cond.Op)
}

// containment matches jsonb array fields holding the value (or any of the values).
func (c columns) containment(cond query.Condition, col clause.Column) (clause.Expression, error) {
	var values []string
	switch cond.Op {
	case query.OpEq:
		s, ok := cond.Value.(string)
		if !ok {
			return nil, fmt.Errorf("repository: %s: expected string, got %T", cond.Field, cond.Value)
		}
		values = []string{s}
	case query.OpIn:
		values, _ = cond.Value.([]string)
	default:
		return nil, httperr.BadRequest(fmt.Sprintf("Range filters are not supported on %s", cond.Field))
	}

	exprs := make([]clause.Expression, 0, len(values))
	for _, v := range values {
		b, err := json.Marshal([]string{v})
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, clause.Expr{SQL: "? @> ?::jsonb", Vars: []any{col, string(b)}})
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return clause.Or(exprs...), nil
}

func (c columns) orderBy(sorts []query.Sort) []clause.OrderByColumn {
	out := make([]clause.OrderByColumn, 0, len(sorts))
	for _, s := range sorts {
		out = append(out, clause.OrderByColumn{Column: c.column(s.Field), Desc: s.Desc})
	}
	return out
}

// selection returns the columns of a field projection, with the primary key always first.
func (c columns) selection(fields []string) []string {
	out := []string{"id"}
	for _, f := range fields {
		col, _ := c.lookup(f)
		if col != "id" {
			out = append(out, col)
		}
	}
	return out
}

func (c columns) names(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		col, _ := c.lookup(f)
		out = append(out, col)
	}
	return out
}

func castAny(field *schema.Field, name string, v any) (any, error) {
	if s, ok := v.(string); ok {
		return cast(field, name, s)
	}
	return v, nil
}

// cast converts a query-string value to the Go type of the column it filters.
func cast(field *schema.Field, name, raw string) (any, error) {
	if field == nil {
		return raw, nil
	}

	var (
		v   any
		err error
	)
	switch field.DataType {
	case schema.Int, schema.Uint:
		v, err = strconv.ParseInt(raw, 10, 64)
	case schema.Float:
		var f float64
		f, err = strconv.ParseFloat(raw, 64)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			err = strconv.ErrSyntax
		}
		v = f
	case schema.Bool:
		v, err = strconv.ParseBool(raw)
	case schema.Time:
		v, err = parseTime(raw)
	default:
		return raw, nil
	}
	if err != nil {
		return nil, httperr.BadRequest(fmt.Sprintf("Invalid value %q for %s", raw, name))
	}
	return v, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
