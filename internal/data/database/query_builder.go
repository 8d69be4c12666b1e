// Package database builds parameterised SELECT statements for the list and
// search queries of the repositories.
package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThanOrEqual ConditionType = ">="
	LessThanOrEqual    ConditionType = "<="
	ILike              ConditionType = "ILIKE"
	// Any binds a single array parameter: field = ANY($n).
	Any ConditionType = "ANY"
	// Custom carries raw SQL whose $1..$n placeholders are renumbered.
	Custom ConditionType = "CUSTOM"
	// Or joins nested conditions with OR inside parentheses.
	Or ConditionType = "OR"

	defaultLimit  = -1
	defaultOffset = -1
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
	group    []Condition
}

// WhereCond builds a field comparison. Use WhereRawCond or WhereOr for the other kinds.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom || condType == Or {
		//nolint:forbidigo // misuse guard; raw and grouped conditions have their own constructors.
		panic("use WhereRawCond or WhereOr for " + string(condType))
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a raw SQL condition. Placeholders $1..$n refer to params in order.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, Value: params}
}

// WhereOr groups conditions with OR. Empty groups are dropped.
func WhereOr(conds ...Condition) Condition {
	return Condition{Type: Or, group: conds}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    []string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy appends an ordering column. direction must be ASC or DESC; anything else is ignored.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		term := sanitizeQualifiedIdentifier(column)
		if dir := strings.ToUpper(direction); dir == "ASC" || dir == "DESC" {
			term += " " + dir
		}
		o.OrderBy = append(o.OrderBy, term)
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery renders SELECT ... FROM ... WHERE ... ORDER BY ... LIMIT ... OFFSET
// with identifiers sanitized and values bound as parameters.
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	if len(options.Columns) == 0 {
		query.WriteString("*")
	} else {
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeQualifiedIdentifier(c)
		}
		query.WriteString(strings.Join(cols, ", "))
	}
	query.WriteString(" FROM ")
	query.WriteString(sanitizeQualifiedIdentifier(options.Table))

	where, args, next := buildConditions(options.Conditions, " AND ", 1)
	if where != "" {
		query.WriteString(" WHERE ")
		query.WriteString(where)
	}

	if len(options.OrderBy) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(options.OrderBy, ", "))
	}
	if options.Limit != defaultLimit {
		fmt.Fprintf(&query, " LIMIT $%d", next)
		args = append(args, options.Limit)
		next++
	}
	if options.Offset != defaultOffset {
		fmt.Fprintf(&query, " OFFSET $%d", next)
		args = append(args, options.Offset)
	}

	return query.String(), args
}

func buildConditions(conds []Condition, sep string, paramCount int) (string, []any, int) {
	parts := make([]string, 0, len(conds))
	var args []any
	for _, cond := range conds {
		sql, condArgs, next := processCondition(cond, paramCount)
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = append(args, condArgs...)
		paramCount = next
	}
	return strings.Join(parts, sep), args, paramCount
}

func processCondition(cond Condition, paramCount int) (string, []any, int) {
	switch cond.Type {
	case Custom:
		return handleCustomCondition(cond, paramCount)
	case Or:
		sql, args, next := buildConditions(cond.group, " OR ", paramCount)
		if sql == "" {
			return "", nil, paramCount
		}
		return "(" + sql + ")", args, next
	case Any:
		if cond.Field == "" {
			return "", nil, paramCount
		}
		return fmt.Sprintf("%s = ANY($%d)", sanitizeQualifiedIdentifier(cond.Field), paramCount),
			[]any{cond.Value}, paramCount + 1
	case Equal, NotEqual, GreaterThanOrEqual, LessThanOrEqual, ILike:
		if cond.Field == "" {
			return "", nil, paramCount
		}
		return fmt.Sprintf("%s %s $%d", sanitizeQualifiedIdentifier(cond.Field), cond.Type, paramCount),
			[]any{cond.Value}, paramCount + 1
	default:
		return "", nil, paramCount
	}
}

// handleCustomCondition renumbers $n placeholders in the raw SQL so they follow
// the parameters already bound. A placeholder used twice binds its value once.
func handleCustomCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.rawQuery == "" {
		return "", nil, paramCount
	}
	params, _ := cond.Value.([]any)

	var args []any
	idxMap := make(map[int]int)
	current := paramCount
	sql := placeholderRe.ReplaceAllStringFunc(cond.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := idxMap[n]; !ok {
			idxMap[n] = current
			args = append(args, params[n-1])
			current++
		}
		return fmt.Sprintf("$%d", idxMap[n])
	})
	return sql, args, current
}
