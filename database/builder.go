package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building bun queries.
// T is a bun model struct.
type QueryBuilder[T any] struct {
	db bun.IDB

	wheres    []*WhereClause
	orders    []string
	relations []*relation
	limitVal  *int
	offsetVal *int
	forUpdate bool

	timeout time.Duration
	retry   RetryConfig
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

type relation struct {
	name  string
	apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// Query creates a new QueryBuilder instance. Inside a transaction retries
// are disabled; replaying a statement of an aborted tx cannot succeed.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	retry := DefaultRetryConfig()
	if _, inTx := db.(bun.Tx); inTx {
		retry.EnableRetry = false
	}

	return &QueryBuilder[T]{
		db:    db,
		retry: retry,
	}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereIn adds a WHERE IN condition. values must be a slice.
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IN",
		Value:    bun.In(values),
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IS NULL",
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, qualify(column)+" "+string(direction))
	return q
}

// OrderByRaw adds a raw ORDER BY expression such as "last_delivery_at ASC NULLS FIRST"
func (q *QueryBuilder[T]) OrderByRaw(expr string) *QueryBuilder[T] {
	q.orders = append(q.orders, expr)
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Relation preloads a bun relation, optionally customising its query
func (q *QueryBuilder[T]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, &relation{name: name, apply: apply})
	return q
}

// ForUpdate adds FOR UPDATE clause (for row locking)
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// clone copies the builder so Count and a paginated select can share conditions.
func (q *QueryBuilder[T]) clone() *QueryBuilder[T] {
	c := *q
	c.wheres = append([]*WhereClause(nil), q.wheres...)
	c.orders = append([]string(nil), q.orders...)
	c.relations = append([]*relation(nil), q.relations...)
	return &c
}

// qualify prefixes bare column names with the model's table alias so
// conditions stay unambiguous once belongs-to relations add joins.
func qualify(column string) string {
	if strings.ContainsAny(column, ".()? ") {
		return column
	}
	return "?TableAlias." + column
}

func (w *WhereClause) condition() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}
	if w.Operator == "IS NULL" || w.Operator == "IS NOT NULL" {
		return fmt.Sprintf("%s %s", qualify(w.Column), w.Operator), nil
	}
	if w.Operator == "IN" {
		return fmt.Sprintf("%s IN (?)", qualify(w.Column)), []any{w.Value}
	}
	return fmt.Sprintf("%s %s ?", qualify(w.Column), w.Operator), []any{w.Value}
}

func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, where := range q.wheres {
		cond, args := where.condition()
		query = query.Where(cond, args...)
	}

	for _, rel := range q.relations {
		query = query.Relation(rel.name, rel.apply...)
	}

	for _, order := range q.orders {
		query = query.OrderExpr(order)
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}

	return query
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}
