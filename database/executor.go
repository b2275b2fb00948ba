package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pizzeria_server/lib"
	"time"
)

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		data = nil // Reset on retry
		return q.buildSelect(&data).Scan(ctx)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return data, nil
}

// First executes the query and returns the first matching record with automatic retry.
// A missing row is reported as (nil, nil).
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		return q.buildSelect(&data).Limit(1).Scan(ctx)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		var model T
		var err error
		count, err = q.buildSelect(&model).Count(ctx)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	start := time.Now()
	var exists bool

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		var model T
		var err error
		exists, err = q.buildSelect(&model).Exists(ctx)
		return err
	})

	if err != nil {
		return false, fmt.Errorf("failed to execute exists query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return exists, nil
}

// Insert inserts a new record and scans generated defaults back into it
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records with automatic retry
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []*T) error {
	start := time.Now()

	if len(data) == 0 {
		return nil
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to execute bulk insert query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return nil
}

// UpdateColumns writes the given columns of data. Without Where conditions
// the row is matched by primary key.
func (q *QueryBuilder[T]) UpdateColumns(ctx context.Context, data *T, columns ...string) (int, error) {
	start := time.Now()
	var rowsAffected int64

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error {
		query := q.db.NewUpdate().Model(data).Column(columns...)

		if len(q.wheres) == 0 {
			query = query.WherePK()
		}
		for _, where := range q.wheres {
			cond, args := where.condition()
			query = query.Where(cond, args...)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return int(rowsAffected), nil
}
