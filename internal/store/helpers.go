package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moviedb-service/pkg/metrics"
)

// observe records the outcome of a store operation.
func observe(entity, op string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrMovieNotFound), errors.Is(err, ErrActorNotFound), errors.Is(err, ErrAssociationNotFound):
		status = "not_found"
	case errors.Is(err, ErrDuplicateMovie), errors.Is(err, ErrDuplicateActor):
		status = "conflict"
	default:
		status = "error"
	}
	metrics.StoreOperations.WithLabelValues(entity, op, status).Inc()
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// maxInParams bounds the ids bound into one "IN (?)" list. SQLite rejects
// statements with more than 32766 variables.
const maxInParams = 500

// chunkIDs splits ids into slices of at most maxInParams.
func chunkIDs(ids []int64) [][]int64 {
	chunks := make([][]int64, 0, (len(ids)+maxInParams-1)/maxInParams)
	for len(ids) > maxInParams {
		chunks = append(chunks, ids[:maxInParams])
		ids = ids[maxInParams:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// execIn runs a statement with a single "IN (?)" list expanded from ids and
// returns the number of affected rows. Long id lists are split across
// several statements in tx.
func execIn(ctx context.Context, tx *sqlx.Tx, query string, ids []int64) (int64, error) {
	var total int64
	for _, chunk := range chunkIDs(ids) {
		q, args, err := sqlx.In(query, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to expand ids: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(q), args...)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// countIn sums a "SELECT COUNT(*) ... IN (?)" query over ids.
func countIn(ctx context.Context, tx *sqlx.Tx, query string, ids []int64) (int, error) {
	var total int
	for _, chunk := range chunkIDs(ids) {
		q, args, err := sqlx.In(query, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to expand ids: %w", err)
		}
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(q), args...); err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func exists(ctx context.Context, tx *sqlx.Tx, query string, id int64) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(query), id); err != nil {
		return false, err
	}
	return n > 0, nil
}
