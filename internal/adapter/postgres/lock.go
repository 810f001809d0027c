package postgres

import (
	"context"
	"strconv"
)

const advisoryXactLockSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

// AdvisoryXactLock takes a transaction-scoped advisory lock on key.
// The lock is released at commit or rollback, so q must be a transaction.
func AdvisoryXactLock(ctx context.Context, q Querier, key string) error {
	if _, err := q.Exec(ctx, advisoryXactLockSQL, key); err != nil {
		return MapError(err, "advisory lock", strconv.Quote(key))
	}
	return nil
}
