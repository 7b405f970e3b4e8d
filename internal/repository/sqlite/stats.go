package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/repository"
)

// compile-time check that *DB implements repository.StatsRepository
var _ repository.StatsRepository = (*DB)(nil)

// GlobalTotals counts entities across all users for the metrics endpoint.
// The overdue bucket compares due_date strings against today's 'YYYY-MM-DD';
// both sort lexicographically in calendar order.
func (db *DB) GlobalTotals(ctx context.Context, today model.Date) (repository.Totals, error) {
	var t repository.Totals

	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM binders),
			(SELECT COUNT(*) FROM tasks),
			(SELECT COUNT(*) FROM tasks WHERE status = 'open'),
			(SELECT COUNT(*) FROM tasks WHERE status = 'done'),
			(SELECT COUNT(*) FROM tasks
				WHERE status = 'open' AND due_date IS NOT NULL AND due_date < ?),
			(SELECT COUNT(*) FROM documents),
			(SELECT COALESCE(SUM(size), 0) FROM documents)
	`, today.String()).Scan(
		&t.Users,
		&t.Binders,
		&t.Tasks,
		&t.TasksOpen,
		&t.TasksDone,
		&t.TasksOverdue,
		&t.Documents,
		&t.StorageBytes,
	)
	if err != nil {
		return repository.Totals{}, fmt.Errorf("sqlite: counting totals: %w", err)
	}
	return t, nil
}
