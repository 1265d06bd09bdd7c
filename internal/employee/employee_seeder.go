package employee

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func seedEmployees() []Employee {
	return []Employee{
		{LastName: "Washington", FirstName: "George"},
		{LastName: "Adams", FirstName: "John"},
	}
}

// Seed inserts the starter employees when the store is empty and returns how
// many were written. The data is trusted and skips validation. Seed must run
// before the HTTP server accepts traffic; the empty check is not atomic.
func Seed(ctx context.Context, repo Repository, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed employees: count: %w", err)
	}
	if n > 0 {
		logger.Debug("seed employees skipped", zap.Int64("existing", n))
		return 0, nil
	}

	inserted := 0
	for _, e := range seedEmployees() {
		empl := e
		if err := repo.Insert(ctx, &empl); err != nil {
			return inserted, fmt.Errorf("seed employees: insert %s %s: %w", empl.FirstName, empl.LastName, err)
		}
		inserted++
	}
	logger.Info("seed employees inserted", zap.Int("count", inserted))
	return inserted, nil
}
