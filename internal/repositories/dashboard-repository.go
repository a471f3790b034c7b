package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DailyCounts — число созданных и завершённых нарядов за календарный день.
type DailyCounts struct {
	Day       time.Time
	Created   int
	Completed int
}

type AssigneeCount struct {
	Name  string
	Count int
}

type DashboardRepositoryInterface interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByPriority(ctx context.Context) (map[string]int, error)
	AverageCompletionHours(ctx context.Context) (*float64, error)
	DailyCounts(ctx context.Context, since time.Time) ([]DailyCounts, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
	CountByAssignee(ctx context.Context) ([]AssigneeCount, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, "SELECT status, COUNT(*) FROM workorders GROUP BY status")
}

func (r *DashboardRepository) CountByPriority(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, "SELECT priority, COUNT(*) FROM workorders GROUP BY priority")
}

func (r *DashboardRepository) countGrouped(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// AverageCompletionHours — среднее время от создания до approved_at
// по завершённым нарядам; nil, если завершённых ещё нет.
func (r *DashboardRepository) AverageCompletionHours(ctx context.Context) (*float64, error) {
	query := `SELECT AVG(EXTRACT(EPOCH FROM (approved_at - created_at)) / 3600.0)
		FROM workorders
		WHERE status IN ('Completed', 'Closed') AND approved_at IS NOT NULL`

	var hours *float64
	if err := r.storage.QueryRow(ctx, query).Scan(&hours); err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *DashboardRepository) DailyCounts(ctx context.Context, since time.Time) ([]DailyCounts, error) {
	query := `SELECT d.day,
			COUNT(w.id) FILTER (WHERE w.created_at::date = d.day),
			COUNT(w.id) FILTER (WHERE w.approved_at::date = d.day)
		FROM generate_series($1::date, CURRENT_DATE, '1 day') AS d(day)
		LEFT JOIN workorders w ON w.created_at::date = d.day OR w.approved_at::date = d.day
		GROUP BY d.day
		ORDER BY d.day`

	rows, err := r.storage.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]DailyCounts, 0)
	for rows.Next() {
		var p DailyCounts
		if err := rows.Scan(&p.Day, &p.Created, &p.Completed); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CountOverdue — незакрытые наряды с истёкшим due_date.
func (r *DashboardRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM workorders
		WHERE due_date IS NOT NULL AND due_date::date < $1::date
		AND status NOT IN ('Completed', 'Closed', 'Canceled')`

	var n int
	err := r.storage.QueryRow(ctx, query, now).Scan(&n)
	return n, err
}

func (r *DashboardRepository) CountByAssignee(ctx context.Context) ([]AssigneeCount, error) {
	query := `SELECT assigned_to, COUNT(*) FROM workorders
		WHERE assigned_to IS NOT NULL AND status NOT IN ('Closed', 'Canceled')
		GROUP BY assigned_to
		ORDER BY COUNT(*) DESC`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]AssigneeCount, 0)
	for rows.Next() {
		var c AssigneeCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
