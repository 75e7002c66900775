package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/xela07ax/complitic/internal/domain"
)

// GetDashboardStats собирает аналитику по сохраненным документам.
// Запросы тяжелые, поэтому сервис кэширует результат в Redis.
func (r *Repo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	d := &domain.DashboardStats{
		ByTemplate:     make(map[string]int64),
		HourlyActivity: make([]domain.ActivityPoint, 0, 24),
		GeneratedAt:    time.Now().UTC(),
	}

	// 1. Общие счетчики
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours'),
			COUNT(DISTINCT user_id) FILTER (WHERE created_at > NOW() - INTERVAL '30 days')
		FROM documents`).Scan(&d.TotalDocuments, &d.DocumentsLast24, &d.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("postgres: dashboard totals: %w", err)
	}

	// 2. Разбивка по шаблонам
	rows, err := r.pool.Query(ctx, `SELECT template_slug, COUNT(*) FROM documents GROUP BY template_slug`)
	if err != nil {
		return nil, fmt.Errorf("postgres: dashboard by template: %w", err)
	}
	for rows.Next() {
		var (
			slug  string
			count int64
		)
		if err := rows.Scan(&slug, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres: scan template count: %w", err)
		}
		d.ByTemplate[slug] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}

	// 3. Почасовая активность за последние сутки
	rows, err = r.pool.Query(ctx, `
		SELECT to_char(date_trunc('hour', created_at), 'YYYY-MM-DD"T"HH24:00'), COUNT(*)
		FROM documents
		WHERE created_at > NOW() - INTERVAL '24 hours'
		GROUP BY 1
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("postgres: dashboard hourly activity: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.ActivityPoint
		if err := rows.Scan(&p.Hour, &p.Count); err != nil {
			return nil, fmt.Errorf("postgres: scan activity point: %w", err)
		}
		d.HourlyActivity = append(d.HourlyActivity, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows iteration error: %w", err)
	}

	return d, nil
}
