package domain

import "time"

// DashboardStats — сводка для админской аналитики.
type DashboardStats struct {
	TotalDocuments  int64            `json:"total_documents"`
	DocumentsLast24 int64            `json:"documents_last_24h"`
	ActiveUsers     int64            `json:"active_users"` // Пользователи, сохранившие документ за 30 дней
	ByTemplate      map[string]int64 `json:"by_template"`
	HourlyActivity  []ActivityPoint  `json:"hourly_activity"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

type ActivityPoint struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}
