package database

import (
	"context"

	"github.com/grocertrack/grocertrack/internal/models"
)

// GetSpendingSummary aggregates a user's spending per calendar month over
// the last `months` months.
func (db *DB) GetSpendingSummary(ctx context.Context, userID, months int) (*models.SpendingSummary, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT to_char(date_trunc('month', receipt_date), 'YYYY-MM') AS month,
		       COALESCE(SUM(total), 0) AS total,
		       COUNT(*) AS receipt_count
		FROM receipts
		WHERE user_id = $1 AND receipt_date >= date_trunc('month', NOW()) - ($2 - 1) * INTERVAL '1 month'
		GROUP BY 1
		ORDER BY 1 DESC
	`, userID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &models.SpendingSummary{Months: []models.MonthlySpending{}}
	for rows.Next() {
		var m models.MonthlySpending
		if err := rows.Scan(&m.Month, &m.Total, &m.ReceiptCount); err != nil {
			return nil, err
		}
		summary.Months = append(summary.Months, m)
		summary.GrandTotal += m.Total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(summary.Months) > 0 {
		summary.AverageMonthly = summary.GrandTotal / float64(len(summary.Months))
	}
	return summary, nil
}

// GetCategoryBreakdown aggregates item spending per category over the last
// `months` months.
func (db *DB) GetCategoryBreakdown(ctx context.Context, userID, months int) ([]models.CategorySpend, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ri.category,
		       COALESCE(SUM(ri.total_price), 0) AS total,
		       COUNT(*) AS item_count
		FROM receipt_items ri
		JOIN receipts r ON ri.receipt_id = r.id
		WHERE r.user_id = $1 AND r.receipt_date >= date_trunc('month', NOW()) - ($2 - 1) * INTERVAL '1 month'
		GROUP BY ri.category
		ORDER BY total DESC
	`, userID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.CategorySpend{}
	for rows.Next() {
		var c models.CategorySpend
		if err := rows.Scan(&c.Category, &c.Total, &c.ItemCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetTopStores ranks a user's stores by total spend.
func (db *DB) GetTopStores(ctx context.Context, userID, limit int) ([]models.StoreSpend, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT store_name,
		       COALESCE(SUM(total), 0) AS total,
		       COUNT(*) AS receipt_count
		FROM receipts
		WHERE user_id = $1
		GROUP BY store_name
		ORDER BY total DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.StoreSpend{}
	for rows.Next() {
		var s models.StoreSpend
		if err := rows.Scan(&s.StoreName, &s.Total, &s.ReceiptCount); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}
