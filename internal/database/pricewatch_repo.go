package database

import (
	"context"
	"errors"
	"time"

	"github.com/grocertrack/grocertrack/internal/models"
)

var ErrPriceWatchNotFound = errors.New("price watch not found")

// priceWatchTTL is how long a watch stays active without a refreshing
// receipt.
const priceWatchTTL = 30 * 24 * time.Hour

// UpsertPriceWatch creates or refreshes a watch for a tracked item. A newer
// receipt for the same normalized item at the same store updates the last
// seen price and pushes the expiry out.
func (db *DB) UpsertPriceWatch(ctx context.Context, userID int, item models.ReceiptItem, storeName string) (*models.PriceWatch, error) {
	watch := &models.PriceWatch{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO price_watches (user_id, item_name, normalized_name, category, last_price, store_name, active, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, NOW(), NOW())
		ON CONFLICT (user_id, normalized_name, store_name) DO UPDATE
		SET item_name = EXCLUDED.item_name,
		    category = EXCLUDED.category,
		    last_price = EXCLUDED.last_price,
		    active = TRUE,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
		RETURNING id, user_id, item_name, normalized_name, category, last_price, store_name, active, expires_at, created_at, updated_at
	`, userID, item.Name, item.NormalizedName, item.Category, item.TotalPrice, storeName, time.Now().Add(priceWatchTTL)).Scan(
		&watch.ID,
		&watch.UserID,
		&watch.ItemName,
		&watch.NormalizedName,
		&watch.Category,
		&watch.LastPrice,
		&watch.StoreName,
		&watch.Active,
		&watch.ExpiresAt,
		&watch.CreatedAt,
		&watch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return watch, nil
}

// ListPriceWatches returns a user's active, unexpired watches.
func (db *DB) ListPriceWatches(ctx context.Context, userID int) ([]*models.PriceWatch, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, item_name, normalized_name, category, last_price, store_name, active, expires_at, created_at, updated_at
		FROM price_watches
		WHERE user_id = $1 AND active = TRUE AND expires_at > NOW()
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watches []*models.PriceWatch
	for rows.Next() {
		watch := &models.PriceWatch{}
		err := rows.Scan(
			&watch.ID,
			&watch.UserID,
			&watch.ItemName,
			&watch.NormalizedName,
			&watch.Category,
			&watch.LastPrice,
			&watch.StoreName,
			&watch.Active,
			&watch.ExpiresAt,
			&watch.CreatedAt,
			&watch.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		watches = append(watches, watch)
	}

	return watches, rows.Err()
}

// DeactivatePriceWatch turns a watch off without deleting its history.
func (db *DB) DeactivatePriceWatch(ctx context.Context, id, userID int) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE price_watches SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPriceWatchNotFound
	}
	return nil
}

// DeactivateExpiredPriceWatches sweeps watches past their expiry.
func (db *DB) DeactivateExpiredPriceWatches(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE price_watches SET active = FALSE, updated_at = NOW()
		WHERE active = TRUE AND expires_at <= NOW()
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
