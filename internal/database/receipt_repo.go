package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grocertrack/grocertrack/internal/models"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// CreateReceipt inserts a receipt and its line items in one transaction.
func (db *DB) CreateReceipt(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem) (*models.ReceiptWithItems, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO receipts (user_id, store_name, store_address, receipt_date, subtotal, tax, tip, total,
			ocr_method, ocr_confidence, image_bucket, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, receipt.UserID, receipt.StoreName, receipt.StoreAddress, receipt.ReceiptDate,
		receipt.Subtotal, receipt.Tax, receipt.Tip, receipt.Total,
		receipt.OCRMethod, receipt.OCRConfidence, receipt.ImageBucket, receipt.ImageKey,
	).Scan(&receipt.ID, &receipt.CreatedAt, &receipt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert receipt: %w", err)
	}

	saved, err := insertItems(ctx, tx, receipt.ID, items)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit receipt: %w", err)
	}

	return &models.ReceiptWithItems{Receipt: *receipt, Items: saved}, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, receiptID int, items []models.ReceiptItem) ([]models.ReceiptItem, error) {
	saved := make([]models.ReceiptItem, 0, len(items))
	for _, item := range items {
		item.ReceiptID = receiptID
		err := tx.QueryRow(ctx, `
			INSERT INTO receipt_items (receipt_id, name, normalized_name, category, total_price, quantity, price_track, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`, receiptID, item.Name, item.NormalizedName, item.Category, item.TotalPrice, item.Quantity, item.PriceTrack,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert receipt item: %w", err)
		}
		saved = append(saved, item)
	}
	return saved, nil
}

// GetReceipt retrieves a receipt with its items, scoped to the owning user.
func (db *DB) GetReceipt(ctx context.Context, id, userID int) (*models.ReceiptWithItems, error) {
	receipt := &models.Receipt{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, store_name, store_address, receipt_date, subtotal, tax, tip, total,
			ocr_method, ocr_confidence, image_bucket, image_key, created_at, updated_at
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&receipt.ID,
		&receipt.UserID,
		&receipt.StoreName,
		&receipt.StoreAddress,
		&receipt.ReceiptDate,
		&receipt.Subtotal,
		&receipt.Tax,
		&receipt.Tip,
		&receipt.Total,
		&receipt.OCRMethod,
		&receipt.OCRConfidence,
		&receipt.ImageBucket,
		&receipt.ImageKey,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	items, err := db.getReceiptItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ReceiptWithItems{Receipt: *receipt, Items: items}, nil
}

func (db *DB) getReceiptItems(ctx context.Context, receiptID int) ([]models.ReceiptItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, receipt_id, name, normalized_name, category, total_price, quantity, price_track, created_at, updated_at
		FROM receipt_items
		WHERE receipt_id = $1
		ORDER BY id
	`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ReceiptItem{}
	for rows.Next() {
		var item models.ReceiptItem
		err := rows.Scan(
			&item.ID,
			&item.ReceiptID,
			&item.Name,
			&item.NormalizedName,
			&item.Category,
			&item.TotalPrice,
			&item.Quantity,
			&item.PriceTrack,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListReceipts returns a filtered, paginated list of a user's receipts.
func (db *DB) ListReceipts(ctx context.Context, params models.ReceiptListParams) ([]*models.Receipt, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{params.UserID}

	if params.StoreName != nil {
		args = append(args, "%"+*params.StoreName+"%")
		where += fmt.Sprintf(" AND store_name ILIKE $%d", len(args))
	}
	if params.From != nil {
		args = append(args, *params.From)
		where += fmt.Sprintf(" AND receipt_date >= $%d", len(args))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where += fmt.Sprintf(" AND receipt_date <= $%d", len(args))
	}

	var total int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM receipts "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT id, user_id, store_name, store_address, receipt_date, subtotal, tax, tip, total,
			ocr_method, ocr_confidence, image_bucket, image_key, created_at, updated_at
		FROM receipts
		%s
		ORDER BY receipt_date DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt := &models.Receipt{}
		err := rows.Scan(
			&receipt.ID,
			&receipt.UserID,
			&receipt.StoreName,
			&receipt.StoreAddress,
			&receipt.ReceiptDate,
			&receipt.Subtotal,
			&receipt.Tax,
			&receipt.Tip,
			&receipt.Total,
			&receipt.OCRMethod,
			&receipt.OCRConfidence,
			&receipt.ImageBucket,
			&receipt.ImageKey,
			&receipt.CreatedAt,
			&receipt.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, total, rows.Err()
}

// UpdateReceipt updates a receipt's fields and, when items is non-nil,
// replaces its line items. The caller supplies re-derived totals.
func (db *DB) UpdateReceipt(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem) (*models.ReceiptWithItems, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE receipts
		SET store_name = $3, store_address = $4, receipt_date = $5,
		    subtotal = $6, tax = $7, tip = $8, total = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, receipt.ID, receipt.UserID, receipt.StoreName, receipt.StoreAddress, receipt.ReceiptDate,
		receipt.Subtotal, receipt.Tax, receipt.Tip, receipt.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrReceiptNotFound
	}

	var saved []models.ReceiptItem
	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ID); err != nil {
			return nil, fmt.Errorf("failed to clear receipt items: %w", err)
		}
		saved, err = insertItems(ctx, tx, receipt.ID, items)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit receipt update: %w", err)
	}

	if items == nil {
		return db.GetReceipt(ctx, receipt.ID, receipt.UserID)
	}
	return &models.ReceiptWithItems{Receipt: *receipt, Items: saved}, nil
}

// SetItemPriceTrack toggles price tracking on one line item, scoped to the
// owning user through the receipt join.
func (db *DB) SetItemPriceTrack(ctx context.Context, itemID, userID int, track bool) (*models.ReceiptItem, error) {
	item := &models.ReceiptItem{}

	err := db.Pool.QueryRow(ctx, `
		UPDATE receipt_items ri
		SET price_track = $3, updated_at = NOW()
		FROM receipts r
		WHERE ri.id = $1 AND ri.receipt_id = r.id AND r.user_id = $2
		RETURNING ri.id, ri.receipt_id, ri.name, ri.normalized_name, ri.category,
			ri.total_price, ri.quantity, ri.price_track, ri.created_at, ri.updated_at
	`, itemID, userID, track).Scan(
		&item.ID,
		&item.ReceiptID,
		&item.Name,
		&item.NormalizedName,
		&item.Category,
		&item.TotalPrice,
		&item.Quantity,
		&item.PriceTrack,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	return item, nil
}

// DeleteReceipt deletes a receipt and returns its image reference so the
// caller can remove the stored file. Items cascade.
func (db *DB) DeleteReceipt(ctx context.Context, id, userID int) (imageKey *string, err error) {
	err = db.Pool.QueryRow(ctx, `
		DELETE FROM receipts WHERE id = $1 AND user_id = $2
		RETURNING image_key
	`, id, userID).Scan(&imageKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return imageKey, nil
}
