package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
)

const itemColumns = `id, bill_id, name, unit_price, quantity, created_at`

func validateItem(item *models.BillItem) error {
	if err := money.Validate(item.UnitPrice); err != nil {
		return err
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", models.ErrInvalidInput, item.Quantity)
	}
	return nil
}

// requireWithinTotal fails with ErrInvalidInput when the items of billID,
// with the item excludeID replaced by one costing extra, cost more than the
// bill total.
func requireWithinTotal(ctx context.Context, tx *sqlx.Tx, billID, excludeID string, extra decimal.Decimal) error {
	var total decimal.Decimal
	if err := tx.GetContext(ctx, &total, tx.Rebind(`SELECT total_amount FROM bills WHERE id = ?`), billID); err != nil {
		return storageErr("get bill total", err)
	}

	items := []*models.BillItem{}
	query := tx.Rebind(`SELECT ` + itemColumns + ` FROM bill_items WHERE bill_id = ? AND id <> ?`)
	if err := tx.SelectContext(ctx, &items, query, billID, excludeID); err != nil {
		return storageErr("list items", err)
	}

	cost := extra
	for _, item := range items {
		cost = cost.Add(item.Cost())
	}
	if cost.GreaterThan(total) {
		return fmt.Errorf("%w: items cost %s, more than the bill total %s",
			models.ErrInvalidInput, money.Format(cost), money.Format(total))
	}
	return nil
}

// CreateItem adds a line item to an itemized bill.
func (s *Store) CreateItem(ctx context.Context, item *models.BillItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	return s.withTx(ctx, "create item", func(tx *sqlx.Tx) error {
		if err := requireBillType(ctx, tx, item.BillID, models.BillTypeItemized); err != nil {
			return err
		}
		if err := requireWithinTotal(ctx, tx, item.BillID, item.ID, item.Cost()); err != nil {
			return err
		}

		item.CreatedAt = s.now()
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO bill_items (id, bill_id, name, unit_price, quantity, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), item.ID, item.BillID, item.Name, money.Format(item.UnitPrice), item.Quantity, item.CreatedAt)
		if err != nil {
			return storageErr("create item", err)
		}
		return nil
	})
}

// GetItem retrieves a line item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*models.BillItem, error) {
	item := &models.BillItem{}
	query := s.db.Rebind(`SELECT ` + itemColumns + ` FROM bill_items WHERE id = ?`)
	if err := s.db.GetContext(ctx, item, query, id); err != nil {
		return nil, storageErr("get item", err)
	}
	return item, nil
}

// ListItems returns the items of a bill, oldest first.
func (s *Store) ListItems(ctx context.Context, billID string) ([]*models.BillItem, error) {
	items := []*models.BillItem{}
	query := s.db.Rebind(`SELECT ` + itemColumns + ` FROM bill_items WHERE bill_id = ? ORDER BY created_at, id`)
	if err := s.db.SelectContext(ctx, &items, query, billID); err != nil {
		return nil, storageErr("list items", err)
	}
	return items, nil
}

// UpdateItem updates name, unit price and quantity of an item.
func (s *Store) UpdateItem(ctx context.Context, item *models.BillItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	return s.withTx(ctx, "update item", func(tx *sqlx.Tx) error {
		var billID string
		if err := tx.GetContext(ctx, &billID, tx.Rebind(`SELECT bill_id FROM bill_items WHERE id = ?`), item.ID); err != nil {
			return storageErr("get item bill", err)
		}
		if err := requireWithinTotal(ctx, tx, billID, item.ID, item.Cost()); err != nil {
			return err
		}

		query := tx.Rebind(`UPDATE bill_items SET name = ?, unit_price = ?, quantity = ? WHERE id = ?`)
		res, err := tx.ExecContext(ctx, query, item.Name, money.Format(item.UnitPrice), item.Quantity, item.ID)
		if err != nil {
			return storageErr("update item", err)
		}
		return requireAffected(res, "update item")
	})
}

// DeleteItem deletes an item and its claims.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bill_items WHERE id = ?`), id); err != nil {
		return storageErr("delete item", err)
	}
	return nil
}

// Claim records that userID takes a share of an item.
func (s *Store) Claim(ctx context.Context, itemID, userID string) error {
	return s.withTx(ctx, "claim item", func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM bill_items WHERE id = ?`), itemID); err != nil {
			return storageErr("check item", err)
		}
		if n == 0 {
			return fmt.Errorf("claim item %s: %w", itemID, models.ErrNotFound)
		}

		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO item_claims (item_id, user_id, claimed_at) VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`), itemID, userID, s.now())
		if err != nil {
			return storageErr("claim item", err)
		}
		return nil
	})
}

// Unclaim removes userID's claim on an item.
func (s *Store) Unclaim(ctx context.Context, itemID, userID string) error {
	query := s.db.Rebind(`DELETE FROM item_claims WHERE item_id = ? AND user_id = ?`)
	if _, err := s.db.ExecContext(ctx, query, itemID, userID); err != nil {
		return storageErr("unclaim item", err)
	}
	return nil
}

// ClaimantsOf returns the users who claimed an item, in claim order.
func (s *Store) ClaimantsOf(ctx context.Context, itemID string) ([]*models.User, error) {
	users := []*models.User{}
	query := s.db.Rebind(`
		SELECT ` + prefixColumns("u", userColumns) + `
		FROM item_claims c
		JOIN users u ON u.id = c.user_id
		WHERE c.item_id = ?
		ORDER BY c.claimed_at, u.id
	`)
	if err := s.db.SelectContext(ctx, &users, query, itemID); err != nil {
		return nil, storageErr("list claimants", err)
	}
	return users, nil
}

type claimRow struct {
	ItemID string `db:"item_id"`
	UserID string `db:"user_id"`
}

// ClaimsForBill returns claimant IDs per item for every claimed item of a bill.
func (s *Store) ClaimsForBill(ctx context.Context, billID string) (map[string][]string, error) {
	var rows []claimRow
	query := s.db.Rebind(`
		SELECT c.item_id, c.user_id
		FROM item_claims c
		JOIN bill_items i ON i.id = c.item_id
		WHERE i.bill_id = ?
		ORDER BY c.claimed_at, c.user_id
	`)
	if err := s.db.SelectContext(ctx, &rows, query, billID); err != nil {
		return nil, storageErr("list claims", err)
	}

	claims := make(map[string][]string)
	for _, r := range rows {
		claims[r.ItemID] = append(claims[r.ItemID], r.UserID)
	}
	return claims, nil
}

// ItemsClaimedBy returns the items of a bill that userID claimed.
func (s *Store) ItemsClaimedBy(ctx context.Context, billID, userID string) ([]*models.BillItem, error) {
	items := []*models.BillItem{}
	query := s.db.Rebind(`
		SELECT ` + prefixColumns("i", itemColumns) + `
		FROM bill_items i
		JOIN item_claims c ON c.item_id = i.id
		WHERE i.bill_id = ? AND c.user_id = ?
		ORDER BY i.created_at, i.id
	`)
	if err := s.db.SelectContext(ctx, &items, query, billID, userID); err != nil {
		return nil, storageErr("list claimed items", err)
	}
	return items, nil
}
