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

const billColumns = `id, trip_id, name, total_amount, bill_type, creator_id, created_at, updated_at`

// CreateBill persists a new bill to the database.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	if err := money.Validate(bill.TotalAmount); err != nil {
		return err
	}
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := s.now()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	query := s.db.Rebind(`
		INSERT INTO bills (id, trip_id, name, total_amount, bill_type, creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query,
		bill.ID,
		bill.TripID,
		bill.Name,
		money.Format(bill.TotalAmount),
		string(bill.Type),
		bill.CreatorID,
		bill.CreatedAt,
		bill.UpdatedAt,
	); err != nil {
		return storageErr("create bill", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *Store) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	bill := &models.Bill{}
	query := s.db.Rebind(`SELECT ` + billColumns + ` FROM bills WHERE id = ?`)
	if err := s.db.GetContext(ctx, bill, query, id); err != nil {
		return nil, storageErr("get bill", err)
	}
	return bill, nil
}

// ListBills returns the bills of a trip, oldest first.
func (s *Store) ListBills(ctx context.Context, tripID string) ([]*models.Bill, error) {
	bills := []*models.Bill{}
	query := s.db.Rebind(`SELECT ` + billColumns + ` FROM bills WHERE trip_id = ? ORDER BY created_at, id`)
	if err := s.db.SelectContext(ctx, &bills, query, tripID); err != nil {
		return nil, storageErr("list bills", err)
	}
	return bills, nil
}

// UpdateBill updates name, total and type of an existing bill. Switching the
// type drops the rows of the other mode. An itemized bill's total cannot drop
// below the cost of its items.
func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if err := money.Validate(bill.TotalAmount); err != nil {
		return err
	}

	return s.withTx(ctx, "update bill", func(tx *sqlx.Tx) error {
		var current string
		if err := tx.GetContext(ctx, &current, tx.Rebind(`SELECT bill_type FROM bills WHERE id = ?`), bill.ID); err != nil {
			return storageErr("get bill type", err)
		}

		bill.UpdatedAt = s.now()
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE bills SET name = ?, total_amount = ?, bill_type = ?, updated_at = ? WHERE id = ?
		`), bill.Name, money.Format(bill.TotalAmount), string(bill.Type), bill.UpdatedAt, bill.ID)
		if err != nil {
			return storageErr("update bill", err)
		}

		if models.BillType(current) == bill.Type {
			if bill.Type == models.BillTypeItemized {
				return requireWithinTotal(ctx, tx, bill.ID, "", decimal.Zero)
			}
			return nil
		}
		switch bill.Type {
		case models.BillTypeEven:
			// claims cascade with their items
			_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bill_items WHERE bill_id = ?`), bill.ID)
		case models.BillTypeItemized:
			_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bill_participants WHERE bill_id = ?`), bill.ID)
		}
		if err != nil {
			return storageErr("clear previous bill mode", err)
		}
		return nil
	})
}

// DeleteBill deletes a bill. Items, claims and participants go with it.
func (s *Store) DeleteBill(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM bills WHERE id = ?`), id); err != nil {
		return storageErr("delete bill", err)
	}
	return nil
}

// AddParticipant opts a user into an even bill.
func (s *Store) AddParticipant(ctx context.Context, billID, userID string) error {
	return s.withTx(ctx, "add participant", func(tx *sqlx.Tx) error {
		if err := requireBillType(ctx, tx, billID, models.BillTypeEven); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO bill_participants (bill_id, user_id, joined_at) VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`), billID, userID, s.now())
		if err != nil {
			return storageErr("add participant", err)
		}
		return nil
	})
}

// RemoveParticipant opts a user out of an even bill.
func (s *Store) RemoveParticipant(ctx context.Context, billID, userID string) error {
	query := s.db.Rebind(`DELETE FROM bill_participants WHERE bill_id = ? AND user_id = ?`)
	if _, err := s.db.ExecContext(ctx, query, billID, userID); err != nil {
		return storageErr("remove participant", err)
	}
	return nil
}

// ListParticipants returns the participants of an even bill in join order.
func (s *Store) ListParticipants(ctx context.Context, billID string) ([]*models.User, error) {
	users := []*models.User{}
	query := s.db.Rebind(`
		SELECT ` + prefixColumns("u", userColumns) + `
		FROM bill_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.bill_id = ?
		ORDER BY p.joined_at, u.id
	`)
	if err := s.db.SelectContext(ctx, &users, query, billID); err != nil {
		return nil, storageErr("list participants", err)
	}
	return users, nil
}

// requireBillType returns ErrNotFound for a missing bill and ErrInvalidInput
// when the bill is not of type want.
func requireBillType(ctx context.Context, tx *sqlx.Tx, billID string, want models.BillType) error {
	var got string
	if err := tx.GetContext(ctx, &got, tx.Rebind(`SELECT bill_type FROM bills WHERE id = ?`), billID); err != nil {
		return storageErr("get bill type", err)
	}
	if models.BillType(got) != want {
		return fmt.Errorf("%w: bill %s is %s, not %s", models.ErrInvalidInput, billID, got, want)
	}
	return nil
}
