package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mindstormbook/bookstore-backend/internal/order"
)

// PostgresIntentStore persists checkout intents in the checkout_intents
// table so a restart between initiation and completion loses nothing.
type PostgresIntentStore struct {
	db *sql.DB
}

func NewPostgresIntentStore(db *sql.DB) *PostgresIntentStore {
	return &PostgresIntentStore{db: db}
}

func (s *PostgresIntentStore) Put(ctx context.Context, intent CheckoutIntent, ttl time.Duration) error {
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}
	intent.ExpiresAt = intent.CreatedAt.Add(ttl)

	shippingJSON, err := json.Marshal(intent.ShippingInfo)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(intent.Items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO checkout_intents
        ("sessionID", "userID", "shippingInfo", "orderItems", "itemsPrice", "shippingPrice", "totalPrice", "orderType", "createdAt", "expiresAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT ("sessionID") DO NOTHING`,
		intent.SessionID, intent.UserID, shippingJSON, itemsJSON,
		intent.ItemsPrice, intent.ShippingPrice, intent.TotalPrice, string(intent.OrderType),
		intent.CreatedAt.Format(time.RFC3339), intent.ExpiresAt.Format(time.RFC3339))
	return err
}

func (s *PostgresIntentStore) Get(ctx context.Context, sessionID string) (CheckoutIntent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT "sessionID", "userID", "shippingInfo", "orderItems", "itemsPrice", "shippingPrice", "totalPrice", "orderType", "createdAt", "expiresAt"
        FROM checkout_intents WHERE "sessionID" = $1`, sessionID)

	var intent CheckoutIntent
	var shippingJSON, itemsJSON []byte
	var orderType, createdAt, expiresAt string
	err := row.Scan(&intent.SessionID, &intent.UserID, &shippingJSON, &itemsJSON,
		&intent.ItemsPrice, &intent.ShippingPrice, &intent.TotalPrice, &orderType, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return CheckoutIntent{}, ErrIntentNotFound
	}
	if err != nil {
		return CheckoutIntent{}, err
	}

	if err := json.Unmarshal(shippingJSON, &intent.ShippingInfo); err != nil {
		return CheckoutIntent{}, err
	}
	if err := json.Unmarshal(itemsJSON, &intent.Items); err != nil {
		return CheckoutIntent{}, err
	}
	intent.OrderType = order.ItemType(orderType)
	intent.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	intent.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return intent, nil
}

func (s *PostgresIntentStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkout_intents WHERE "sessionID" = $1`, sessionID)
	return err
}

// RFC3339 UTC strings order chronologically, so the text comparison below is
// sound as long as every writer goes through Put.
func (s *PostgresIntentStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkout_intents WHERE "expiresAt" < $1`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
