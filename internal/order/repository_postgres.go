package order

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `"orderID", "userID", "userSnapshot", "shippingInfo", "orderItems", "itemsPrice", "shippingPrice", "totalPrice", "paymentMethod", "transactionId", "paymentStatus", "orderType", "orderStatus", "createdAt"`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	userJSON, err := json.Marshal(ord.User)
	if err != nil {
		return Order{}, err
	}
	shippingJSON, err := json.Marshal(ord.ShippingInfo)
	if err != nil {
		return Order{}, err
	}
	itemsJSON, err := json.Marshal(ord.OrderItems)
	if err != nil {
		return Order{}, err
	}

	_, err = r.db.Exec(`INSERT INTO orders (`+orderColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		ord.ID, ord.User.ID, userJSON, shippingJSON, itemsJSON,
		ord.ItemsPrice, ord.ShippingPrice, ord.TotalPrice,
		ord.Payment.Method, ord.Payment.TransactionID, ord.Payment.Status,
		string(ord.OrderType), ord.OrderStatus, ord.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Order{}, ErrDuplicateTransaction
		}
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) FindByTransactionID(transactionID string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "transactionId" = $1`, transactionID)
	return scanOrder(row)
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderID" = $1`, id)
	return scanOrder(row)
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE "userID" = $1 ORDER BY "createdAt" DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY "createdAt" DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// The unique index on orders."transactionId" is defense-in-depth behind the
// explicit duplicate check; a losing concurrent insert surfaces here.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var userID int
	var userJSON, shippingJSON, itemsJSON []byte
	var orderType string
	err := row.Scan(&ord.ID, &userID, &userJSON, &shippingJSON, &itemsJSON,
		&ord.ItemsPrice, &ord.ShippingPrice, &ord.TotalPrice,
		&ord.Payment.Method, &ord.Payment.TransactionID, &ord.Payment.Status,
		&orderType, &ord.OrderStatus, &ord.CreatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	ord.OrderType = ItemType(orderType)
	if err := json.Unmarshal(userJSON, &ord.User); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(shippingJSON, &ord.ShippingInfo); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &ord.OrderItems); err != nil {
		return Order{}, err
	}
	ord.User.ID = userID
	return ord, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}
