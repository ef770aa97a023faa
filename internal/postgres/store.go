package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordertrackhq/order-tracker/internal/orders"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store keeps records in a single table with an owner index and a ttl column.
// Reads filter on ttl so expired rows stop being reachable immediately; the
// sweeper deletes them for real on its own schedule.
type Store struct {
	db    *pgxpool.Pool
	table string
}

func NewStore(ctx context.Context, db *pgxpool.Pool, table string) (*Store, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	s := &Store{db: db, table: table}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			order_id   TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			product    TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			ttl        BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS %[1]s_user_id_idx ON %[1]s (user_id, created_at DESC);
	`, s.table))
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, o orders.Order) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (order_id, user_id, name, product, email, created_at, ttl)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO UPDATE SET
			user_id = EXCLUDED.user_id, name = EXCLUDED.name, product = EXCLUDED.product,
			email = EXCLUDED.email, created_at = EXCLUDED.created_at, ttl = EXCLUDED.ttl
	`, s.table), o.OrderID, o.UserID, o.Name, o.Product, o.Email, o.CreatedAt, o.TTL)
	if err != nil {
		return fmt.Errorf("put order %s: %w", o.OrderID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, orderID string) (orders.Order, error) {
	var o orders.Order
	err := s.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT order_id, user_id, name, product, email, created_at, ttl
		FROM %s WHERE order_id = $1 AND ttl > $2
	`, s.table), orderID, time.Now().Unix()).
		Scan(&o.OrderID, &o.UserID, &o.Name, &o.Product, &o.Email, &o.CreatedAt, &o.TTL)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return o, nil
}

func (s *Store) QueryByOwner(ctx context.Context, userID string) ([]orders.Order, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT order_id, user_id, name, product, email, created_at, ttl
		FROM %s WHERE user_id = $1 AND ttl > $2
		ORDER BY created_at DESC, order_id
		LIMIT $3
	`, s.table), userID, time.Now().Unix(), orders.MaxList)
	if err != nil {
		return nil, fmt.Errorf("query owner %s: %w", userID, err)
	}
	defer rows.Close()

	out := make([]orders.Order, 0)
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.Name, &o.Product, &o.Email, &o.CreatedAt, &o.TTL); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// StartSweeper deletes expired rows every interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				tag, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE ttl <= $1`, s.table), time.Now().Unix())
				if err != nil {
					slog.Error("expiry sweep failed", "err", err)
					continue
				}
				if n := tag.RowsAffected(); n > 0 {
					slog.Info("expiry sweep removed records", "count", n)
				}
			}
		}
	}()
}
