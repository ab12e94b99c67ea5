package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

type orderStore struct {
	db      *sql.DB
	catalog domain.ProductCatalog
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore. Продукты позиций
// восстанавливаются по ключу через catalog.
func NewOrderStore(store *Store, catalog domain.ProductCatalog) domain.OrderStore {
	return &orderStore{db: store.DB(), catalog: catalog}
}

func (s *orderStore) Get(id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rec := domain.OrderRecord{ID: id}
	var (
		kind, discountKind, invoiceKind string
		rate                            decimal.Decimal
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT customer_id, created_at, finalised, kind, shipments,
		       discount_kind, discount_rate, discount_threshold, invoice_kind
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&rec.CustomerID, &rec.CreatedAt, &rec.Finalised, &kind, &rec.Shipments,
		&discountKind, &rate, &rec.Discount.Threshold, &invoiceKind,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, wrapQueryError("select order", err)
	}
	rec.Kind = domain.OrderKind(kind)
	rec.Discount.Kind = domain.DiscountKind(discountKind)
	rec.Discount.Rate = rate
	rec.Invoice = domain.InvoiceKind(invoiceKind)

	lines, err := s.loadLines(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Lines = lines

	return domain.RestoreOrder(rec, s.catalog)
}

func (s *orderStore) loadLines(ctx context.Context, orderID int64) ([]domain.LineRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_key, qty
		FROM order_lines
		WHERE order_id = $1
		ORDER BY product_key
	`, orderID)
	if err != nil {
		return nil, wrapQueryError("load order lines", err)
	}
	defer rows.Close()

	lines := make([]domain.LineRecord, 0)
	for rows.Next() {
		var (
			line domain.LineRecord
			key  string
		)
		if err := rows.Scan(&key, &line.Qty); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.ProductKey = domain.ProductKey(key)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

// Put сохраняет заказ целиком: строка заказа перезаписывается, позиции заменяются.
func (s *orderStore) Put(order *domain.Order) (err error) {
	if order == nil {
		return domain.ErrInvalidArgument
	}
	rec := order.Record()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, created_at, finalised, kind, shipments,
			discount_kind, discount_rate, discount_threshold, invoice_kind
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			created_at = EXCLUDED.created_at,
			finalised = EXCLUDED.finalised,
			kind = EXCLUDED.kind,
			shipments = EXCLUDED.shipments,
			discount_kind = EXCLUDED.discount_kind,
			discount_rate = EXCLUDED.discount_rate,
			discount_threshold = EXCLUDED.discount_threshold,
			invoice_kind = EXCLUDED.invoice_kind
	`,
		rec.ID, rec.CustomerID, rec.CreatedAt, rec.Finalised, string(rec.Kind), rec.Shipments,
		string(rec.Discount.Kind), rec.Discount.Rate, rec.Discount.Threshold, string(rec.Invoice),
	); err != nil {
		return wrapQueryError("upsert order", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("clear order lines: %w", err)
	}
	for _, line := range rec.Lines {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_key, qty)
			VALUES ($1,$2,$3)
		`, rec.ID, string(line.ProductKey), line.Qty); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `SELECT setval('order_id_seq', GREATEST($1, (SELECT last_value FROM order_id_seq)))`, rec.ID); err != nil {
		return fmt.Errorf("advance order id sequence: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit put order: %w", err)
	}
	return nil
}

func (s *orderStore) Delete(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapQueryError("delete order", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *orderStore) NextID() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval('order_id_seq')`).Scan(&id); err != nil {
		return 0, wrapQueryError("next order id", err)
	}
	return id, nil
}

func (s *orderStore) ListIDs() ([]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM orders ORDER BY id`)
	if err != nil {
		return nil, wrapQueryError("list orders", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order ids: %w", err)
	}
	return ids, nil
}

var _ domain.OrderStore = (*orderStore)(nil)
