package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// CustomerStore - справочник клиентов в PostgreSQL.
type CustomerStore struct {
	db *sql.DB
}

// NewCustomerStore создаёт PostgreSQL-реализацию CustomerStore.
func NewCustomerStore(store *Store) *CustomerStore {
	return &CustomerStore{db: store.DB()}
}

// ListIDs возвращает идентификаторы клиентов по возрастанию.
func (s *CustomerStore) ListIDs() ([]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM customers ORDER BY id`)
	if err != nil {
		return nil, wrapQueryError("list customers", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan customer id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer ids: %w", err)
	}
	return ids, nil
}

// Get возвращает клиента. NULL-поля превращаются в пустые строки.
func (s *CustomerStore) Get(id int64) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var fields [11]sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, phone, email, address, suburb, state, postcode,
		       merchandiser, business_name, pigeon_coop_id
		FROM customers
		WHERE id = $1
	`, id).Scan(
		&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5],
		&fields[6], &fields[7], &fields[8], &fields[9], &fields[10],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, wrapQueryError("select customer", err)
	}

	return domain.Customer{
		ID:           id,
		FirstName:    fields[0].String,
		LastName:     fields[1].String,
		Phone:        fields[2].String,
		Email:        fields[3].String,
		Address:      fields[4].String,
		Suburb:       fields[5].String,
		State:        fields[6].String,
		Postcode:     fields[7].String,
		Merchandiser: fields[8].String,
		BusinessName: fields[9].String,
		PigeonCoopID: fields[10].String,
	}, nil
}

// Upsert сохраняет клиентов, перезаписывая существующие записи. Пустые поля
// хранятся как NULL.
func (s *CustomerStore) Upsert(ctx context.Context, customers ...domain.Customer) (err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
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

	for _, c := range customers {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO customers (
				id, first_name, last_name, phone, email, address, suburb, state, postcode,
				merchandiser, business_name, pigeon_coop_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				phone = EXCLUDED.phone,
				email = EXCLUDED.email,
				address = EXCLUDED.address,
				suburb = EXCLUDED.suburb,
				state = EXCLUDED.state,
				postcode = EXCLUDED.postcode,
				merchandiser = EXCLUDED.merchandiser,
				business_name = EXCLUDED.business_name,
				pigeon_coop_id = EXCLUDED.pigeon_coop_id
		`,
			c.ID, nullable(c.FirstName), nullable(c.LastName), nullable(c.Phone), nullable(c.Email),
			nullable(c.Address), nullable(c.Suburb), nullable(c.State), nullable(c.Postcode),
			nullable(c.Merchandiser), nullable(c.BusinessName), nullable(c.PigeonCoopID),
		); err != nil {
			return wrapQueryError(fmt.Sprintf("upsert customer %d", c.ID), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert customers: %w", err)
	}
	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

var _ domain.CustomerStore = (*CustomerStore)(nil)
