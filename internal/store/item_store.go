package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/domain"
	"github.com/joshdoucet/snapandsave/internal/notify"
)

// ItemStore owns durable CRUD over inventory items. Every write is validated
// before touching storage, serialized through a single writer lock, and
// followed by a change notification and the matching adjustment of the cached
// total inventory value. Reads run without the lock; WAL gives them a
// consistent snapshot.
type ItemStore struct {
	db       *sql.DB
	mu       sync.Mutex // serializes all mutations
	total    *TotalValue
	notifier *notify.Notifier
}

func NewItemStore(db *sql.DB, notifier *notify.Notifier) *ItemStore {
	return &ItemStore{
		db:       db,
		total:    NewTotalValue(),
		notifier: notifier,
	}
}

// Total returns the handle to the cached total inventory value.
func (s *ItemStore) Total() *TotalValue {
	return s.total
}

// Insert validates and persists a new item, returning its assigned id. Name,
// quantity and price are required; supplier and image are optional. On
// success the sellable contribution is added to the total and the collection
// is notified. Nothing is written on a validation failure.
func (s *ItemStore) Insert(ctx context.Context, f domain.Fields) (int64, error) {
	switch {
	case !f.HasName:
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, domain.ErrInvalidName)
	case !f.HasQuantity:
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, domain.ErrMissingQuantity)
	case !f.HasPrice:
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, domain.ErrMissingPrice)
	}
	if err := Validate(f); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var supplier any
	if f.HasSupplier {
		supplier = f.Supplier
	}
	var image any
	if f.HasImage {
		image = f.Image
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (name, quantity, "price_US_$", supplier, image) VALUES (?, ?, ?, ?, ?)
	`, f.Name, *f.Quantity, *f.Price, supplier, image)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}

	if domain.Sellable(*f.Price) {
		s.total.Add(*f.Price * float64(*f.Quantity))
	}
	s.notifier.Publish(contract.PathItems)

	return id, nil
}

// Update validates and persists the present fields for one item. An empty
// field set is a no-op returning 0 without touching storage; a nonexistent id
// also reports 0 affected rows rather than a hard failure. The caller
// supplies prior, the row's sellable contribution (price×quantity) before the
// write; the store swaps it for the contribution of the updated row.
func (s *ItemStore) Update(ctx context.Context, id int64, f domain.Fields, prior float64) (int64, error) {
	if f.Empty() {
		return 0, nil
	}
	if err := Validate(f); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clause, args := setClause(f)
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, `UPDATE items SET `+clause+` WHERE _id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	// The updated row's price and quantity are known to storage even when the
	// caller changed only a subset of fields; read them back to compute the
	// new contribution.
	var quantity int64
	var price float64
	err = s.db.QueryRowContext(ctx, `
		SELECT quantity, "price_US_$" FROM items WHERE _id = ?
	`, id).Scan(&quantity, &price)
	if err != nil {
		return n, fmt.Errorf("failed to read back updated row: %w", err)
	}

	next := 0.0
	if domain.Sellable(price) {
		next = price * float64(quantity)
	}
	s.total.Swap(prior, next)

	s.notifier.Publish(contract.ItemPath(id))
	s.notifier.Publish(contract.PathItems)

	return n, nil
}

// UpdateAll validates and applies the present fields to every item. The total
// is left untouched — a bulk write cannot be diffed row by row — so callers
// must follow up with Recompute.
func (s *ItemStore) UpdateAll(ctx context.Context, f domain.Fields) (int64, error) {
	if f.Empty() {
		return 0, nil
	}
	if err := Validate(f); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrValidationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clause, args := setClause(f)
	result, err := s.db.ExecContext(ctx, `UPDATE items SET `+clause, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n > 0 {
		s.notifier.Publish(contract.PathItems)
	}
	return n, nil
}

// Delete removes one item. It does not adjust the total: single-row deletion
// and aggregate bookkeeping are separate duties, and the caller subtracts the
// deleted row's sellable contribution. A nonexistent id reports 0 affected
// rows.
func (s *ItemStore) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE _id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n > 0 {
		s.notifier.Publish(contract.ItemPath(id))
		s.notifier.Publish(contract.PathItems)
	}
	return n, nil
}

// DeleteAll removes every item. When rows were deleted the total is reset to
// exactly zero and the collection is notified.
func (s *ItemStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n > 0 {
		s.total.Reset()
		s.notifier.Publish(contract.PathItems)
	}
	return n, nil
}

// AdjustQuantity applies a quantity delta to one item: negative for a sale,
// positive for a received shipment. The adjustment is rejected before any
// mutation when the result would go below zero or when the result or the
// delta magnitude would reach the quantity ceiling. On success the new
// quantity is returned and, when unitPrice is sellable, the total moves by
// unitPrice×delta.
func (s *ItemStore) AdjustQuantity(ctx context.Context, id, delta int64, unitPrice float64) (int64, error) {
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude >= contract.MaxQuantity {
		return 0, domain.ErrQuantityOverflow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE _id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read current quantity: %w", err)
	}

	next := current + delta
	if next < 0 {
		return 0, domain.ErrQuantityUnderflow
	}
	if next >= contract.MaxQuantity {
		return 0, domain.ErrQuantityOverflow
	}

	if _, err := tx.ExecContext(ctx, `UPDATE items SET quantity = ? WHERE _id = ?`, next, id); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorageFailed, err)
	}

	if domain.Sellable(unitPrice) {
		s.total.Add(unitPrice * float64(delta))
	}
	s.notifier.Publish(contract.ItemPath(id))
	s.notifier.Publish(contract.PathItems)

	return next, nil
}

// DecrementOne records a single-unit sale.
func (s *ItemStore) DecrementOne(ctx context.Context, id int64, unitPrice float64) (int64, error) {
	return s.AdjustQuantity(ctx, id, -1, unitPrice)
}

// Get returns one item including its image blob, or nil when the id does not
// exist.
func (s *ItemStore) Get(ctx context.Context, id int64) (*domain.Item, error) {
	item := &domain.Item{}
	var supplier sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT _id, name, quantity, "price_US_$", supplier, image FROM items WHERE _id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Quantity, &item.Price, &supplier, &item.Image)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if supplier.Valid {
		item.Supplier = &supplier.String
	}
	return item, nil
}

// List returns all items in the requested order, without image blobs. It
// reflects the latest committed state; when the total has not been
// initialized yet the first call performs the full scan.
func (s *ItemStore) List(ctx context.Context, order domain.SortOrder) ([]*domain.Item, error) {
	if _, ready := s.total.Value(); !ready {
		if err := s.Recompute(ctx); err != nil {
			return nil, err
		}
	}

	orderBy := "_id ASC"
	switch order {
	case domain.OrderByName:
		orderBy = "name ASC"
	case domain.OrderByPrice:
		orderBy = `"price_US_$" ASC`
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT _id, name, quantity, "price_US_$", supplier FROM items ORDER BY `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		var supplier sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price, &supplier); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if supplier.Valid {
			item.Supplier = &supplier.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Recompute rebuilds the total inventory value from a full scan. It takes the
// writer lock so the scan observes a stable table; mutations resume once the
// fresh sum is installed.
func (s *ItemStore) Recompute(ctx context.Context) error {
	if !s.total.beginCompute() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT quantity, "price_US_$" FROM items`)
	if err != nil {
		s.total.abortCompute()
		return fmt.Errorf("failed to scan for total value: %w", err)
	}
	defer rows.Close()

	var sum float64
	for rows.Next() {
		var quantity int64
		var price float64
		if err := rows.Scan(&quantity, &price); err != nil {
			s.total.abortCompute()
			return fmt.Errorf("failed to scan row for total value: %w", err)
		}
		if domain.Sellable(price) {
			sum += price * float64(quantity)
		}
	}
	if err := rows.Err(); err != nil {
		s.total.abortCompute()
		return fmt.Errorf("error iterating rows for total value: %w", err)
	}

	s.total.finishCompute(sum)
	return nil
}

// setClause builds the SET fragment for the present fields, in column order.
func setClause(f domain.Fields) (string, []any) {
	var clause string
	var args []any

	add := func(col string, val any) {
		if clause != "" {
			clause += ", "
		}
		clause += col + " = ?"
		args = append(args, val)
	}

	if f.HasName {
		add("name", f.Name)
	}
	if f.HasQuantity {
		add("quantity", *f.Quantity)
	}
	if f.HasPrice {
		add(`"price_US_$"`, *f.Price)
	}
	if f.HasSupplier {
		add("supplier", f.Supplier)
	}
	if f.HasImage {
		add("image", f.Image)
	}

	return clause, args
}
