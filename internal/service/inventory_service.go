package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshdoucet/snapandsave/internal/domain"
	"github.com/joshdoucet/snapandsave/internal/imaging"
	"github.com/joshdoucet/snapandsave/internal/store"
)

// itemRepository is the subset of store.ItemStore that InventoryService
// requires.
type itemRepository interface {
	Insert(ctx context.Context, f domain.Fields) (int64, error)
	Update(ctx context.Context, id int64, f domain.Fields, prior float64) (int64, error)
	UpdateAll(ctx context.Context, f domain.Fields) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	AdjustQuantity(ctx context.Context, id, delta int64, unitPrice float64) (int64, error)
	DecrementOne(ctx context.Context, id int64, unitPrice float64) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, order domain.SortOrder) ([]*domain.Item, error)
	Recompute(ctx context.Context) error
}

// InventoryService drives the store on behalf of the presentation layer. The
// store keeps the total inventory value consistent for inserts, targeted
// quantity adjustments and delete-all; for single-row update and delete the
// caller owes it the row's prior contribution, and that caller-side duty is
// implemented here so every surface above gets uniform behavior.
type InventoryService struct {
	items  itemRepository
	total  *store.TotalValue
	logger *slog.Logger
}

func NewInventoryService(items itemRepository, total *store.TotalValue, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		items:  items,
		total:  total,
		logger: logger,
	}
}

// CreateItem inserts a new item and returns the stored record.
func (s *InventoryService) CreateItem(ctx context.Context, f domain.Fields) (*domain.Item, error) {
	id, err := s.items.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("item created", "id", id, "name", f.Name)
	return s.items.Get(ctx, id)
}

// UpdateItem applies the present fields to one item, supplying the store with
// the row's contribution before the write so the total stays consistent.
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, f domain.Fields) (*domain.Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	n, err := s.items.Update(ctx, id, f, item.Contribution())
	if err != nil {
		return nil, err
	}
	if n == 0 && !f.Empty() {
		// The row vanished between the read and the write.
		return nil, domain.ErrNotFound
	}
	if n == 0 {
		return item, nil
	}

	return s.items.Get(ctx, id)
}

// UpdateAllItems applies the present fields to every item, then rebuilds the
// total from storage since a bulk write cannot be diffed incrementally.
func (s *InventoryService) UpdateAllItems(ctx context.Context, f domain.Fields) (int64, error) {
	n, err := s.items.UpdateAll(ctx, f)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.items.Recompute(ctx); err != nil {
			return n, fmt.Errorf("bulk update applied but total recompute failed: %w", err)
		}
	}
	return n, nil
}

// DeleteItem removes one item and subtracts its sellable contribution from
// the total, the bookkeeping the store deliberately leaves to its caller.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	n, err := s.items.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.total.Add(-item.Contribution())
		s.logger.Info("item deleted", "id", id)
	}
	return nil
}

// ClearInventory deletes every item; the store resets the total to zero.
func (s *InventoryService) ClearInventory(ctx context.Context) (int64, error) {
	n, err := s.items.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("inventory cleared", "rows", n)
	return n, nil
}

// RecordSale decrements an item's quantity by the sold amount.
func (s *InventoryService) RecordSale(ctx context.Context, id, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: sale quantity must be positive", domain.ErrInvalidQuantity)
	}
	return s.adjust(ctx, id, -quantity)
}

// ReceiveShipment increments an item's quantity by the received amount.
func (s *InventoryService) ReceiveShipment(ctx context.Context, id, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: received quantity must be positive", domain.ErrInvalidQuantity)
	}
	return s.adjust(ctx, id, quantity)
}

// SellOne records a single-unit sale.
func (s *InventoryService) SellOne(ctx context.Context, id int64) (int64, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return s.items.DecrementOne(ctx, id, item.Price)
}

func (s *InventoryService) adjust(ctx context.Context, id, delta int64) (int64, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	newQty, err := s.items.AdjustQuantity(ctx, id, delta, item.Price)
	if err != nil {
		return 0, err
	}
	s.logger.Info("quantity adjusted", "id", id, "delta", delta, "quantity", newQty)
	return newQty, nil
}

// AttachImage normalizes an uploaded PNG and stores it on the item. Price and
// quantity are untouched, so the prior contribution carries over unchanged.
func (s *InventoryService) AttachImage(ctx context.Context, id int64, data []byte) error {
	normalized, err := imaging.Normalize(data)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidationFailed, err)
	}

	var f domain.Fields
	f.SetImage(normalized)
	if _, err := s.UpdateItem(ctx, id, f); err != nil {
		return err
	}
	return nil
}

// GetItem returns one item or ErrNotFound.
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems returns all items in the requested order.
func (s *InventoryService) ListItems(ctx context.Context, order domain.SortOrder) ([]*domain.Item, error) {
	return s.items.List(ctx, order)
}

// TotalValue returns the cached total inventory value and whether it has been
// initialized.
func (s *InventoryService) TotalValue() (float64, bool) {
	return s.total.Value()
}
