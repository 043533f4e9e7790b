package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/db"
	"github.com/joshdoucet/snapandsave/internal/domain"
	"github.com/joshdoucet/snapandsave/internal/notify"
	"github.com/joshdoucet/snapandsave/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *InventoryService {
	t.Helper()
	items := store.NewItemStore(db.NewTestDB(t), notify.New())
	require.NoError(t, items.Recompute(context.Background()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInventoryService(items, items.Total(), logger)
}

func createWidget(t *testing.T, s *InventoryService) *domain.Item {
	t.Helper()
	var f domain.Fields
	f.SetName("Widget")
	f.SetQuantity(5)
	f.SetPrice(10.00)
	item, err := s.CreateItem(context.Background(), f)
	require.NoError(t, err)
	return item
}

func currentTotal(t *testing.T, s *InventoryService) float64 {
	t.Helper()
	v, ready := s.TotalValue()
	require.True(t, ready)
	return v
}

func TestCreateItem(t *testing.T) {
	s := newTestService(t)

	item := createWidget(t, s)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Widget", item.Name)
	assert.InDelta(t, 50.00, currentTotal(t, s), 1e-9)
}

func TestCreateItemValidationFailure(t *testing.T) {
	s := newTestService(t)

	var f domain.Fields
	f.SetName("Widget")
	f.SetQuantity(5)
	f.SetPrice(contract.MaxPrice)
	_, err := s.CreateItem(context.Background(), f)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.Zero(t, currentTotal(t, s))
}

func TestUpdateItemSuppliesPriorContribution(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	item := createWidget(t, s)

	// Reprice to not-for-sale: the service reads the prior contribution
	// itself, so the total drops by the full 50.00.
	var f domain.Fields
	f.SetPrice(contract.NotForSale)
	updated, err := s.UpdateItem(ctx, item.ID, f)
	require.NoError(t, err)
	assert.Equal(t, contract.NotForSale, updated.Price)
	assert.Zero(t, currentTotal(t, s))
}

func TestUpdateItemQuantityOnly(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	var f domain.Fields
	f.SetQuantity(7)
	updated, err := s.UpdateItem(context.Background(), item.ID, f)
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.Quantity)
	assert.InDelta(t, 70.00, currentTotal(t, s), 1e-9)
}

func TestUpdateItemNotFound(t *testing.T) {
	s := newTestService(t)

	var f domain.Fields
	f.SetName("Ghost")
	_, err := s.UpdateItem(context.Background(), 99999, f)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAllItemsRecomputesTotal(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	createWidget(t, s)

	var f domain.Fields
	f.SetPrice(2.00)
	n, err := s.UpdateAllItems(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 5 × 2.00 after the bulk reprice, via full recompute.
	assert.InDelta(t, 10.00, currentTotal(t, s), 1e-9)
}

func TestDeleteItemSubtractsContribution(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	item := createWidget(t, s)

	require.NoError(t, s.DeleteItem(ctx, item.ID))
	assert.Zero(t, currentTotal(t, s))

	_, err := s.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItemNotForSaleLeavesTotal(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	createWidget(t, s)

	var f domain.Fields
	f.SetName("Display Model")
	f.SetQuantity(3)
	f.SetPrice(contract.NotForSale)
	display, err := s.CreateItem(ctx, f)
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(ctx, display.ID))
	assert.InDelta(t, 50.00, currentTotal(t, s), 1e-9)
}

func TestDeleteItemNotFound(t *testing.T) {
	s := newTestService(t)
	assert.ErrorIs(t, s.DeleteItem(context.Background(), 99999), domain.ErrNotFound)
}

func TestClearInventory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	createWidget(t, s)

	n, err := s.ClearInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, currentTotal(t, s))
}

func TestRecordSale(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	newQty, err := s.RecordSale(context.Background(), item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), newQty)
	assert.InDelta(t, 20.00, currentTotal(t, s), 1e-9)
}

func TestRecordSaleRejectsOversell(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	_, err := s.RecordSale(context.Background(), item.ID, 10)
	assert.ErrorIs(t, err, domain.ErrQuantityUnderflow)
	assert.InDelta(t, 50.00, currentTotal(t, s), 1e-9)
}

func TestRecordSaleRejectsNonPositiveQuantity(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	_, err := s.RecordSale(context.Background(), item.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = s.RecordSale(context.Background(), item.ID, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReceiveShipment(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	newQty, err := s.ReceiveShipment(context.Background(), item.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), newQty)
	assert.InDelta(t, 250.00, currentTotal(t, s), 1e-9)
}

func TestSellOne(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	newQty, err := s.SellOne(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), newQty)
	assert.InDelta(t, 40.00, currentTotal(t, s), 1e-9)
}

func TestAttachImage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	item := createWidget(t, s)

	require.NoError(t, s.AttachImage(ctx, item.ID, encodePNG(t, 32, 32)))

	stored, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Image)
	// Attaching an image must not move the total.
	assert.InDelta(t, 50.00, currentTotal(t, s), 1e-9)
}

func TestAttachImageRejectsNonPNG(t *testing.T) {
	s := newTestService(t)
	item := createWidget(t, s)

	err := s.AttachImage(context.Background(), item.ID, []byte("definitely not an image"))
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
