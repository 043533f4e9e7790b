// Command seed loads a handful of sample items into the inventory database.
// It refuses to touch a non-empty table unless FORCE_SEED=true.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/joshdoucet/snapandsave/internal/config"
	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/db"
	"github.com/joshdoucet/snapandsave/internal/domain"
	"github.com/joshdoucet/snapandsave/internal/notify"
	"github.com/joshdoucet/snapandsave/internal/store"
)

type seedItem struct {
	name     string
	quantity int64
	price    float64
	supplier string
	tint     color.RGBA
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	items := store.NewItemStore(database, notify.New())

	for _, s := range sampleItems() {
		img, err := placeholderPNG(s.tint)
		if err != nil {
			return fmt.Errorf("render sample image: %w", err)
		}

		var f domain.Fields
		f.SetName(s.name)
		f.SetQuantity(s.quantity)
		f.SetPrice(s.price)
		if s.supplier != "" {
			f.SetSupplier(s.supplier)
		}
		f.SetImage(img)

		id, err := items.Insert(ctx, f)
		if err != nil {
			return fmt.Errorf("insert %q: %w", s.name, err)
		}
		log.Printf("seeded item %d: %s", id, s.name)
	}

	return nil
}

func sampleItems() []seedItem {
	return []seedItem{
		{name: "Widget", quantity: 5, price: 10.00, supplier: "Acme Supply Co", tint: color.RGBA{R: 200, G: 60, B: 60, A: 255}},
		{name: "Gadget", quantity: 12, price: 4.25, supplier: "Gadget Works", tint: color.RGBA{R: 60, G: 140, B: 200, A: 255}},
		{name: "Display Model", quantity: 1, price: contract.NotForSale, tint: color.RGBA{R: 120, G: 120, B: 120, A: 255}},
		{name: "Promo Sticker", quantity: 250, price: contract.Free, supplier: "PrintHouse", tint: color.RGBA{R: 240, G: 200, B: 60, A: 255}},
		{name: "Premium Toolkit", quantity: 3, price: 149.99, supplier: "Hardline Tools", tint: color.RGBA{R: 60, G: 180, B: 90, A: 255}},
	}
}

// placeholderPNG renders a small solid-color swatch standing in for a real
// product photo.
func placeholderPNG(tint color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, tint)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
