package domain

import "github.com/joshdoucet/snapandsave/internal/contract"

// Item is one inventory record. Supplier and Image are optional; a nil
// Supplier means none was recorded.
type Item struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Quantity int64    `json:"quantity"`
	Price    float64  `json:"price"`
	Supplier *string  `json:"supplier,omitempty"`
	Image    []byte   `json:"image,omitempty"`
}

// Sellable reports whether a price contributes to the total inventory value.
// The sentinel comparisons are intentionally exact.
func Sellable(price float64) bool {
	return price != contract.Free && price != contract.NotForSale
}

// Contribution is the item's share of the total inventory value: price times
// quantity for sellable items, zero otherwise.
func (i *Item) Contribution() float64 {
	if !Sellable(i.Price) {
		return 0
	}
	return i.Price * float64(i.Quantity)
}

// Fields is a partial set of candidate column values for a write. A field is
// only considered when its Has flag is set; an unset field means "leave
// unchanged" on update. Quantity, Price and Image can be present but null
// (nil pointer / nil slice with the flag set), which validation rejects as a
// distinct missing-value failure.
type Fields struct {
	Name        string
	HasName     bool
	Quantity    *int64
	HasQuantity bool
	Price       *float64
	HasPrice    bool
	Supplier    string
	HasSupplier bool
	Image       []byte
	HasImage    bool
}

// Empty reports whether no field is present at all.
func (f *Fields) Empty() bool {
	return !f.HasName && !f.HasQuantity && !f.HasPrice && !f.HasSupplier && !f.HasImage
}

func (f *Fields) SetName(name string) *Fields {
	f.Name = name
	f.HasName = true
	return f
}

func (f *Fields) SetQuantity(q int64) *Fields {
	f.Quantity = &q
	f.HasQuantity = true
	return f
}

// SetNullQuantity marks quantity present with no value.
func (f *Fields) SetNullQuantity() *Fields {
	f.Quantity = nil
	f.HasQuantity = true
	return f
}

func (f *Fields) SetPrice(p float64) *Fields {
	f.Price = &p
	f.HasPrice = true
	return f
}

// SetNullPrice marks price present with no value.
func (f *Fields) SetNullPrice() *Fields {
	f.Price = nil
	f.HasPrice = true
	return f
}

func (f *Fields) SetSupplier(s string) *Fields {
	f.Supplier = s
	f.HasSupplier = true
	return f
}

func (f *Fields) SetImage(data []byte) *Fields {
	f.Image = data
	f.HasImage = true
	return f
}

// SortOrder selects the ordering of a collection query.
type SortOrder int

const (
	// OrderStorage is storage order, ascending by id.
	OrderStorage SortOrder = iota
	OrderByName
	OrderByPrice
)
