// Package contract is the single source of truth for the persisted inventory
// schema: table and column names, the two price sentinels, and the numeric
// ceilings enforced on every write. It exposes constants only.
package contract

import "strconv"

// Table and column names. The column names are part of the on-disk format and
// must not change.
const (
	TableItems = "items"

	ColumnID       = "_id"
	ColumnName     = "name"
	ColumnQuantity = "quantity"
	ColumnPrice    = "price_US_$"
	ColumnSupplier = "supplier"
	ColumnImage    = "image"
)

// Price sentinels. An item priced at either value is excluded from the total
// inventory value regardless of quantity. Comparisons are bit-exact; these
// values are stored as-is in the price column and must never be rounded or
// normalized.
const (
	Free       = 0.00
	NotForSale = 0.14619
)

// Field limits. Quantity and price ceilings are exclusive: the maximum
// storable quantity is MaxQuantity-1 and the highest valid price is just
// below MaxPrice.
const (
	MaxQuantity    = 9999999
	MaxPrice       = 9999999.99
	MaxNameLen     = 35
	MaxSupplierLen = 25
)

// Addressable resources for the item collection and a single item.
const (
	PathItems  = "/items"
	PathItemID = "/items/{id}"
)

// ItemPath returns the single-item resource path for an id.
func ItemPath(id int64) string {
	return PathItems + "/" + strconv.FormatInt(id, 10)
}

// Content types distinguishing a list-of-items payload from a single item.
const (
	ContentTypeItemList = "application/vnd.snapandsave.items+json"
	ContentTypeItem     = "application/vnd.snapandsave.item+json"
)
