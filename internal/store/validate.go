package store

import (
	"unicode/utf8"

	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/domain"
)

// Validate checks a candidate field set against the integrity rules. Each
// present field is checked independently; an absent field is always valid
// (it means "leave unchanged" on update). The first failure wins and the
// whole write must be rejected by the caller — never partially applied.
// Validate itself never mutates anything and is idempotent.
func Validate(f domain.Fields) error {
	if f.HasName {
		if f.Name == "" || utf8.RuneCountInString(f.Name) > contract.MaxNameLen {
			return domain.ErrInvalidName
		}
	}

	if f.HasQuantity {
		if f.Quantity == nil {
			return domain.ErrMissingQuantity
		}
		if *f.Quantity < 0 || *f.Quantity >= contract.MaxQuantity {
			return domain.ErrInvalidQuantity
		}
	}

	if f.HasSupplier {
		if utf8.RuneCountInString(f.Supplier) > contract.MaxSupplierLen {
			return domain.ErrInvalidSupplier
		}
	}

	if f.HasPrice {
		if f.Price == nil {
			return domain.ErrMissingPrice
		}
		// Non-negative and strictly below the ceiling. Both sentinels fall in
		// range, so free and not-for-sale rows store without special cases.
		p := *f.Price
		if p < 0 || p >= contract.MaxPrice {
			return domain.ErrInvalidPrice
		}
	}

	if f.HasImage {
		if f.Image == nil {
			return domain.ErrMissingImage
		}
	}

	return nil
}
