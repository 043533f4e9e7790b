package store

import (
	"strings"
	"testing"

	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmptyFieldSet(t *testing.T) {
	// Absent fields are always valid: an empty set means "change nothing".
	assert.NoError(t, Validate(domain.Fields{}))
}

func TestValidateName(t *testing.T) {
	var f domain.Fields
	f.SetName("Widget")
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetName("")
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidName)

	f = domain.Fields{}
	f.SetName(strings.Repeat("a", contract.MaxNameLen))
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetName(strings.Repeat("a", contract.MaxNameLen+1))
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidName)
}

func TestValidateQuantityBounds(t *testing.T) {
	var f domain.Fields
	f.SetQuantity(0)
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetQuantity(contract.MaxQuantity - 1)
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetQuantity(contract.MaxQuantity)
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidQuantity)

	f = domain.Fields{}
	f.SetQuantity(-1)
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidQuantity)
}

func TestValidateNullQuantity(t *testing.T) {
	var f domain.Fields
	f.SetNullQuantity()
	assert.ErrorIs(t, Validate(f), domain.ErrMissingQuantity)
}

func TestValidateSupplier(t *testing.T) {
	var f domain.Fields
	f.SetSupplier("Acme Supply Co")
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetSupplier(strings.Repeat("s", contract.MaxSupplierLen))
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetSupplier(strings.Repeat("s", contract.MaxSupplierLen+1))
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidSupplier)
}

func TestValidatePrice(t *testing.T) {
	var f domain.Fields
	f.SetPrice(10.00)
	assert.NoError(t, Validate(f))

	// Both sentinels are valid prices.
	f = domain.Fields{}
	f.SetPrice(contract.Free)
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetPrice(contract.NotForSale)
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetPrice(-1.50)
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidPrice)

	f = domain.Fields{}
	f.SetPrice(contract.MaxPrice)
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidPrice)

	f = domain.Fields{}
	f.SetPrice(contract.MaxPrice - 0.01)
	assert.NoError(t, Validate(f))
}

func TestValidateNullPrice(t *testing.T) {
	var f domain.Fields
	f.SetNullPrice()
	assert.ErrorIs(t, Validate(f), domain.ErrMissingPrice)
}

func TestValidateImage(t *testing.T) {
	var f domain.Fields
	f.SetImage([]byte{0x89, 0x50})
	assert.NoError(t, Validate(f))

	f = domain.Fields{}
	f.SetImage(nil)
	assert.ErrorIs(t, Validate(f), domain.ErrMissingImage)
}

func TestValidateFirstFailureWins(t *testing.T) {
	// Name is checked before price, so the name failure is reported.
	var f domain.Fields
	f.SetName("")
	f.SetPrice(-5)
	assert.ErrorIs(t, Validate(f), domain.ErrInvalidName)
}

func TestValidateIdempotent(t *testing.T) {
	var f domain.Fields
	f.SetName("Widget")
	f.SetQuantity(5)
	f.SetPrice(10.00)

	for i := 0; i < 3; i++ {
		assert.NoError(t, Validate(f))
	}
	// The field set itself is untouched.
	assert.Equal(t, "Widget", f.Name)
	assert.Equal(t, int64(5), *f.Quantity)
	assert.Equal(t, 10.00, *f.Price)
}
