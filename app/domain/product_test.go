package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductName(t *testing.T) {
	name, err := NewProductName("Mechanical Keyboard")
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", name.Value())

	_, err = NewProductName("")
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewProductName(string(long))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductNameFromStorage_FallsBackOnEmpty(t *testing.T) {
	assert.Equal(t, "Unknown Product", ProductNameFromStorage("").Value())
	assert.Equal(t, "Widget", ProductNameFromStorage("Widget").Value())
}

func TestNewMoney(t *testing.T) {
	money, err := NewMoney(1999)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), money.Amount())

	_, err = NewMoney(-1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMoneyFromStorage_FallsBackOnNegative(t *testing.T) {
	assert.Equal(t, int64(0), MoneyFromStorage(-50).Amount())
	assert.Equal(t, int64(50), MoneyFromStorage(50).Amount())
}

func TestNewProductStock(t *testing.T) {
	stock, err := NewProductStock(10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stock.Quantity())

	_, err = NewProductStock(-1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductStockFromStorage_FallsBackOnNegative(t *testing.T) {
	assert.Equal(t, int64(0), ProductStockFromStorage(-3).Quantity())
}

func TestValueObjectEquality(t *testing.T) {
	a, _ := NewMoney(100)
	b, _ := NewMoney(100)
	assert.Equal(t, a, b)

	x, _ := NewProductStock(5)
	y, _ := NewProductStock(5)
	assert.Equal(t, x, y)
}

func TestProduct_DecrStock(t *testing.T) {
	product, err := NewProduct("Widget", 500, 10)
	require.NoError(t, err)

	require.NoError(t, product.DecrStock(4))
	assert.Equal(t, int64(6), product.Stock.Quantity())

	err = product.DecrStock(7)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(6), product.Stock.Quantity())

	err = product.DecrStock(0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProduct_IncrStock(t *testing.T) {
	product, err := NewProduct("Widget", 500, 6)
	require.NoError(t, err)

	require.NoError(t, product.IncrStock(4))
	assert.Equal(t, int64(10), product.Stock.Quantity())

	err = product.IncrStock(-1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHydrateProduct_LenientDefaults(t *testing.T) {
	product := HydrateProduct(7, "", -100, -5, testTime(), testTime())

	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "Unknown Product", product.Name.Value())
	assert.Equal(t, int64(0), product.Price.Amount())
	assert.Equal(t, int64(0), product.Stock.Quantity())
}
