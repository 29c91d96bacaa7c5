package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const fallbackProductName = "Unknown Product"

// ProductName is a validated product display name.
type ProductName struct {
	value string
}

func NewProductName(v string) (ProductName, error) {
	if v == "" {
		return ProductName{}, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if len(v) > 200 {
		return ProductName{}, fmt.Errorf("%w: product name exceeds 200 characters", ErrValidation)
	}
	return ProductName{value: v}, nil
}

// ProductNameFromStorage tolerates legacy rows with an empty name.
func ProductNameFromStorage(v string) ProductName {
	if v == "" {
		return ProductName{value: fallbackProductName}
	}
	return ProductName{value: v}
}

func (n ProductName) Value() string {
	return n.value
}

// Money is a monetary amount in minor units (cents).
type Money struct {
	amount int64
}

func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return Money{amount: amount}, nil
}

// MoneyFromStorage tolerates corrupt rows by substituting zero.
func MoneyFromStorage(amount int64) Money {
	if amount < 0 {
		return Money{}
	}
	return Money{amount: amount}
}

func (m Money) Amount() int64 {
	return m.amount
}

// ProductStock is a non-negative inventory count.
type ProductStock struct {
	quantity int64
}

func NewProductStock(quantity int64) (ProductStock, error) {
	if quantity < 0 {
		return ProductStock{}, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return ProductStock{quantity: quantity}, nil
}

// ProductStockFromStorage tolerates corrupt rows by substituting zero.
func ProductStockFromStorage(quantity int64) ProductStock {
	if quantity < 0 {
		return ProductStock{}
	}
	return ProductStock{quantity: quantity}
}

func (s ProductStock) Quantity() int64 {
	return s.quantity
}

type Product struct {
	ID        int64
	Name      ProductName
	Price     Money
	Stock     ProductStock
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProduct(name string, price, stock int64) (*Product, error) {
	productName, err := NewProductName(name)
	if err != nil {
		return nil, err
	}
	productPrice, err := NewMoney(price)
	if err != nil {
		return nil, err
	}
	productStock, err := NewProductStock(stock)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Product{
		Name:      productName,
		Price:     productPrice,
		Stock:     productStock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HydrateProduct reconstructs a product from persisted columns with the
// lenient fallbacks, never failing on legacy rows.
func HydrateProduct(id int64, name string, price, stock int64, createdAt, updatedAt time.Time) *Product {
	return &Product{
		ID:        id,
		Name:      ProductNameFromStorage(name),
		Price:     MoneyFromStorage(price),
		Stock:     ProductStockFromStorage(stock),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// DecrStock removes quantity units from available stock.
func (p *Product) DecrStock(quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if p.Stock.Quantity() < quantity {
		return fmt.Errorf("%w: insufficient stock", ErrValidation)
	}
	p.Stock = ProductStock{quantity: p.Stock.Quantity() - quantity}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IncrStock returns quantity units to available stock.
func (p *Product) IncrStock(quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	p.Stock = ProductStock{quantity: p.Stock.Quantity() + quantity}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

type ProductCreateRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Price int64  `json:"price" validate:"required,gt=0"`
	Stock int64  `json:"stock" validate:"gte=0"`
}

type ProductResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Stock          int64  `json:"stock"`
	AvailableStock int64  `json:"available_stock"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	UpdateStock(ctx context.Context, id, stock int64, tx *sql.Tx) error

	WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

type ProductUsecase interface {
	CreateProduct(ctx context.Context, req ProductCreateRequest) (*ProductResponse, error)
	GetProduct(ctx context.Context, id int64) (*ProductResponse, error)
	SeedLedger(ctx context.Context) error
}
