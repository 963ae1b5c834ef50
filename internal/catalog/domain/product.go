package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is identified externally by ProductID, an operator-assigned code
// (e.g. "P001"). The surrogate ID is internal only.
type Product struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id" binding:"required"`
	Name          string          `json:"name"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductDefaults carries the upsertable fields for lookup-or-create by
// ProductID. Stock is deliberately absent: stock only moves through posted
// transactions, so an upsert never resets it.
type ProductDefaults struct {
	Name          string
	Specification string
	Unit          string
	Price         decimal.Decimal
	Description   string
}

type CreateProductRequest struct {
	ProductID     string          `json:"product_id" binding:"required"`
	Name          string          `json:"name"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Description   string          `json:"description"`
}

type UpdateProductRequest struct {
	Name          string          `json:"name"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
}
