package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIn  TransactionType = "IN"
	TypeOut TransactionType = "OUT"
)

// StockDelta is +quantity for IN and -quantity for OUT.
func (t TransactionType) StockDelta(quantity int) int {
	if t == TypeOut {
		return -quantity
	}
	return quantity
}

// DocumentPrefix is the human-facing document number prefix: RK for inbound
// documents, CK for outbound.
func (t TransactionType) DocumentPrefix() string {
	if t == TypeOut {
		return "CK"
	}
	return "RK"
}

// Transaction is a stock movement document header. DocumentNumber is stamped
// at first save and never reassigned; TotalAmount is the sum of the items'
// TotalPrice.
type Transaction struct {
	ID              string            `json:"id"`
	TransactionType TransactionType   `json:"transaction_type"`
	DocumentNumber  string            `json:"document_number"`
	CustomerID      *string           `json:"customer_id,omitempty"`
	Preparer        string            `json:"preparer"`
	Auditor         string            `json:"auditor"`
	Handler         string            `json:"handler"`
	Receiver        string            `json:"receiver"`
	Remarks         string            `json:"remarks"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	TransactionDate time.Time         `json:"transaction_date"`
	Items           []TransactionItem `json:"items,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TransactionItem is one document line. TotalPrice is always
// Quantity x UnitPrice as of the last save.
type TransactionItem struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"-"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Remarks       string          `json:"remarks"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ComputeTotal recomputes TotalPrice from Quantity and UnitPrice at two
// decimal places.
func (i *TransactionItem) ComputeTotal() {
	i.UnitPrice = i.UnitPrice.Round(2)
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

type CreateTransactionRequest struct {
	TransactionType TransactionType  `json:"transaction_type" binding:"required,oneof=IN OUT"`
	ProductID       string           `json:"product_id" binding:"required"`
	Quantity        int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	CustomerID      *string          `json:"customer_id,omitempty"`
	Preparer        string           `json:"preparer"`
	Auditor         string           `json:"auditor"`
	Handler         string           `json:"handler"`
	Receiver        string           `json:"receiver"`
	Remarks         string           `json:"remarks"`
	ItemRemarks     string           `json:"item_remarks"`
}

// ListFilter narrows transaction listings. ProductID matches exactly;
// ProductName is a case-insensitive substring match.
type ListFilter struct {
	TransactionType string
	ProductID       string
	ProductName     string
}

type TransactionSummary struct {
	TotalIn  int `json:"total_in"`
	TotalOut int `json:"total_out"`
}

// DocumentImport is one reconciled spreadsheet document: a header plus the
// line rows that shared its document number.
type DocumentImport struct {
	DocumentNumber  string
	TransactionType TransactionType
	CustomerName    string
	CustomerPhone   string
	Preparer        string
	Auditor         string
	Handler         string
	Receiver        string
	Remarks         string
	Rows            []DocumentImportRow
}

type DocumentImportRow struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal // nil means use the product's current price
	Remarks   string
}

// ReconcileResult reports one document's outcome: whether the header was
// newly created and which rows failed.
type ReconcileResult struct {
	HeaderCreated bool
	RowErrors     []string
}
