package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/0zheermao0/inventory/internal/inventory/domain"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

var (
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrItemNotFound            = errors.New("transaction item not found")
	ErrDuplicateDocumentNumber = errors.New("document number already exists")
)

// DBTX is either *sql.DB or *sql.Tx. The transactional repository methods take
// it explicitly so a header, its items and the product stock delta all commit
// or roll back as one unit.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type TransactionRepository interface {
	BeginTx(ctx context.Context) (DBTX, error)

	InsertHeader(ctx context.Context, dbops DBTX, t *domain.Transaction) error
	UpdateHeader(ctx context.Context, dbops DBTX, t *domain.Transaction) error
	GetHeaderByDocumentNumber(ctx context.Context, dbops DBTX, documentNumber string) (*domain.Transaction, error)
	SetTotalAmount(ctx context.Context, dbops DBTX, transactionID string, total decimal.Decimal) error

	InsertItem(ctx context.Context, dbops DBTX, item *domain.TransactionItem) error
	UpdateItem(ctx context.Context, dbops DBTX, item *domain.TransactionItem) error
	GetItemByTransactionAndProduct(ctx context.Context, dbops DBTX, transactionID, productID string) (*domain.TransactionItem, error)
	SumItemTotals(ctx context.Context, dbops DBTX, transactionID string) (decimal.Decimal, error)

	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.Transaction, error)
	ListTransactionsWithItems(ctx context.Context) ([]domain.Transaction, error)
	CountByType(ctx context.Context, t domain.TransactionType) (int, error)
}

type postgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) BeginTx(ctx context.Context) (DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

const headerColumns = `id, transaction_type, document_number, customer_id, preparer, auditor, handler, receiver, remarks, total_amount, transaction_date, created_at, updated_at`

func scanHeader(row interface{ Scan(...interface{}) error }, t *domain.Transaction) error {
	var customerID sql.NullString
	err := row.Scan(&t.ID, &t.TransactionType, &t.DocumentNumber, &customerID,
		&t.Preparer, &t.Auditor, &t.Handler, &t.Receiver, &t.Remarks,
		&t.TotalAmount, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	if customerID.Valid {
		t.CustomerID = &customerID.String
	}
	return nil
}

func nullableID(id *string) sql.NullString {
	if id != nil && *id != "" {
		return sql.NullString{String: *id, Valid: true}
	}
	return sql.NullString{}
}

func (r *postgresTransactionRepository) InsertHeader(ctx context.Context, dbops DBTX, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, transaction_type, document_number, customer_id, preparer, auditor, handler, receiver, remarks, total_amount, transaction_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	t.ID = uuid.NewString()
	now := time.Now()
	if t.TransactionDate.IsZero() {
		t.TransactionDate = now
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := dbops.ExecContext(ctx, query, t.ID, t.TransactionType, t.DocumentNumber,
		nullableID(t.CustomerID), t.Preparer, t.Auditor, t.Handler, t.Receiver,
		t.Remarks, t.TotalAmount.Round(2), t.TransactionDate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateDocumentNumber
		}
		logger.Error("InsertHeader: failed to insert transaction", err)
		return err
	}
	return nil
}

// UpdateHeader rewrites the mutable header fields. DocumentNumber and
// TransactionDate are immutable after the first save and are never touched.
func (r *postgresTransactionRepository) UpdateHeader(ctx context.Context, dbops DBTX, t *domain.Transaction) error {
	query := `UPDATE transactions SET transaction_type = $1, customer_id = $2, preparer = $3, auditor = $4, handler = $5, receiver = $6, remarks = $7, updated_at = $8
              WHERE id = $9`
	t.UpdatedAt = time.Now()

	res, err := dbops.ExecContext(ctx, query, t.TransactionType, nullableID(t.CustomerID),
		t.Preparer, t.Auditor, t.Handler, t.Receiver, t.Remarks, t.UpdatedAt, t.ID)
	if err != nil {
		logger.Error("UpdateHeader: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *postgresTransactionRepository) GetHeaderByDocumentNumber(ctx context.Context, dbops DBTX, documentNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + headerColumns + ` FROM transactions WHERE document_number = $1`
	var t domain.Transaction
	err := scanHeader(dbops.QueryRowContext(ctx, query, documentNumber), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		logger.Error("GetHeaderByDocumentNumber: query failed", err)
		return nil, err
	}
	return &t, nil
}

func (r *postgresTransactionRepository) SetTotalAmount(ctx context.Context, dbops DBTX, transactionID string, total decimal.Decimal) error {
	query := `UPDATE transactions SET total_amount = $1, updated_at = NOW() WHERE id = $2`
	res, err := dbops.ExecContext(ctx, query, total.Round(2), transactionID)
	if err != nil {
		logger.Error("SetTotalAmount: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *postgresTransactionRepository) InsertItem(ctx context.Context, dbops DBTX, item *domain.TransactionItem) error {
	query := `INSERT INTO transaction_items (id, transaction_id, product_id, quantity, unit_price, total_price, remarks, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()

	_, err := dbops.ExecContext(ctx, query, item.ID, item.TransactionID, item.ProductID,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.Remarks, item.CreatedAt)
	if err != nil {
		logger.Error("InsertItem: failed to insert transaction item", err)
		return err
	}
	return nil
}

func (r *postgresTransactionRepository) UpdateItem(ctx context.Context, dbops DBTX, item *domain.TransactionItem) error {
	query := `UPDATE transaction_items SET quantity = $1, unit_price = $2, total_price = $3, remarks = $4 WHERE id = $5`
	res, err := dbops.ExecContext(ctx, query, item.Quantity, item.UnitPrice, item.TotalPrice, item.Remarks, item.ID)
	if err != nil {
		logger.Error("UpdateItem: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *postgresTransactionRepository) GetItemByTransactionAndProduct(ctx context.Context, dbops DBTX, transactionID, productID string) (*domain.TransactionItem, error) {
	query := `SELECT id, transaction_id, product_id, quantity, unit_price, total_price, remarks, created_at
              FROM transaction_items WHERE transaction_id = $1 AND product_id = $2`
	var i domain.TransactionItem
	err := dbops.QueryRowContext(ctx, query, transactionID, productID).Scan(
		&i.ID, &i.TransactionID, &i.ProductID, &i.Quantity, &i.UnitPrice, &i.TotalPrice, &i.Remarks, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		logger.Error("GetItemByTransactionAndProduct: query failed", err)
		return nil, err
	}
	return &i, nil
}

func (r *postgresTransactionRepository) SumItemTotals(ctx context.Context, dbops DBTX, transactionID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_price), 0) FROM transaction_items WHERE transaction_id = $1`
	var total decimal.Decimal
	if err := dbops.QueryRowContext(ctx, query, transactionID).Scan(&total); err != nil {
		logger.Error("SumItemTotals: query failed", err)
		return decimal.Zero, err
	}
	return total, nil
}

func (r *postgresTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + headerColumns + ` FROM transactions WHERE id = $1`
	var t domain.Transaction
	err := scanHeader(r.db.QueryRowContext(ctx, query, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		logger.Error("GetByID: query failed", err)
		return nil, err
	}

	items, err := r.listItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (r *postgresTransactionRepository) listItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	query := `SELECT id, transaction_id, product_id, quantity, unit_price, total_price, remarks, created_at
              FROM transaction_items WHERE transaction_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		logger.Error("listItems: query failed", err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.TransactionItem{}
	for rows.Next() {
		var i domain.TransactionItem
		if err := rows.Scan(&i.ID, &i.TransactionID, &i.ProductID, &i.Quantity,
			&i.UnitPrice, &i.TotalPrice, &i.Remarks, &i.CreatedAt); err != nil {
			logger.Error("listItems: scan failed", err)
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *postgresTransactionRepository) ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + headerColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}
	if filter.TransactionType != "" {
		args = append(args, filter.TransactionType)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND id IN (SELECT transaction_id FROM transaction_items WHERE product_id = $%d)", len(args))
	}
	if filter.ProductName != "" {
		args = append(args, "%"+filter.ProductName+"%")
		query += fmt.Sprintf(` AND id IN (SELECT ti.transaction_id FROM transaction_items ti
            JOIN products p ON p.product_id = ti.product_id WHERE p.name ILIKE $%d)`, len(args))
	}
	query += ` ORDER BY transaction_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListTransactions: query failed", err)
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := scanHeader(rows, &t); err != nil {
			logger.Error("ListTransactions: scan failed", err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *postgresTransactionRepository) ListTransactionsWithItems(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := r.ListTransactions(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	for idx := range transactions {
		items, err := r.listItems(ctx, transactions[idx].ID)
		if err != nil {
			return nil, err
		}
		transactions[idx].Items = items
	}
	return transactions, nil
}

func (r *postgresTransactionRepository) CountByType(ctx context.Context, t domain.TransactionType) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE transaction_type = $1`, t).Scan(&count)
	if err != nil {
		logger.Error("CountByType: query failed", err)
		return 0, err
	}
	return count, nil
}
