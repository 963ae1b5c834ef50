package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/0zheermao0/inventory/internal/catalog/domain"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductConflict = errors.New("product with this product_id already exists")
	ErrProductInUse    = errors.New("product is referenced by transactions")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repository methods can run
// inside a caller-owned transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error

	// UpsertByProductID is the explicit lookup-or-create used by the
	// spreadsheet reconciler. It reports whether a new row was created.
	UpsertByProductID(ctx context.Context, productID string, defaults domain.ProductDefaults) (bool, error)

	// Stock mutation is always done through these DBTX variants so the stock
	// delta commits or rolls back together with the owning transaction record.
	GetByProductIDForUpdate(ctx context.Context, dbops DBTX, productID string) (*domain.Product, error)
	AdjustStock(ctx context.Context, dbops DBTX, productID string, delta int) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `id, product_id, name, specification, unit, price, stock_quantity, description, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *domain.Product) error {
	return row.Scan(&p.ID, &p.ProductID, &p.Name, &p.Specification, &p.Unit,
		&p.Price, &p.StockQuantity, &p.Description, &p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY product_id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, productID), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetByProductID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (id, product_id, name, specification, unit, price, stock_quantity, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	product.ID = uuid.NewString()
	product.Price = product.Price.Round(2)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	_, err := r.db.ExecContext(ctx, query, product.ID, product.ProductID, product.Name,
		product.Specification, product.Unit, product.Price, product.StockQuantity,
		product.Description, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrProductConflict
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET name = $1, specification = $2, unit = $3, price = $4, description = $5, updated_at = $6
              WHERE product_id = $7`
	product.Price = product.Price.Round(2)
	product.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query, product.Name, product.Specification, product.Unit,
		product.Price, product.Description, product.UpdatedAt, product.ProductID)
	if err != nil {
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrProductInUse
		}
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) UpsertByProductID(ctx context.Context, productID string, defaults domain.ProductDefaults) (bool, error) {
	// ON CONFLICT keeps stock_quantity untouched for existing rows.
	query := `
        INSERT INTO products (id, product_id, name, specification, unit, price, stock_quantity, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $8)
        ON CONFLICT (product_id) DO UPDATE SET
        name = EXCLUDED.name,
        specification = EXCLUDED.specification,
        unit = EXCLUDED.unit,
        price = EXCLUDED.price,
        description = EXCLUDED.description,
        updated_at = EXCLUDED.updated_at
        RETURNING (xmax = 0)`

	var created bool
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), productID, defaults.Name,
		defaults.Specification, defaults.Unit, defaults.Price.Round(2), defaults.Description,
		time.Now()).Scan(&created)
	if err != nil {
		logger.Error("UpsertByProductID: upsert failed for "+productID, err)
		return false, err
	}
	return created, nil
}

// GetByProductIDForUpdate locks the product row so concurrent postings against
// the same product serialize on the stock check.
func (r *postgresProductRepository) GetByProductIDForUpdate(ctx context.Context, dbops DBTX, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 FOR UPDATE`
	var p domain.Product
	err := scanProduct(dbops.QueryRowContext(ctx, query, productID), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetByProductIDForUpdate: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) AdjustStock(ctx context.Context, dbops DBTX, productID string, delta int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE product_id = $2`
	res, err := dbops.ExecContext(ctx, query, delta, productID)
	if err != nil {
		logger.Error("AdjustStock: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
