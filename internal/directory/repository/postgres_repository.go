package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/0zheermao0/inventory/internal/directory/domain"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerConflict  = errors.New("customer with this name already exists")
	ErrCustomerInUse     = errors.New("customer is referenced by transactions")
	ErrStoreInfoNotFound = errors.New("store info not configured")
)

type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetByName(ctx context.Context, name string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, name string) error

	// UpsertByName reports whether a new customer row was created.
	UpsertByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (bool, error)

	// GetOrCreateByName never overwrites existing fields; defaults only apply
	// when the customer is first created.
	GetOrCreateByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (*domain.Customer, error)
}

type StoreInfoRepository interface {
	GetStoreInfo(ctx context.Context) (*domain.StoreInfo, error)
	SaveStoreInfo(ctx context.Context, info *domain.StoreInfo) error
}

type postgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) CustomerRepository {
	return &postgresCustomerRepository{db: db}
}

const customerColumns = `id, name, contact_person, phone, email, address, remarks, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }, c *domain.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email,
		&c.Address, &c.Remarks, &c.CreatedAt, &c.UpdatedAt)
}

func (r *postgresCustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListCustomers: query failed", err)
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			logger.Error("ListCustomers: scan failed", err)
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresCustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE name = $1`
	var c domain.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx, query, name), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("GetByName: query failed", err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresCustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (id, name, contact_person, phone, email, address, remarks, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt

	_, err := r.db.ExecContext(ctx, query, customer.ID, customer.Name, customer.ContactPerson,
		customer.Phone, customer.Email, customer.Address, customer.Remarks,
		customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrCustomerConflict
		}
		logger.Error("CreateCustomer: failed to insert customer", err)
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	query := `UPDATE customers SET contact_person = $1, phone = $2, email = $3, address = $4, remarks = $5, updated_at = $6
              WHERE name = $7`
	customer.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query, customer.ContactPerson, customer.Phone,
		customer.Email, customer.Address, customer.Remarks, customer.UpdatedAt, customer.Name)
	if err != nil {
		logger.Error("UpdateCustomer: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresCustomerRepository) DeleteCustomer(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE name = $1`, name)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrCustomerInUse
		}
		logger.Error("DeleteCustomer: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresCustomerRepository) UpsertByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (bool, error) {
	query := `
        INSERT INTO customers (id, name, contact_person, phone, email, address, remarks, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        ON CONFLICT (name) DO UPDATE SET
        contact_person = EXCLUDED.contact_person,
        phone = EXCLUDED.phone,
        email = EXCLUDED.email,
        address = EXCLUDED.address,
        remarks = EXCLUDED.remarks,
        updated_at = EXCLUDED.updated_at
        RETURNING (xmax = 0)`

	var created bool
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), name, defaults.ContactPerson,
		defaults.Phone, defaults.Email, defaults.Address, defaults.Remarks, time.Now()).Scan(&created)
	if err != nil {
		logger.Error("UpsertByName: upsert failed for "+name, err)
		return false, err
	}
	return created, nil
}

func (r *postgresCustomerRepository) GetOrCreateByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (*domain.Customer, error) {
	customer, err := r.GetByName(ctx, name)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}

	customer = &domain.Customer{
		Name:          name,
		ContactPerson: defaults.ContactPerson,
		Phone:         defaults.Phone,
		Email:         defaults.Email,
		Address:       defaults.Address,
		Remarks:       defaults.Remarks,
	}
	if err := r.CreateCustomer(ctx, customer); err != nil {
		// Lost the create race: another writer inserted the same name first.
		if errors.Is(err, ErrCustomerConflict) {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	return customer, nil
}

type postgresStoreInfoRepository struct {
	db *sql.DB
}

func NewPostgresStoreInfoRepository(db *sql.DB) StoreInfoRepository {
	return &postgresStoreInfoRepository{db: db}
}

func (r *postgresStoreInfoRepository) GetStoreInfo(ctx context.Context) (*domain.StoreInfo, error) {
	query := `SELECT id, name, phone, address, remarks, created_at, updated_at FROM store_info LIMIT 1`
	var info domain.StoreInfo
	err := r.db.QueryRowContext(ctx, query).Scan(&info.ID, &info.Name, &info.Phone,
		&info.Address, &info.Remarks, &info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreInfoNotFound
		}
		logger.Error("GetStoreInfo: query failed", err)
		return nil, err
	}
	return &info, nil
}

func (r *postgresStoreInfoRepository) SaveStoreInfo(ctx context.Context, info *domain.StoreInfo) error {
	existing, err := r.GetStoreInfo(ctx)
	if err != nil && !errors.Is(err, ErrStoreInfoNotFound) {
		return err
	}

	now := time.Now()
	if existing == nil {
		info.ID = uuid.NewString()
		info.CreatedAt = now
		info.UpdatedAt = now
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO store_info (id, name, phone, address, remarks, created_at, updated_at)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			info.ID, info.Name, info.Phone, info.Address, info.Remarks, info.CreatedAt, info.UpdatedAt)
	} else {
		info.ID = existing.ID
		info.CreatedAt = existing.CreatedAt
		info.UpdatedAt = now
		_, err = r.db.ExecContext(ctx,
			`UPDATE store_info SET name = $1, phone = $2, address = $3, remarks = $4, updated_at = $5 WHERE id = $6`,
			info.Name, info.Phone, info.Address, info.Remarks, info.UpdatedAt, info.ID)
	}
	if err != nil {
		logger.Error("SaveStoreInfo: exec failed", err)
		return err
	}
	return nil
}
