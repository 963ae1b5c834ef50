package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/0zheermao0/inventory/internal/catalog/domain"
	"github.com/0zheermao0/inventory/internal/catalog/repository"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	if product != nil && args.Error(0) == nil {
		product.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockProductRepository) UpsertByProductID(ctx context.Context, productID string, defaults domain.ProductDefaults) (bool, error) {
	args := m.Called(ctx, productID, defaults)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) GetByProductIDForUpdate(ctx context.Context, dbops repository.DBTX, productID string) (*domain.Product, error) {
	args := m.Called(ctx, dbops, productID)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, dbops repository.DBTX, productID string, delta int) error {
	args := m.Called(ctx, dbops, productID, delta)
	return args.Error(0)
}
