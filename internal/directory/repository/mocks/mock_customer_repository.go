package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/0zheermao0/inventory/internal/directory/domain"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	args := m.Called(ctx, name)
	if res := args.Get(0); res != nil {
		return res.(*domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	if customer != nil && args.Error(0) == nil {
		customer.ID = "mock-customer-id"
	}
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCustomer(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpsertByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (bool, error) {
	args := m.Called(ctx, name, defaults)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) GetOrCreateByName(ctx context.Context, name string, defaults domain.CustomerDefaults) (*domain.Customer, error) {
	args := m.Called(ctx, name, defaults)
	if res := args.Get(0); res != nil {
		return res.(*domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStoreInfoRepository struct {
	mock.Mock
}

func (m *MockStoreInfoRepository) GetStoreInfo(ctx context.Context) (*domain.StoreInfo, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*domain.StoreInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStoreInfoRepository) SaveStoreInfo(ctx context.Context, info *domain.StoreInfo) error {
	args := m.Called(ctx, info)
	if info != nil && args.Error(0) == nil && info.ID == "" {
		info.ID = "mock-store-id"
	}
	return args.Error(0)
}
